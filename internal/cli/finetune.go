package cli

import (
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"aisdk/internal/core"
	"aisdk/internal/finetuning"
	"aisdk/internal/logging"
	"aisdk/internal/sdk"
)

func newFineTuneCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "finetune",
		Aliases: []string{"ft"},
		Short:   "Manage fine-tuning jobs",
	}
	cmd.AddCommand(
		newFineTuneCreateCmd(flags),
		newFineTuneGetCmd(flags),
		newFineTuneCancelCmd(flags),
		newFineTuneListCmd(flags),
		newFineTuneEventsCmd(flags),
		newFineTuneWatchCmd(flags),
		newFineTuneHistoryCmd(flags),
	)
	return cmd
}

// watchFlags are shared by "create --watch" and "watch".
type watchFlags struct {
	interval time.Duration
	noRecord bool
}

func (f *watchFlags) register(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&f.interval, "interval", 0, "Poll interval (default fine_tuning.poll_interval_seconds)")
	cmd.Flags().BoolVar(&f.noRecord, "no-record", false, "Do not record job snapshots in the configured storage")
}

func (f *watchFlags) clientOptions() []sdk.Option {
	if f.noRecord {
		return nil
	}
	return []sdk.Option{sdk.WithJobStore()}
}

func newFineTuneCreateCmd(flags *rootFlags) *cobra.Command {
	var (
		trainingFile   string
		validationFile string
		model          string
		suffix         string
		epochs         string
		seed           int
		watch          bool
		wf             watchFlags
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a fine-tuning job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []sdk.Option
			if watch {
				opts = wf.clientOptions()
			}
			c, err := initClientContext(cmd, flags, opts...)
			if err != nil {
				return err
			}
			defer c.Close()

			jobOpts := &core.FineTuningJobOptions{
				ValidationFile: validationFile,
				Suffix:         suffix,
			}
			if epochs != "" {
				jobOpts.Hyperparameters = &core.Hyperparameters{NEpochs: core.HyperparameterValue(epochs)}
			}
			if cmd.Flags().Changed("seed") {
				jobOpts.Seed = &seed
			}

			ctx := commandContext(cmd)
			job, err := c.Client.FineTuning.CreateJob(ctx, trainingFile, model, jobOpts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %s\n", job.ID)
			if !watch {
				printStatus(out, "Status:", string(job.Status))
				return nil
			}
			return watchJob(cmd, c, job.ID, wf)
		},
	}
	cmd.Flags().StringVarP(&trainingFile, "training-file", "t", "", "ID of the uploaded training file")
	cmd.Flags().StringVar(&validationFile, "validation-file", "", "ID of the uploaded validation file")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Base model to fine-tune")
	cmd.Flags().StringVar(&suffix, "suffix", "", "Suffix added to the fine-tuned model name")
	cmd.Flags().StringVar(&epochs, "epochs", "", `Number of epochs, or "auto"`)
	cmd.Flags().IntVar(&seed, "seed", 0, "Seed for reproducible training")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Follow the job until it finishes")
	wf.register(cmd)
	_ = cmd.MarkFlagRequired("training-file")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func newFineTuneGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <job-id>",
		Short: "Show a fine-tuning job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initClientContext(cmd, flags)
			if err != nil {
				return err
			}
			defer c.Close()

			job, err := c.Client.FineTuning.GetJob(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), job)
		},
	}
}

func newFineTuneCancelCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a fine-tuning job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initClientContext(cmd, flags)
			if err != nil {
				return err
			}
			defer c.Close()

			job, err := c.Client.FineTuning.CancelJob(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), job.ID, string(job.Status))
			return nil
		},
	}
}

func newFineTuneListCmd(flags *rootFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fine-tuning jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initClientContext(cmd, flags)
			if err != nil {
				return err
			}
			defer c.Close()

			pager, err := c.Client.FineTuning.GetJobs(commandContext(cmd))
			if err != nil {
				return err
			}
			return printJobs(cmd.OutOrStdout(), pager.All(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many jobs")
	return cmd
}

func printJobs(w io.Writer, jobs iter.Seq2[core.FineTuningJob, error], limit int) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tMODEL\tSTATUS\tFINE-TUNED MODEL\tCREATED")
	n := 0
	for job, err := range jobs {
		if err != nil {
			return err
		}
		if limit > 0 && n == limit {
			break
		}
		n++
		tuned := "-"
		if job.FineTunedModel != nil {
			tuned = *job.FineTunedModel
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", job.ID, job.Model, job.Status, tuned, formatTime(job.CreatedAt))
	}
	return tw.Flush()
}

func newFineTuneEventsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "events <job-id>",
		Short: "Show a job's event log, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initClientContext(cmd, flags)
			if err != nil {
				return err
			}
			defer c.Close()

			pager, err := c.Client.FineTuning.GetJobEvents(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for ev, err := range pager.All() {
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %-5s  %s\n", formatTime(ev.CreatedAt), ev.Level, ev.Message)
			}
			return nil
		},
	}
}

func newFineTuneWatchCmd(flags *rootFlags) *cobra.Command {
	var wf watchFlags
	cmd := &cobra.Command{
		Use:   "watch <job-id>",
		Short: "Follow a job until it finishes",
		Long: `Poll a fine-tuning job until it succeeds, fails or is cancelled. Every
status change is printed and, unless --no-record is given, stored so that
"finetune history" can show it later.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initClientContext(cmd, flags, wf.clientOptions()...)
			if err != nil {
				return err
			}
			defer c.Close()
			return watchJob(cmd, c, args[0], wf)
		},
	}
	wf.register(cmd)
	return cmd
}

// watchJob prints each status change of the job and fails when the job does
// not succeed.
func watchJob(cmd *cobra.Command, c *cmdContext, jobID string, wf watchFlags) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	var spin *spinner.Spinner
	if logging.IsTerminal(errOut) {
		spin = spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(errOut))
		spin.Suffix = " waiting for " + shortID(jobID)
		spin.Start()
		defer spin.Stop()
	}

	onChange := func(job *core.FineTuningJob) {
		if spin != nil {
			spin.Lock()
			spin.Suffix = fmt.Sprintf(" %s %s", shortID(job.ID), job.Status)
			spin.Unlock()
		}
		printStatus(out, job.ID, string(job.Status))
	}

	w := c.Client.Watcher(finetuning.WithInterval(wf.interval), finetuning.OnChange(onChange))
	job, err := w.Watch(commandContext(cmd), jobID)
	if err != nil {
		return err
	}
	if job.FineTunedModel != nil {
		fmt.Fprintf(out, "Fine-tuned model: %s\n", *job.FineTunedModel)
	}
	if job.Status != core.JobStatusSucceeded {
		if job.Error != nil && job.Error.Message() != "" {
			return fmt.Errorf("job %s %s: %s", job.ID, job.Status, job.Error.Message())
		}
		return fmt.Errorf("job %s %s", job.ID, job.Status)
	}
	return nil
}

func newFineTuneHistoryCmd(flags *rootFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List job snapshots recorded by watch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initClientContext(cmd, flags, sdk.WithJobStore())
			if err != nil {
				return err
			}
			defer c.Close()

			jobs, err := c.Client.Jobs.List(commandContext(cmd), limit, "")
			if err != nil {
				return err
			}
			var seq iter.Seq2[core.FineTuningJob, error] = func(yield func(core.FineTuningJob, error) bool) {
				for _, job := range jobs {
					if !yield(*job, nil) {
						return
					}
				}
			}
			return printJobs(cmd.OutOrStdout(), seq, 0)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most this many jobs")
	return cmd
}
