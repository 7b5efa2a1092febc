package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"aisdk/internal/assistants"
	"aisdk/internal/core"
	"aisdk/internal/streaming"
)

type runFlags struct {
	assistantID  string
	model        string
	instructions string
	stream       bool
	keep         bool
	pollInterval time.Duration
}

func newRunCmd(flags *rootFlags) *cobra.Command {
	var rf runFlags
	cmd := &cobra.Command{
		Use:   "run <message>",
		Short: "Send a message to an assistant in a new thread",
		Long: `Create a thread holding the message, run an assistant on it and print the
reply. Without --assistant a temporary assistant is created for --model and
deleted afterwards unless --keep is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rf.assistantID == "" && rf.model == "" {
				return errors.New("either --assistant or --model is required")
			}
			c, err := initClientContext(cmd, flags)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := commandContext(cmd)
			ops := c.Client.Assistants
			assistantID := rf.assistantID
			if assistantID == "" {
				a, err := ops.CreateAssistant(ctx, rf.model, &core.AssistantCreationOptions{
					Name:         "aisdk-cli",
					Instructions: rf.instructions,
				})
				if err != nil {
					return err
				}
				assistantID = a.ID
				c.Logger.Debug("assistant created", "assistant_id", a.ID)
				if !rf.keep {
					defer func() {
						if _, err := ops.DeleteAssistant(context.WithoutCancel(ctx), a.ID); err != nil {
							c.Logger.Warn("failed to delete assistant", "assistant_id", a.ID, "error", err)
						}
					}()
				}
			}

			thread := &core.ThreadCreationOptions{
				InitialMessages: []core.InitialMessage{{
					Role:    core.MessageRoleUser,
					Content: []core.MessageContent{core.TextPart(args[0])},
				}},
			}
			out := cmd.OutOrStdout()
			if rf.stream {
				return streamRun(ctx, ops, out, assistantID, thread)
			}
			return pollRun(ctx, ops, out, assistantID, thread, rf.pollInterval)
		},
	}
	cmd.Flags().StringVarP(&rf.assistantID, "assistant", "a", "", "ID of the assistant to run")
	cmd.Flags().StringVarP(&rf.model, "model", "m", "", "Model for a temporary assistant")
	cmd.Flags().StringVar(&rf.instructions, "instructions", "", "Instructions for a temporary assistant")
	cmd.Flags().BoolVarP(&rf.stream, "stream", "s", false, "Print the reply as it is generated")
	cmd.Flags().BoolVar(&rf.keep, "keep", false, "Keep the temporary assistant")
	cmd.Flags().DurationVar(&rf.pollInterval, "poll-interval", time.Second, "Run status poll interval")
	return cmd
}

// streamRun prints message deltas until the run stream ends.
func streamRun(ctx context.Context, ops assistants.Operations, w io.Writer, assistantID string, thread *core.ThreadCreationOptions) error {
	updates, err := ops.CreateThreadAndRunStreaming(ctx, assistantID, thread, nil)
	if err != nil {
		return err
	}
	defer updates.Close()

	var last *core.Run
	for u, err := range updates.All() {
		if err != nil {
			return err
		}
		switch u.Kind() {
		case streaming.KindMessageDelta:
			fmt.Fprint(w, u.Text())
		case streaming.KindRun:
			run, err := u.Run()
			if err != nil {
				return err
			}
			last = run
		case streaming.KindError:
			return u.Err()
		}
	}
	fmt.Fprintln(w)
	if last == nil {
		return errors.New("stream ended without a run")
	}
	return runOutcome(last)
}

// pollRun waits for the run to finish and prints the assistant's reply.
func pollRun(ctx context.Context, ops assistants.Operations, w io.Writer, assistantID string, thread *core.ThreadCreationOptions, interval time.Duration) error {
	run, err := ops.CreateThreadAndRun(ctx, assistantID, thread, nil)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(max(interval, 10*time.Millisecond))
	defer ticker.Stop()
	for !run.Status.IsTerminal() && run.Status != core.RunStatusRequiresAction {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if run, err = ops.GetRun(ctx, run.ThreadID, run.ID); err != nil {
			return err
		}
	}
	if err := runOutcome(run); err != nil {
		return err
	}

	pager, err := ops.GetMessages(ctx, run.ThreadID, core.ListOrderDescending)
	if err != nil {
		return err
	}
	for msg, err := range pager.All() {
		if err != nil {
			return err
		}
		if msg.Role == core.MessageRoleAssistant && msg.RunID == run.ID {
			fmt.Fprintln(w, messageText(msg))
			return nil
		}
	}
	return fmt.Errorf("run %s completed without a reply", run.ID)
}

func runOutcome(run *core.Run) error {
	switch run.Status {
	case core.RunStatusCompleted:
		return nil
	case core.RunStatusRequiresAction:
		return fmt.Errorf("run %s requires tool outputs, which this command cannot provide", run.ID)
	}
	if run.LastError != nil && run.LastError.Message != "" {
		return fmt.Errorf("run %s %s: %s", run.ID, run.Status, run.LastError.Message)
	}
	return fmt.Errorf("run %s %s", run.ID, run.Status)
}

func messageText(m core.Message) string {
	var parts []string
	for _, c := range m.Content {
		if c.Text != nil {
			parts = append(parts, c.Text.Value)
		}
	}
	return strings.Join(parts, "\n")
}
