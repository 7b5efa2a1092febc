package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"aisdk/internal/core"
)

func newChatCmd(flags *rootFlags) *cobra.Command {
	var (
		model       string
		system      string
		temperature float64
		maxTokens   int
		showUsage   bool
	)
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Request a single chat completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initClientContext(cmd, flags)
			if err != nil {
				return err
			}
			defer c.Close()

			var messages []core.ChatMessage
			if system != "" {
				messages = append(messages, core.SystemMessage(system))
			}
			messages = append(messages, core.UserMessage(args[0]))

			opts := &core.ChatCompletionOptions{}
			if cmd.Flags().Changed("temperature") {
				opts.Temperature = &temperature
			}
			if maxTokens > 0 {
				opts.MaxTokens = &maxTokens
			}

			completion, err := c.Client.Chat.CompleteChat(commandContext(cmd), messages, model, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, completion.Text())
			if showUsage && completion.Usage != nil {
				u := completion.Usage
				fmt.Fprintf(cmd.ErrOrStderr(), "tokens: prompt=%d completion=%d total=%d\n", u.PromptTokens, u.CompletionTokens, u.TotalTokens)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "gpt-4o-mini", "Model to use")
	cmd.Flags().StringVar(&system, "system", "", "System prompt")
	cmd.Flags().Float64Var(&temperature, "temperature", 1, "Sampling temperature")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Maximum tokens to generate")
	cmd.Flags().BoolVar(&showUsage, "usage", false, "Print token usage to stderr")
	return cmd
}
