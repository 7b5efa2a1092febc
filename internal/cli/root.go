// Package cli implements the aisdk command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"aisdk/config"
	"aisdk/internal/logging"
	"aisdk/internal/sdk"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	baseURL    string
	apiKey     string
	logLevel   string
	logFormat  string
}

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Logger *slog.Logger
	Client *sdk.Client
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Client == nil {
		return
	}
	if err := c.Client.Close(); err != nil {
		c.Logger.Warn("failed to close client", logging.Err(err))
	}
}

// initConfig loads the configuration, applies flag overrides and installs
// the logger. Logs go to stderr so command output stays parseable.
func initConfig(cmd *cobra.Command, flags *rootFlags) (*cmdContext, error) {
	if flags.configPath != "" {
		if err := os.Setenv("AISDK_CONFIG", flags.configPath); err != nil {
			return nil, err
		}
	}
	loaded, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg := loaded.Config
	applyFlags(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	if loaded.Path != "" {
		logger.Debug("configuration loaded", "path", loaded.Path)
	}
	return &cmdContext{Config: cfg, Logger: logger}, nil
}

// initClientContext is initConfig plus an SDK client.
func initClientContext(cmd *cobra.Command, flags *rootFlags, opts ...sdk.Option) (*cmdContext, error) {
	c, err := initConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	if c.Config.API.APIKey == "" {
		c.Logger.Warn("no API key configured, set AISDK_API_KEY or pass --api-key")
	}
	opts = append([]sdk.Option{sdk.WithLogger(c.Logger)}, opts...)
	client, err := sdk.New(commandContext(cmd), c.Config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	c.Client = client
	return c, nil
}

func applyFlags(cfg *config.Config, flags *rootFlags) {
	if flags.baseURL != "" {
		cfg.API.BaseURL = flags.baseURL
	}
	if flags.apiKey != "" {
		cfg.API.APIKey = flags.apiKey
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "aisdk",
		Short: "Client for the assistants, files and fine-tuning APIs",
		Long: `aisdk talks to an OpenAI-compatible platform API. It manages files and
fine-tuning jobs, runs assistants, and can start an in-memory mock of the API
for local development.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default config/config.yaml or config.yaml)")
	pf.StringVar(&flags.baseURL, "base-url", "", "API base URL")
	pf.StringVar(&flags.apiKey, "api-key", "", "API key")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format (auto, text, json)")

	cmd.AddCommand(
		newFilesCmd(flags),
		newFineTuneCmd(flags),
		newRunCmd(flags),
		newChatCmd(flags),
		newMockCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command and reports a failure on stderr.
func Execute(ctx context.Context) error {
	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}

// shortID returns the last 8 characters of an ID
func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
