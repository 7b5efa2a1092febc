package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"aisdk/config"
	"aisdk/internal/mockapi"
)

const shutdownTimeout = 30 * time.Second

func newMockCmd(flags *rootFlags) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve an in-memory mock of the platform API",
		Long: `Serve an in-memory mock of the platform API on the configured port.
Point the client at it with --base-url http://localhost:<port>/v1. All state
is lost when the server stops.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initConfig(cmd, flags)
			if err != nil {
				return err
			}
			if port != "" {
				c.Config.Mock.Port = port
			}
			srvCfg, err := mockConfig(c.Config)
			if err != nil {
				return err
			}
			srvCfg.Logger = c.Logger

			if srvCfg.MasterKey == "" {
				c.Logger.Warn("AISDK_MASTER_KEY not set, the mock accepts any API key")
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := mockapi.New(srvCfg)
			go func() {
				<-ctx.Done()
				c.Logger.Info("shutting down mock server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					c.Logger.Error("mock server shutdown error", "error", err)
				}
			}()

			addr := ":" + c.Config.Mock.Port
			c.Logger.Info("starting mock server", "address", addr, "metrics", srvCfg.MetricsEnabled)
			if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("mock server failed: %w", err)
			}
			c.Logger.Info("mock server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (default mock.port)")
	return cmd
}

func mockConfig(cfg *config.Config) (*mockapi.Config, error) {
	limit, err := config.ParseBodySizeLimit(cfg.Mock.BodySizeLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid mock body size limit: %w", err)
	}
	return &mockapi.Config{
		MasterKey:       cfg.Mock.MasterKey,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsEndpoint: cfg.Metrics.Endpoint,
		BodySizeLimit:   limit,
	}, nil
}
