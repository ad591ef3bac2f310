package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jpalmerr/agentboard"
	"github.com/jpalmerr/agentboard/config"
	"github.com/jpalmerr/agentboard/internal/page"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second

	// drainTimeout bounds the wait for refreshes still in flight at exit.
	drainTimeout = 5 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = cmd.MarkFlagRequired("config")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newBoundDashboard builds the page model declared by cfg and a Dashboard
// bound to it. Notices are mirrored onto the page so every front-end can
// show them. extra options are applied last and may replace bindings.
func newBoundDashboard(cfg *config.Config, logger *slog.Logger, extra ...agentboard.Option) (*page.Page, *agentboard.Dashboard, error) {
	pg := config.BuildPage(cfg)

	opts := config.BuildOptions(cfg, pg)
	opts = append(opts,
		agentboard.WithLogger(logger),
		agentboard.WithNoticeCallback(func(n agentboard.Notice) {
			pg.ShowNotice(n.Level.String(), n.AgentID, n.Text)
		}),
	)
	opts = append(opts, extra...)

	d, err := agentboard.New(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create dashboard: %w", err)
	}
	return pg, d, nil
}

// runDashboard runs d until ctx is cancelled, then gives in-flight
// refreshes up to drainTimeout to finish.
func runDashboard(ctx context.Context, d *agentboard.Dashboard, logger *slog.Logger) error {
	if err := d.Start(ctx); err != nil {
		return err
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := d.Wait(drainCtx); err != nil {
		logger.Warn("abandoning in-flight refreshes",
			"timeout", drainTimeout.String(),
		)
	}
	return nil
}

// waitForShutdown waits for errChan after ctx is cancelled, giving up after
// shutdownTimeout.
func waitForShutdown(ctx context.Context, errChan <-chan error, logger *slog.Logger) error {
	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		select {
		case err := <-errChan:
			if err != nil {
				return err
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
