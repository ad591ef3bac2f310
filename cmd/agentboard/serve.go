package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/jpalmerr/agentboard/dashboard"
	"github.com/jpalmerr/agentboard/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd starts the browser dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser dashboard",
	Long: `Start the AgentBoard browser dashboard.

The server will:
  - Load configuration from the specified YAML file
  - Refresh logs and stats from the admin API on their intervals
  - Serve the dashboard UI on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  agentboard serve -c config.yaml
  agentboard serve --config /etc/agentboard/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addConfigFlag(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(slog.LevelInfo)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger.Info("config loaded",
		"stats", len(cfg.Stats),
		"agents", len(cfg.Agents),
	)

	pg, d, err := newBoundDashboard(cfg, logger)
	if err != nil {
		return err
	}

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(pg, d.Actions(), cfg.Port, dashboard.Assets, cfg.Title, logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("refreshing admin data",
		"base_url", d.BaseURL(),
		"log_interval", d.LogInterval().String(),
		"stats_interval", d.StatsInterval().String(),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- runDashboard(ctx, d, logger)
	}()

	if err := waitForShutdown(ctx, errChan, logger); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
