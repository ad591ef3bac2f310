package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jpalmerr/agentboard/internal/termview"
	"github.com/spf13/cobra"
)

// watchCmd shows the dashboard in the terminal.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the dashboard in the terminal",
	Long: `Show logs and stats in the terminal, redrawn on every refresh.

Logging goes to stderr at warn level so it does not interleave with the
frames written to stdout.

Example:
  agentboard watch -c config.yaml
  agentboard watch -c config.yaml --lines 40`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addConfigFlag(watchCmd)
	watchCmd.Flags().IntP("lines", "n", 20, "number of trailing log lines to show")
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := newLogger(slog.LevelWarn)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lines, _ := cmd.Flags().GetInt("lines")

	pg, d, err := newBoundDashboard(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	view := termview.New(pg, os.Stdout,
		termview.WithMaxLogLines(lines),
		termview.WithLogger(logger),
	)

	viewErr := make(chan error, 1)
	go func() {
		err := view.Run(ctx)
		if err != nil {
			stop()
		}
		viewErr <- err
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- runDashboard(ctx, d, logger)
	}()

	if err := waitForShutdown(ctx, errChan, logger); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	if err := <-viewErr; err != nil {
		return fmt.Errorf("terminal view error: %w", err)
	}
	return nil
}
