package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jpalmerr/agentboard"
	"github.com/spf13/cobra"
)

// testAgentCmd sends one test message to an agent.
var testAgentCmd = &cobra.Command{
	Use:   "test-agent",
	Short: "Send a test message to an agent",
	Long: `Send a single test message to an agent through the admin API and
print the agent's reply.

The agent must be declared in the config file. On failure the same text
the dashboard would show is printed and the command exits non-zero.

Example:
  agentboard test-agent -c config.yaml --agent customer_service --message "Where is my order?"`,
	RunE: runTestAgent,
}

func init() {
	rootCmd.AddCommand(testAgentCmd)
	addConfigFlag(testAgentCmd)
	testAgentCmd.Flags().StringP("agent", "a", "", "agent id (required)")
	testAgentCmd.Flags().StringP("message", "m", "", "test message")
	_ = testAgentCmd.MarkFlagRequired("agent")
}

func runTestAgent(cmd *cobra.Command, args []string) error {
	logger := newLogger(slog.LevelWarn)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	agentID, _ := cmd.Flags().GetString("agent")
	message, _ := cmd.Flags().GetString("message")

	pg, d, err := newBoundDashboard(cfg, logger)
	if err != nil {
		return err
	}
	if !pg.HasAgent(agentID) {
		return fmt.Errorf("agent %q is not declared in the config", agentID)
	}

	out := cmd.OutOrStdout()
	err = d.Actions().TestAgent(context.Background(), agentID, message)
	switch {
	case errors.Is(err, agentboard.ErrEmptyMessage):
		return errors.New(agentboard.EmptyMessageText)
	case err != nil:
		fmt.Fprintln(out, agentboard.ErrorTestingAgentText)
		return fmt.Errorf("test agent %q: %w", agentID, err)
	}

	fmt.Fprintln(out, pg.ResponseRegion(agentID).Text())
	return nil
}
