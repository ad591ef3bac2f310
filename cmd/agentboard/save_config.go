package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jpalmerr/agentboard"
	"github.com/spf13/cobra"
)

// saveConfigCmd saves an agent's settings.
var saveConfigCmd = &cobra.Command{
	Use:   "save-config",
	Short: "Save an agent's settings",
	Long: `Save settings for an agent through the admin API.

Each --set flag adds one field. Fields not listed for the agent in the
config file are dropped, as they would be by the dashboard form.

Example:
  agentboard save-config -c config.yaml --agent customer_service --set tone=formal --set max_tokens=256`,
	RunE: runSaveConfig,
}

func init() {
	rootCmd.AddCommand(saveConfigCmd)
	addConfigFlag(saveConfigCmd)
	saveConfigCmd.Flags().StringP("agent", "a", "", "agent id (required)")
	saveConfigCmd.Flags().StringArray("set", nil, "field=value to save (repeatable)")
	_ = saveConfigCmd.MarkFlagRequired("agent")
}

func runSaveConfig(cmd *cobra.Command, args []string) error {
	logger := newLogger(slog.LevelWarn)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	agentID, _ := cmd.Flags().GetString("agent")
	sets, _ := cmd.Flags().GetStringArray("set")

	values, err := parseSetFlags(sets)
	if err != nil {
		return err
	}

	pg, d, err := newBoundDashboard(cfg, logger)
	if err != nil {
		return err
	}
	if !pg.HasAgent(agentID) {
		return fmt.Errorf("agent %q is not declared in the config", agentID)
	}

	// go through the form so undeclared fields are filtered
	pg.ConfigForm(agentID).SetValues(values)

	out := cmd.OutOrStdout()
	if err := d.Actions().SubmitConfigForm(context.Background(), agentID); err != nil {
		fmt.Fprintln(out, agentboard.ConfigSaveFailedText)
		return fmt.Errorf("save config for %q: %w", agentID, err)
	}
	fmt.Fprintln(out, agentboard.ConfigSavedText)
	return nil
}

// parseSetFlags turns "key=value" pairs into a config map.
func parseSetFlags(sets []string) (map[string]string, error) {
	values := make(map[string]string, len(sets))
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q: expected field=value", s)
		}
		values[k] = v
	}
	return values, nil
}
