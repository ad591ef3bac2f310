package main

import (
	"fmt"

	"github.com/jpalmerr/agentboard/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without contacting the admin API.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate an AgentBoard configuration file without starting anything.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  agentboard validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addConfigFlag(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  API:            %s\n", cfg.API.BaseURL)
	fmt.Fprintf(out, "  Port:           %d\n", cfg.Port)
	fmt.Fprintf(out, "  Log interval:   %s\n", cfg.LogInterval.Duration())
	fmt.Fprintf(out, "  Stats interval: %s\n", cfg.StatsInterval.Duration())
	fmt.Fprintf(out, "  Stats:          %d\n", len(cfg.Stats))
	fmt.Fprintf(out, "  Agents:         %d\n", len(cfg.Agents))

	return nil
}
