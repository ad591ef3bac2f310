// Package main is the entry point for the agentboard CLI.
//
// AgentBoard can be embedded as a library (SDK) or run as a standalone
// binary with YAML configuration. This CLI provides the standalone binary.
//
// Usage:
//
//	agentboard serve -c config.yaml        # Browser dashboard
//	agentboard watch -c config.yaml        # Terminal dashboard
//	agentboard test-agent -c config.yaml --agent customer_service --message "hi"
//	agentboard save-config -c config.yaml --agent customer_service --set tone=formal
//	agentboard validate -c config.yaml     # Validate configuration
//	agentboard version                     # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "agentboard",
	Short: "An admin dashboard for messaging agents",
	Long: `AgentBoard is the admin console of a messaging-agent platform.

It polls the platform's admin API for logs and statistics, shows them in a
browser or terminal dashboard, and lets an operator test an agent with a
message or save an agent's settings.

Quick start:
  1. Create a config file (agentboard.yaml)
  2. Run: agentboard serve -c agentboard.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  api:
    base_url: http://localhost:5000
  stats:
    - key: total_conversations
      label: Total Conversations
  agents:
    - id: customer_service
      name: Customer Service
      fields: [tone]`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this agentboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "agentboard %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
