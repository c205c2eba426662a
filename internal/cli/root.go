package cli

import (
	"github.com/spf13/cobra"
)

// createRootCommand creates the root command with global flags
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cirrus",
		Short: "Single-process service supervisor",
		Long: `cirrus runs a set of declared services as supervised workers inside one
control process. It replicates each service across worker slots, respawns
crashed workers, drains everything within a bounded grace period on
shutdown, and exposes an admin API for inspection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to showing help if no subcommand
			return cmd.Help()
		},
	}

	return rootCmd
}
