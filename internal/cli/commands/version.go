package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

// VersionCommand creates the version command
func VersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cirrus version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cirrus %s\n", Version)
		},
	}
}
