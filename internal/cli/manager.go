package cli

import (
	"context"

	"github.com/spf13/cobra"

	"cirrus/internal/cli/commands"
)

// Manager handles CLI operations
type Manager struct {
	rootCmd *cobra.Command
}

// New creates a new CLI manager with all commands registered
func New() *Manager {
	m := &Manager{
		rootCmd: createRootCommand(),
	}
	m.setupCommands()
	return m
}

// Execute executes the CLI with the given arguments
func (m *Manager) Execute(args []string) error {
	return m.ExecuteWithContext(context.Background(), args)
}

// ExecuteWithContext executes the CLI with the given arguments and context
func (m *Manager) ExecuteWithContext(ctx context.Context, args []string) error {
	m.rootCmd.SetArgs(args)
	return m.rootCmd.ExecuteContext(ctx)
}

// setupCommands sets up all CLI commands
func (m *Manager) setupCommands() {
	m.rootCmd.AddCommand(commands.ServeCommand())
	m.rootCmd.AddCommand(commands.StatusCommand())
	m.rootCmd.AddCommand(commands.EventsCommand())
	m.rootCmd.AddCommand(commands.VersionCommand())
}
