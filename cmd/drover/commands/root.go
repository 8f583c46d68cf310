// Package commands implements the CLI commands for the drover build driver.
package commands

import (
	"context"

	"github.com/droverbuild/drover/internal/app"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for drover.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "drover",
		Short:         "A dependency-driven incremental parallel build driver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}
