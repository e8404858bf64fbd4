package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/icongrid/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The configuration file is loaded once before any subcommand runs and the
// CLI's logger is attached to the command context, so commands reach it
// through loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "icongrid arranges icons on a snapping grid",
		Long: `icongrid places desktop-style icons on a grid of equally sized cells.

It lays down icons that have no position yet, re-snaps existing ones into a
packed arrangement, and simulates dropping a selection onto the grid, pushing
occupants aside to make room. Scenes are JSON or YAML files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/icongrid/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.dropCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.positionsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
