package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/icongrid/pkg/placement"
	"github.com/matzehuels/icongrid/pkg/store"
)

// positionsCommand creates the position store management command.
func (c *CLI) positionsCommand() *cobra.Command {
	var flags storeFlags

	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Manage saved item positions",
	}
	cmd.PersistentFlags().StringVar(&flags.path, "store-path", "", "position store file (default: ~/.local/share/icongrid/positions.db)")
	cmd.PersistentFlags().StringVar(&flags.scope, "scope", "", "position store scope (default from config)")

	cmd.AddCommand(c.positionsListCommand(&flags))
	cmd.AddCommand(c.positionsDeleteCommand(&flags))
	cmd.AddCommand(c.positionsClearCommand(&flags))
	cmd.AddCommand(c.positionsScopesCommand(&flags))
	cmd.AddCommand(c.positionsPathCommand(&flags))

	return cmd
}

// positionsListCommand creates the "positions list" subcommand.
func (c *CLI) positionsListCommand(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the positions saved in a scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openSQLite(cmd.Context(), *flags)
			if err != nil {
				return fmt.Errorf("open position store: %w", err)
			}
			defer st.Close()

			entries, err := st.Positions(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No positions saved in scope %s", st.Scope())
				return nil
			}
			fmt.Fprintln(stdout, positionsTable(entries))
			printDetail("%d positions in scope %s", len(entries), st.Scope())
			return nil
		},
	}
}

// positionsDeleteCommand creates the "positions delete" subcommand.
func (c *CLI) positionsDeleteCommand(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID[,ID...]",
		Short: "Forget the saved positions of some items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[0])
			if err != nil {
				return err
			}
			st, err := c.openSQLite(cmd.Context(), *flags)
			if err != nil {
				return fmt.Errorf("open position store: %w", err)
			}
			defer st.Close()

			for _, id := range ids {
				if err := st.Delete(cmd.Context(), placement.ID(id)); err != nil {
					return err
				}
			}
			printSuccess("Deleted %d positions from scope %s", len(ids), st.Scope())
			return nil
		},
	}
}

// positionsClearCommand creates the "positions clear" subcommand.
func (c *CLI) positionsClearCommand(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget every position saved in a scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.storePath(flags.path)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				printInfo("Position store is empty")
				return nil
			}

			st, err := c.openSQLite(cmd.Context(), *flags)
			if err != nil {
				return fmt.Errorf("open position store: %w", err)
			}
			defer st.Close()

			n, err := st.Clear(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Cleared %d saved positions", n)
			printDetail("Scope: %s", st.Scope())
			return nil
		},
	}
}

// positionsScopesCommand creates the "positions scopes" subcommand.
func (c *CLI) positionsScopesCommand(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scopes",
		Short: "List the scopes with saved positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openSQLite(cmd.Context(), *flags)
			if err != nil {
				return fmt.Errorf("open position store: %w", err)
			}
			defer st.Close()

			scopes, err := st.Scopes(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range scopes {
				fmt.Fprintln(stdout, s)
			}
			return nil
		},
	}
}

// positionsPathCommand creates the "positions path" subcommand.
func (c *CLI) positionsPathCommand(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the position store path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.storePath(flags.path)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, path)
			return nil
		},
	}
}

// positionsTable renders entries as a table.
func positionsTable(entries []store.Entry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			string(e.ID),
			fmt.Sprintf("%g", e.Anchor.X),
			fmt.Sprintf("%g", e.Anchor.Y),
			e.UpdatedAt.Local().Format("2006-01-02 15:04"),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "X", "Y", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1 || col == 2:
				return StyleNumber
			case col == 3:
				return StyleDim
			}
			return StyleValue
		})
	return t.Render()
}
