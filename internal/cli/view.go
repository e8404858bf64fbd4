package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/icongrid/pkg/scene"
	"github.com/matzehuels/icongrid/pkg/store"
)

// viewCommand creates the view command, an interactive grid editor.
func (c *CLI) viewCommand() *cobra.Command {
	var flags storeFlags

	cmd := &cobra.Command{
		Use:   "view [scene]",
		Short: "Arrange a scene interactively in the terminal",
		Long: `Arrange a scene interactively in the terminal.

Move the cursor with the arrow keys, pick the icons under it with space and
drop the selection elsewhere with enter. Icons in the way are pushed aside.
Press s to write the scene back to its file.

Without --store, positions are only kept for the session.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], flags)
		},
	}

	addStoreFlags(cmd, &flags)
	return cmd
}

func (c *CLI) runView(ctx context.Context, path string, flags storeFlags) error {
	s, err := scene.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", path, err)
	}

	var st store.Store
	if flags.enabled {
		if st, err = c.newStore(ctx, flags); err != nil {
			return fmt.Errorf("open position store: %w", err)
		}
		if _, err := restorePositions(ctx, s, st); err != nil {
			st.Close()
			return fmt.Errorf("restore positions: %w", err)
		}
	} else {
		st = store.NewMemoryStore(c.scopeOf(flags))
	}
	defer st.Close()

	engine, err := c.newEngine(s, st)
	if err != nil {
		return err
	}
	model, err := NewGridModel(ctx, engine, st, s, path)
	if skipPass(err) {
		return nil
	}
	if err != nil {
		return err
	}

	// The TUI owns the terminal; keep the engine's log lines out of it.
	level := c.Logger.GetLevel()
	c.SetLogLevel(LogError)
	defer c.SetLogLevel(level)

	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run view: %w", err)
	}

	if m, ok := final.(GridModel); ok {
		if m.dirty {
			printWarning("Unsaved changes to %s discarded", path)
		} else if m.saved {
			printSuccess("Saved %s", path)
		}
	}
	return nil
}
