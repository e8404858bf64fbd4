package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/placement"
	"github.com/matzehuels/icongrid/pkg/scene"
)

type dropOpts struct {
	at        string
	items     string
	footprint string
	output    string
	store     storeFlags
}

// dropCommand creates the drop command, which simulates a drag-and-drop.
func (c *CLI) dropCommand() *cobra.Command {
	var opts dropOpts

	cmd := &cobra.Command{
		Use:   "drop [scene] --at X,Y --items ID[,ID...]",
		Short: "Drop a selection onto the grid, pushing occupants aside",
		Long: `Drop a selection onto the grid, pushing occupants aside.

The dragged items are inserted at the cell under --at. A drop in the first half
of an occupied cell (along the scan direction) goes before its occupant, a drop
in the second half after it. Occupants in the way are pushed forward along the
scan order so that no two items share a cell.

Ids already in the scene are moved; unknown ids are created with --footprint.
When the grid has no room left the overflow stacks on the escape valve, the
bottom-right cell.`,
		Example: `  icongrid drop desk.yaml --at 120,48 --items readme
  icongrid drop desk.yaml --at 0,0 --items new-1,new-2 --footprint 72x90`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDrop(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.at, "at", "", "drop point in canvas coordinates (X,Y)")
	cmd.Flags().StringVar(&opts.items, "items", "", "comma-separated ids of the dragged items")
	cmd.Flags().StringVar(&opts.footprint, "footprint", "", "footprint of new items (WxH, default: one cell)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output scene file (default: overwrite input)")
	addStoreFlags(cmd, &opts.store)
	_ = cmd.MarkFlagRequired("at")
	_ = cmd.MarkFlagRequired("items")

	return cmd
}

func (c *CLI) runDrop(ctx context.Context, input string, opts dropOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	at, err := parsePoint(opts.at)
	if err != nil {
		return err
	}
	ids, err := parseIDs(opts.items)
	if err != nil {
		return err
	}

	s, err := scene.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	fp := c.defaultFootprint()
	if opts.footprint != "" {
		if fp, err = parseSize(opts.footprint); err != nil {
			return err
		}
	}

	st, err := c.newStore(ctx, opts.store)
	if err != nil {
		return fmt.Errorf("open position store: %w", err)
	}
	defer st.Close()

	engine, err := c.newEngine(s, st)
	if err != nil {
		return err
	}

	placed, _ := s.Split()
	res, err := engine.Drop(ctx, placed, at, dragItems(s, ids, fp))
	if skipPass(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	added := s.Apply(res.Placed)
	s.Apply(res.Pushed)

	output := opts.output
	if output == "" {
		output = input
	}
	if _, err := writeScene(s, output); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Dropped %d icons", len(res.Placed)), "at", at, "pushed", len(res.Pushed))
	for _, p := range res.Placed {
		printPlacement(p)
	}
	for _, p := range res.Pushed {
		printPlacement(p)
	}
	if added > 0 {
		printInfo("Created %d new items", added)
	}
	if res.Degraded {
		printWarning("Grid is full; %d items share the escape valve", stackedOnEscape(s, engine))
	}
	printFile(output)
	return nil
}

// dragItems builds the drag payload. Items already in the scene keep their
// footprint; unknown ids get fp.
func dragItems(s *scene.Scene, ids []string, fp geom.Size) []placement.DragItem {
	out := make([]placement.DragItem, len(ids))
	for i, id := range ids {
		out[i] = placement.DragItem{ID: placement.ID(id), Footprint: fp}
		if it, ok := s.Lookup(id); ok {
			out[i].Footprint = it.Footprint
		}
	}
	return out
}

// defaultFootprint is the footprint of items created without one: a single
// cell.
func (c *CLI) defaultFootprint() geom.Size {
	g := c.settings().Grid
	return geom.Size{Width: g.CellWidth, Height: g.CellHeight}
}
