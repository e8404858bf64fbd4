package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/icongrid/pkg/scene"
	"github.com/matzehuels/icongrid/pkg/watch"
)

type layoutOpts struct {
	output string
	align  bool
	watch  bool
	store  storeFlags
}

// layoutCommand creates the layout command for placing unpositioned icons.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [scene]",
		Short: "Place icons that have no position yet",
		Long: `Place icons that have no position yet.

Every item without a position takes the next free grid cell in scan order,
around the items that are already placed. With --align every item is re-snapped
into a packed arrangement that keeps the current scan order.

With --store, positions saved by earlier runs are restored for unplaced items
before the pass and every new position is saved afterwards.

With --watch the pass reruns whenever the scene file changes.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch {
				return c.watchLayout(cmd.Context(), args[0], opts)
			}
			return c.runLayout(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output scene file (default: overwrite input)")
	cmd.Flags().BoolVar(&opts.align, "align", false, "re-snap every item into a packed arrangement")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rerun whenever the scene file changes")
	addStoreFlags(cmd, &opts.store)

	return cmd
}

// addStoreFlags registers the position store flags shared by several commands.
func addStoreFlags(cmd *cobra.Command, f *storeFlags) {
	cmd.Flags().BoolVar(&f.enabled, "store", false, "restore and save positions in the position store")
	cmd.Flags().StringVar(&f.path, "store-path", "", "position store file (default: ~/.local/share/icongrid/positions.db)")
	cmd.Flags().StringVar(&f.scope, "scope", "", "position store scope (default from config)")
}

// runLayout loads the scene, runs the pass and writes the result.
func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	s, err := scene.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	st, err := c.newStore(ctx, opts.store)
	if err != nil {
		return fmt.Errorf("open position store: %w", err)
	}
	defer st.Close()

	if opts.store.enabled {
		n, err := restorePositions(ctx, s, st)
		if err != nil {
			return fmt.Errorf("restore positions: %w", err)
		}
		logger.Debug("restored saved positions", "items", n, "scope", st.Scope())
	}

	engine, err := c.newEngine(s, st)
	if err != nil {
		return err
	}

	placed, fresh := s.Split()
	ps, err := engine.LayDown(ctx, placed, fresh)
	if skipPass(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lay down: %w", err)
	}
	s.Apply(ps)

	if opts.align {
		aligned, err := engine.Align(ctx, s.EngineItems())
		if err != nil {
			return fmt.Errorf("align: %w", err)
		}
		s.Apply(aligned)
	}

	output := opts.output
	if output == "" {
		output = input
	}
	changed, err := writeScene(s, output)
	if err != nil {
		return err
	}

	if opts.align {
		prog.done(fmt.Sprintf("Aligned %d icons", len(s.Items)), "scene", input)
	} else {
		prog.done(fmt.Sprintf("Placed %d icons", len(ps)), "scene", input)
	}
	printStats(len(s.Items), len(ps), stackedOnEscape(s, engine))
	if changed {
		printFile(output)
	}
	if !opts.watch {
		printNextStep("Preview", "icongrid render "+output+" --text")
	}
	return nil
}

// watchLayout runs the pass once, then again on every change to input.
// Writing the result does not retrigger the pass because unchanged output
// is never rewritten.
func (c *CLI) watchLayout(ctx context.Context, input string, opts layoutOpts) error {
	if err := c.runLayout(ctx, input, opts); err != nil {
		return err
	}

	w, err := watch.New(scene.Extensions, input)
	if err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}
	defer w.Close()

	abs, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	runs := 1
	status := func() string {
		return fmt.Sprintf("Watching %s · %d runs (ctrl+c to stop)", input, runs)
	}
	spinner := newSpinner(ctx, os.Stderr, status())
	spinner.Start()
	defer func() { spinner.Stop() }()

	errs := w.Errors
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			if p, err := filepath.Abs(path); err != nil || p != abs {
				continue
			}
			spinner.Stop()
			if err := c.runLayout(ctx, input, opts); err != nil {
				printError("%v", err)
			}
			runs++
			spinner = newSpinner(ctx, os.Stderr, status())
			spinner.Start()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			loggerFromContext(ctx).Debug("watch error", "err", err)
			spinner.SetMessage(status() + " · " + err.Error())
		}
	}
}
