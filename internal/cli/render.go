package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/icongrid/pkg/grid"
	"github.com/matzehuels/icongrid/pkg/placement"
	"github.com/matzehuels/icongrid/pkg/render"
	"github.com/matzehuels/icongrid/pkg/scene"
)

type renderOpts struct {
	output    string
	noCells   bool
	text      bool
	highlight string
}

// renderCommand creates the render command for drawing a scene.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Draw a scene on its grid as SVG or text",
		Long: `Draw a scene on its grid as SVG or text.

The SVG shows every grid cell, shading the occupied ones and outlining the
escape valve, with each placed item drawn at its anchor. Items whose position
is provisional are drawn dashed.

With --text the grid is printed as rows of glyphs instead: '.' for a free
cell, the first letter of the label for a single item, and the item count
for cells holding several.`,
		Example: `  icongrid render desk.yaml -o desk.svg
  icongrid render desk.yaml --text`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.noCells, "no-cells", false, "omit the grid cells from the SVG")
	cmd.Flags().BoolVar(&opts.text, "text", false, "print a text grid instead of SVG")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "comma-separated ids to highlight in the SVG")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	s, err := scene.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	g, err := c.sceneGrid(s)
	if skipPass(err) {
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("built grid", "columns", g.Columns(), "rows", g.Rows(), "occupied", g.Occupied())

	var data []byte
	if opts.text {
		data = []byte(textGrid(g, s))
	} else {
		svgOpts := []render.SVGOption{render.WithTitle(strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)))}
		if opts.noCells {
			svgOpts = append(svgOpts, render.WithoutCells())
		}
		if opts.highlight != "" {
			ids, err := parseIDs(opts.highlight)
			if err != nil {
				return err
			}
			hl := make([]placement.ID, len(ids))
			for i, id := range ids {
				hl[i] = placement.ID(id)
			}
			svgOpts = append(svgOpts, render.WithHighlight(hl...))
		}
		data = render.SVG(s, g, svgOpts...)
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Rendered %d items", len(s.Items))
		printFile(opts.output)
	}
	return nil
}

// sceneGrid builds the grid for s with its placed items marked.
func (c *CLI) sceneGrid(s *scene.Scene) (*grid.Grid, error) {
	opts, err := c.settings().Options(s.Canvas)
	if err != nil {
		return nil, err
	}
	return populatedGrid(opts, s)
}

// populatedGrid builds an empty grid for opts and marks the placed items of s.
func populatedGrid(opts placement.Options, s *scene.Scene) (*grid.Grid, error) {
	g, err := opts.NewGrid()
	if err != nil {
		return nil, err
	}
	placed, _ := s.Split()
	placement.PrePopulate(g, placed, opts.IgnoreLazy)
	return g, nil
}

// textGrid draws g as glyph rows followed by a legend of shared cells.
func textGrid(g *grid.Grid, s *scene.Scene) string {
	labels := render.CellLabels(g, s)
	var b strings.Builder
	b.WriteString(render.Text(g, labels))
	for _, line := range render.Legend(g, labels) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}
