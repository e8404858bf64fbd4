package render

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/icongrid/pkg/grid"
	"github.com/matzehuels/icongrid/pkg/scene"
)

// Glyphs used by Text.
const (
	GlyphFree     = '.'
	GlyphOccupied = '#'
	GlyphMany     = '+'
)

// CellLabels groups the labels of the placed items in s by the cell each
// belongs to. Labels within a cell are sorted.
func CellLabels(g *grid.Grid, s *scene.Scene) map[grid.Cell][]string {
	out := make(map[grid.Cell][]string)
	for _, it := range s.Items {
		if !it.Placed() {
			continue
		}
		c := CellOf(g, it)
		out[c] = append(out[c], it.DisplayLabel())
	}
	for _, labels := range out {
		slices.Sort(labels)
	}
	return out
}

// CellOf returns the cell a placed item is drawn in: its nominal cell on a
// centered grid, the top-left cell it covers on a box grid.
func CellOf(g *grid.Grid, it scene.Item) grid.Cell {
	if g.Variant() == grid.Box {
		return g.CellsCovering(it.Engine().Bounds()).Min()
	}
	return g.CellOf(*it.Position, it.Footprint)
}

// Glyph returns the character Text draws for a cell holding labels.
// A single item shows the first letter of its label, several items their
// count (or GlyphMany beyond nine), and an empty cell shows whether the grid
// has it marked.
func Glyph(labels []string, occupied bool) rune {
	switch n := len(labels); {
	case n == 1:
		if r, _ := utf8.DecodeRuneInString(labels[0]); r != utf8.RuneError {
			return unicode.ToUpper(r)
		}
		return GlyphOccupied
	case n > 9:
		return GlyphMany
	case n > 1:
		return rune('0' + n)
	case occupied:
		return GlyphOccupied
	}
	return GlyphFree
}

// Text draws g as rows of space-separated glyphs, one line per grid row.
func Text(g *grid.Grid, labels map[grid.Cell][]string) string {
	var b strings.Builder
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Columns(); x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			c := grid.Cell{X: x, Y: y}
			b.WriteRune(Glyph(labels[c], !g.IsFree(c)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Legend lists the labels of every cell holding more than one item, in scan
// order, for display below Text.
func Legend(g *grid.Grid, labels map[grid.Cell][]string) []string {
	cells := make([]grid.Cell, 0, len(labels))
	for c, l := range labels {
		if len(l) > 1 {
			cells = append(cells, c)
		}
	}
	slices.SortFunc(cells, func(a, b grid.Cell) int { return g.ScanIndex(a) - g.ScanIndex(b) })

	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String() + " " + strconv.Itoa(len(labels[c])) + ": " + strings.Join(labels[c], ", ")
	}
	return out
}
