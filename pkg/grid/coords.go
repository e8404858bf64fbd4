package grid

import (
	"math"

	"github.com/matzehuels/icongrid/pkg/geom"
)

// CanvasToGrid returns the cell containing p. Points outside the grid are
// clamped to the nearest edge cell.
func (g *Grid) CanvasToGrid(p geom.Point) Cell {
	return Cell{
		X: clampIndex(math.Floor((p.X-g.border.X)/g.cell.Width), 0, g.cols-1),
		Y: clampIndex(math.Floor((p.Y-g.border.Y)/g.cell.Height), 0, g.rows-1),
	}
}

// GridToCanvasRect returns the canvas rectangle covered by c.
func (g *Grid) GridToCanvasRect(c Cell) geom.Rect {
	g.index(c)
	x0 := float64(c.X)*g.cell.Width + g.border.X
	y0 := float64(c.Y)*g.cell.Height + g.border.Y
	return geom.Rect{X0: x0, Y0: y0, X1: x0 + g.cell.Width, Y1: y0 + g.cell.Height}
}

// NominalOf returns the nominal point of c: the top-left corner of its
// canvas rectangle.
func (g *Grid) NominalOf(c Cell) geom.Point {
	return g.GridToCanvasRect(c).Min()
}

// NominalToAnchor converts a cell's nominal point into the top-left anchor of
// an item with the given footprint. The item is centered horizontally in the
// cell; vertically its top sits VerticalAdjust above the cell's center, so
// items whose labels differ in height still share a baseline.
func (g *Grid) NominalToAnchor(nominal geom.Point, footprint geom.Size) geom.Point {
	return geom.Point{
		X: nominal.X + g.cell.Width/2 - footprint.Width/2,
		Y: nominal.Y + g.cell.Height/2 - g.verticalAdjust,
	}
}

// AnchorToNominal is the inverse of NominalToAnchor.
func (g *Grid) AnchorToNominal(anchor geom.Point, footprint geom.Size) geom.Point {
	return geom.Point{
		X: anchor.X - g.cell.Width/2 + footprint.Width/2,
		Y: anchor.Y - g.cell.Height/2 + g.verticalAdjust,
	}
}

// CellOf returns the cell an item anchored at anchor belongs to: the cell
// whose nominal point is nearest to the item's nominal point.
func (g *Grid) CellOf(anchor geom.Point, footprint geom.Size) Cell {
	nominal := g.AnchorToNominal(anchor, footprint)
	return g.CanvasToGrid(geom.Point{
		X: nominal.X + g.cell.Width/2,
		Y: nominal.Y + g.cell.Height/2,
	})
}

// CellsCovering returns the cells touched by a canvas rectangle, clamped to
// the grid. A degenerate rectangle covers the single cell containing its
// corner.
func (g *Grid) CellsCovering(r geom.Rect) CellRect {
	x0 := clampIndex(math.Floor((r.X0-g.border.X)/g.cell.Width), 0, g.cols-1)
	y0 := clampIndex(math.Floor((r.Y0-g.border.Y)/g.cell.Height), 0, g.rows-1)
	x1 := clampIndex(math.Ceil((r.X1-g.border.X)/g.cell.Width)-1, x0, g.cols-1)
	y1 := clampIndex(math.Ceil((r.Y1-g.border.Y)/g.cell.Height)-1, y0, g.rows-1)
	return CellRect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Span returns how many columns and rows an item of the given footprint
// needs, at least one of each and at most the grid's dimensions.
func (g *Grid) Span(footprint geom.Size) (cols, rows int) {
	cols = clampIndex(math.Ceil(footprint.Width/g.cell.Width), 1, g.cols)
	rows = clampIndex(math.Ceil(footprint.Height/g.cell.Height), 1, g.rows)
	return cols, rows
}

// clampIndex converts a whole-valued float to an index in [lo, hi]. The
// float is clamped before conversion so huge or infinite values land on an
// edge. NaN maps to lo.
func clampIndex(v float64, lo, hi int) int {
	switch {
	case math.IsNaN(v) || v <= float64(lo):
		return lo
	case v >= float64(hi):
		return hi
	}
	return int(v)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
