package grid

import "github.com/matzehuels/icongrid/pkg/geom"

// EscapeValve returns the bottom-right cell, which the scanner always
// reports free.
func (g *Grid) EscapeValve() Cell { return Cell{X: g.cols - 1, Y: g.rows - 1} }

// IsEscapeValve reports whether c is the escape valve.
func (g *Grid) IsEscapeValve(c Cell) bool { return c == g.EscapeValve() }

// CurrentPositionRect maps p to its cell and returns the cell's canvas
// rectangle together with its occupancy. The escape valve is always free.
func (g *Grid) CurrentPositionRect(p geom.Point) (geom.Rect, bool) {
	c := g.CanvasToGrid(p)
	return g.GridToCanvasRect(c), g.IsEscapeValve(c) || g.IsFree(c)
}

// NextGridPosition returns the cell after c in scan order. It wraps at row
// (or column) boundaries and from the last cell back to the origin.
func (g *Grid) NextGridPosition(c Cell) Cell {
	g.index(c)
	if g.orientation == Vertical {
		c.Y++
		if c.Y >= g.rows {
			c.Y = 0
			c.X++
			if c.X >= g.cols {
				c.X = 0
			}
		}
		return c
	}
	c.X++
	if c.X >= g.cols {
		c.X = 0
		c.Y++
		if c.Y >= g.rows {
			c.Y = 0
		}
	}
	return c
}

// ScanIndex returns the position of c in scan order, from 0 to Len()-1.
func (g *Grid) ScanIndex(c Cell) int {
	g.index(c)
	if g.orientation == Vertical {
		return c.X*g.rows + c.Y
	}
	return c.Y*g.cols + c.X
}

// NextFreePosition returns the first free cell at or after the scan cursor,
// or the escape valve if none is left. The cursor stays on the returned cell,
// so callers mark it before asking again.
func (g *Grid) NextFreePosition() Cell {
	c := g.cursor
	for !g.IsFree(c) && !g.IsEscapeValve(c) {
		c = g.NextGridPosition(c)
	}
	g.cursor = c
	return c
}

// Reset moves the scan cursor back to the origin.
func (g *Grid) Reset() { g.cursor = Cell{} }

// Clear frees every cell and resets the scan cursor.
func (g *Grid) Clear() {
	clear(g.occupied)
	g.Reset()
}

// NextFreeRect returns the first cell rectangle of cols×rows cells, in scan
// order from the origin, that lies inside the grid and is entirely free. If
// none exists it returns the escape valve, which callers accept as overlap.
func (g *Grid) NextFreeRect(cols, rows int) CellRect {
	cols = clamp(cols, 1, g.cols)
	rows = clamp(rows, 1, g.rows)

	c := Cell{}
	for !g.IsEscapeValve(c) {
		r := CellRect{X0: c.X, Y0: c.Y, X1: c.X + cols - 1, Y1: c.Y + rows - 1}
		if r.X1 < g.cols && r.Y1 < g.rows && g.IsFreeRect(r) {
			return r
		}
		c = g.NextGridPosition(c)
	}
	return SingleCell(g.EscapeValve())
}
