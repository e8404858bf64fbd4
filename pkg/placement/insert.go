package placement

import (
	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/grid"
)

// Insertion is the result of dropping a group of items onto a grid.
type Insertion struct {
	// Placed holds the dragged items, in payload order.
	Placed []Placement
	// Pushed holds the items displaced to make room, in scan order.
	Pushed []Placement
	// Degraded is set when the grid ran out of room and the overflow was
	// stacked on the escape valve.
	Degraded bool
}

// Insert places dragged at drop, pushing occupants along the scan order to
// make room.
//
// g must already be populated with occupants (see PrePopulate); occupants is
// used to find out who holds an occupied cell. Items being dragged must not be
// part of occupants.
//
// The insertion point is the cell under drop, or the cell after it when drop
// lies in the second half of an occupied cell along the scan axis. From there
// every occupied cell up to the N-th free one is emptied; the dragged items
// take the first N cells of that run and the displaced occupants the rest, so
// no two items share a cell.
//
// If fewer than N free cells remain before the end of the grid, the run is
// emptied only up to the last free cell. The dragged items still start at
// the insertion point and whatever does not fit stacks on the escape valve.
// On a full grid nothing is pushed.
//
// On a box grid every item claims a rectangle of cells sized by its
// footprint. Dragged items empty the whole rectangle they land on; displaced
// items move to the next rectangle that is entirely free.
//
// The Offset of each DragItem is not read: cells are assigned in payload
// order and Placement.Offset reports the resulting offset.
func Insert(g *grid.Grid, occupants []Item, drop geom.Point, dragged []DragItem) Insertion {
	if len(dragged) == 0 {
		return Insertion{}
	}

	start := insertionPoint(g, drop)
	idx := newOccupantIndex(g, occupants)
	if g.Variant() == grid.Box {
		return insertRects(g, idx, start, drop, dragged)
	}
	return insertCells(g, idx, start, drop, dragged)
}

func insertCells(g *grid.Grid, idx *occupantIndex, start grid.Cell, drop geom.Point, dragged []DragItem) Insertion {
	n := len(dragged)
	free := countFree(g, start, n)
	res := Insertion{Placed: make([]Placement, 0, n), Degraded: free < n}

	displaced := clearRun(g, idx, start, free)

	cur := start
	for _, d := range dragged {
		cur = nextFree(g, cur)
		res.Placed = append(res.Placed, place(g, grid.SingleCell(cur), d.ID, d.Footprint, drop, false))
		cur = advance(g, cur)
	}
	for _, it := range displaced {
		cur = nextFree(g, cur)
		res.Pushed = append(res.Pushed, place(g, grid.SingleCell(cur), it.ID, it.Footprint, drop, true))
		cur = advance(g, cur)
	}
	return res
}

func insertRects(g *grid.Grid, idx *occupantIndex, start grid.Cell, drop geom.Point, dragged []DragItem) Insertion {
	res := Insertion{Placed: make([]Placement, 0, len(dragged))}
	claimed := make(map[grid.Cell]bool)
	unclaimed := func(r grid.CellRect) bool {
		for y := r.Y0; y <= r.Y1; y++ {
			for x := r.X0; x <= r.X1; x++ {
				if claimed[grid.Cell{X: x, Y: y}] {
					return false
				}
			}
		}
		return true
	}

	var displaced []Item
	cur := start
	for _, d := range dragged {
		cols, rows := g.Span(d.Footprint)
		r, ok := rectFrom(g, cur, cols, rows, unclaimed)
		if ok {
			displaced = append(displaced, vacate(g, idx, r)...)
		} else {
			r = grid.SingleCell(g.EscapeValve())
			res.Degraded = true
		}
		for y := r.Y0; y <= r.Y1; y++ {
			for x := r.X0; x <= r.X1; x++ {
				claimed[grid.Cell{X: x, Y: y}] = true
			}
		}
		res.Placed = append(res.Placed, place(g, r, d.ID, d.Footprint, drop, false))
		cur = advance(g, r.Min())
	}
	for _, it := range displaced {
		cols, rows := g.Span(it.Footprint)
		r, ok := rectFrom(g, cur, cols, rows, g.IsFreeRect)
		if !ok {
			r = grid.SingleCell(g.EscapeValve())
			res.Degraded = true
		}
		res.Pushed = append(res.Pushed, place(g, r, it.ID, it.Footprint, drop, true))
		cur = advance(g, r.Min())
	}
	return res
}

// InsertBefore reports whether a drop at p goes before the cell under it.
// On a free cell it always does; on an occupied cell it does when p lies in
// the first half of the cell along the scan axis.
func InsertBefore(g *grid.Grid, p geom.Point) bool {
	r, free := g.CurrentPositionRect(p)
	if free {
		return true
	}
	if g.Orientation() == grid.Vertical {
		return p.Y <= r.Y0+r.Height()/2
	}
	return p.X <= r.X0+r.Width()/2
}

func insertionPoint(g *grid.Grid, drop geom.Point) grid.Cell {
	c := g.CanvasToGrid(drop)
	if InsertBefore(g, drop) {
		return c
	}
	return g.NextGridPosition(c)
}

// countFree counts free cells from start through the escape valve, stopping
// once want have been seen. The escape valve counts only if actually free.
func countFree(g *grid.Grid, start grid.Cell, want int) int {
	n := 0
	for c := start; ; c = g.NextGridPosition(c) {
		if g.IsFree(c) {
			n++
		}
		if n >= want || g.IsEscapeValve(c) {
			return n
		}
	}
}

// clearRun walks from start until n free cells have been seen, unmarking
// every occupied cell on the way and returning its occupants in the order
// they were met. With n == 0 nothing is touched.
func clearRun(g *grid.Grid, idx *occupantIndex, start grid.Cell, n int) []Item {
	if n <= 0 {
		return nil
	}
	var displaced []Item
	for c := start; ; c = g.NextGridPosition(c) {
		if g.IsFree(c) {
			n--
		} else {
			displaced = append(displaced, idx.evict(g, c)...)
			// Occupied without a known occupant: free it so the run stays contiguous.
			g.Unmark(c)
		}
		if n <= 0 || g.IsEscapeValve(c) {
			return displaced
		}
	}
}

// vacate evicts every occupant of r and frees its cells.
func vacate(g *grid.Grid, idx *occupantIndex, r grid.CellRect) []Item {
	var displaced []Item
	for y := r.Y0; y <= r.Y1; y++ {
		for x := r.X0; x <= r.X1; x++ {
			displaced = append(displaced, idx.evict(g, grid.Cell{X: x, Y: y})...)
		}
	}
	g.UnmarkRect(r)
	return displaced
}

// rectFrom scans from c through the escape valve for the first cols×rows
// rectangle that lies inside the grid and satisfies ok.
func rectFrom(g *grid.Grid, c grid.Cell, cols, rows int, ok func(grid.CellRect) bool) (grid.CellRect, bool) {
	for {
		r := grid.CellRect{X0: c.X, Y0: c.Y, X1: c.X + cols - 1, Y1: c.Y + rows - 1}
		if g.Valid(grid.Cell{X: r.X1, Y: r.Y1}) && ok(r) {
			return r, true
		}
		if g.IsEscapeValve(c) {
			return grid.CellRect{}, false
		}
		c = g.NextGridPosition(c)
	}
}

// nextFree returns c or the first cell after it that is free, stopping at the
// escape valve.
func nextFree(g *grid.Grid, c grid.Cell) grid.Cell {
	for !g.IsFree(c) && !g.IsEscapeValve(c) {
		c = g.NextGridPosition(c)
	}
	return c
}

// advance steps one cell forward without wrapping past the escape valve.
func advance(g *grid.Grid, c grid.Cell) grid.Cell {
	if g.IsEscapeValve(c) {
		return c
	}
	return g.NextGridPosition(c)
}

func place(g *grid.Grid, r grid.CellRect, id ID, footprint geom.Size, drop geom.Point, displaced bool) Placement {
	anchor := anchorAt(g, r.Min(), footprint)
	g.MarkRect(r)
	return Placement{
		ID:        id,
		Anchor:    anchor,
		Offset:    anchor.Sub(drop),
		Footprint: footprint,
		Cell:      r.Min(),
		Displaced: displaced,
	}
}

// occupantIndex maps cells to the items holding them.
type occupantIndex struct {
	byCell map[grid.Cell][]int
	items  []Item
	cells  []grid.CellRect
	taken  []bool
}

func newOccupantIndex(g *grid.Grid, items []Item) *occupantIndex {
	idx := &occupantIndex{
		byCell: make(map[grid.Cell][]int),
		items:  items,
		cells:  make([]grid.CellRect, len(items)),
		taken:  make([]bool, len(items)),
	}
	for i, it := range items {
		r := cellsOf(g, it)
		idx.cells[i] = r
		for y := r.Y0; y <= r.Y1; y++ {
			for x := r.X0; x <= r.X1; x++ {
				c := grid.Cell{X: x, Y: y}
				idx.byCell[c] = append(idx.byCell[c], i)
			}
		}
	}
	return idx
}

// evict takes the not yet displaced items holding c, in input order, and
// unmarks their cells. A cell stays marked while a remaining item still
// holds it.
func (idx *occupantIndex) evict(g *grid.Grid, c grid.Cell) []Item {
	var took []int
	for _, i := range idx.byCell[c] {
		if !idx.taken[i] {
			idx.taken[i] = true
			took = append(took, i)
		}
	}

	out := make([]Item, 0, len(took))
	for _, i := range took {
		r := idx.cells[i]
		for y := r.Y0; y <= r.Y1; y++ {
			for x := r.X0; x <= r.X1; x++ {
				if cc := (grid.Cell{X: x, Y: y}); !idx.held(cc) {
					g.Unmark(cc)
				}
			}
		}
		out = append(out, idx.items[i])
	}
	return out
}

// held reports whether an item not yet displaced still holds c.
func (idx *occupantIndex) held(c grid.Cell) bool {
	for _, i := range idx.byCell[c] {
		if !idx.taken[i] {
			return true
		}
	}
	return false
}
