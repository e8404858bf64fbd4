package placement

import (
	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/grid"
)

// ID identifies an item. The engine never interprets it.
type ID string

// Item is a positioned visual item.
type Item struct {
	ID        ID
	Anchor    geom.Point // top-left corner in canvas space
	Footprint geom.Size  // icon plus label bounds
	Lazy      bool       // position is provisional; see PrePopulate
}

// Bounds returns the canvas rectangle occupied by the item.
func (it Item) Bounds() geom.Rect { return geom.RectAt(it.Anchor, it.Footprint) }

// Placement is the outcome of placing one item.
type Placement struct {
	ID        ID
	Anchor    geom.Point
	Offset    geom.Point // Anchor relative to the drop point; zero outside Insert
	Footprint geom.Size
	Cell      grid.Cell
	Displaced bool // pushed aside by an insertion rather than requested
}

// Item returns the placement as a positioned, non-lazy item.
func (p Placement) Item() Item {
	return Item{ID: p.ID, Anchor: p.Anchor, Footprint: p.Footprint}
}

// DragItem is one entry of a drag payload.
type DragItem struct {
	ID        ID
	Footprint geom.Size

	// Offset is the offset from the drop point requested by the drag
	// source. Insert accepts it but assigns cells in payload order, so it
	// never influences the result.
	Offset geom.Point
}

// cellsOf returns the cells an item holds: its nominal cell on a centered
// grid, the cells its bounds cover on a box grid.
func cellsOf(g *grid.Grid, it Item) grid.CellRect {
	if g.Variant() == grid.Box {
		return g.CellsCovering(it.Bounds())
	}
	return grid.SingleCell(g.CellOf(it.Anchor, it.Footprint))
}

// slotOf returns the cell used to order an item in scan order.
func slotOf(g *grid.Grid, it Item) grid.Cell {
	return cellsOf(g, it).Min()
}

// anchorAt returns where an item of the given footprint goes when assigned
// to cell c. Box grids align items to the top-left of their cells.
func anchorAt(g *grid.Grid, c grid.Cell, footprint geom.Size) geom.Point {
	nominal := g.NominalOf(c)
	if g.Variant() == grid.Box {
		return nominal
	}
	return g.NominalToAnchor(nominal, footprint)
}

func markItem(g *grid.Grid, it Item) { g.MarkRect(cellsOf(g, it)) }
