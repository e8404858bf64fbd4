package placement

import (
	"cmp"
	"slices"

	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/grid"
)

// PrePopulate marks the cells of every item in items. When ignoreLazy is
// set, items with a provisional (lazy) position are skipped, so later scans
// may hand out cells that coincide with their stale positions.
func PrePopulate(g *grid.Grid, items []Item, ignoreLazy bool) {
	for _, it := range items {
		if ignoreLazy && it.Lazy {
			continue
		}
		markItem(g, it)
	}
}

// LayDown places fresh items around the already positioned ones. The grid is
// pre-populated from placed, then each fresh item, in input order, takes the
// next free cell in scan order. Once the grid is full the remaining items
// share the escape valve.
func LayDown(g *grid.Grid, placed, fresh []Item, ignoreLazy bool) []Placement {
	PrePopulate(g, placed, ignoreLazy)

	out := make([]Placement, 0, len(fresh))
	for _, it := range fresh {
		out = append(out, placeNext(g, it.ID, it.Footprint))
	}
	return out
}

// Align re-snaps every item onto an empty grid. Items keep their relative
// scan order (ties broken by input order) and are packed from the origin.
// The returned placements are in that scan order.
func Align(g *grid.Grid, items []Item) []Placement {
	order := make([]int, len(items))
	slots := make([]int, len(items))
	for i, it := range items {
		order[i] = i
		slots[i] = g.ScanIndex(slotOf(g, it))
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(slots[a], slots[b])
	})

	g.Clear()
	out := make([]Placement, 0, len(items))
	for _, i := range order {
		out = append(out, placeNext(g, items[i].ID, items[i].Footprint))
	}
	return out
}

func placeNext(g *grid.Grid, id ID, footprint geom.Size) Placement {
	var c grid.Cell
	if g.Variant() == grid.Box {
		c = g.NextFreeRect(g.Span(footprint)).Min()
	} else {
		c = g.NextFreePosition()
	}
	p := Placement{ID: id, Anchor: anchorAt(g, c, footprint), Footprint: footprint, Cell: c}
	markItem(g, p.Item())
	return p
}
