package placement_test

import (
	"fmt"

	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/grid"
	"github.com/matzehuels/icongrid/pkg/placement"
)

func ExampleInsert() {
	cell := geom.Size{Width: 10, Height: 10}
	g, _ := grid.NewCentered(geom.Size{Width: 30, Height: 30}, cell)

	// One icon sits in the top-left cell.
	a := placement.Item{ID: "A", Anchor: g.NominalToAnchor(g.NominalOf(grid.Cell{}), cell), Footprint: cell}
	placement.PrePopulate(g, []placement.Item{a}, false)

	// Dropping into the left half of that cell pushes it aside.
	res := placement.Insert(g, []placement.Item{a}, geom.Point{X: 5, Y: 5},
		[]placement.DragItem{{ID: "new", Footprint: cell}})

	for _, p := range res.Placed {
		fmt.Println(p.ID, p.Cell)
	}
	for _, p := range res.Pushed {
		fmt.Println(p.ID, p.Cell, "(pushed)")
	}
	// Output:
	// new [0,0]
	// A [1,0] (pushed)
}

func ExampleLayDown() {
	cell := geom.Size{Width: 10, Height: 10}
	g, _ := grid.NewCentered(geom.Size{Width: 20, Height: 10}, cell)

	items := []placement.Item{
		{ID: "a", Footprint: cell},
		{ID: "b", Footprint: cell},
		{ID: "c", Footprint: cell},
	}
	for _, p := range placement.LayDown(g, nil, items, false) {
		fmt.Println(p.ID, p.Cell)
	}
	// Output:
	// a [0,0]
	// b [1,0]
	// c [1,0]
}
