package placement

import (
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/grid"
)

var unit = geom.Size{Width: 10, Height: 10}

func newTestGrid(t *testing.T, cols, rows int, opts ...grid.Option) *grid.Grid {
	t.Helper()
	g, err := grid.NewCentered(geom.Size{Width: float64(cols) * 10, Height: float64(rows) * 10}, unit, opts...)
	if err != nil {
		t.Fatalf("NewCentered: %v", err)
	}
	return g
}

// itemAt returns an item snapped to cell c of g.
func itemAt(g *grid.Grid, id string, c grid.Cell) Item {
	return Item{ID: ID(id), Anchor: g.NominalToAnchor(g.NominalOf(c), unit), Footprint: unit}
}

func drag(ids ...string) []DragItem {
	out := make([]DragItem, len(ids))
	for i, id := range ids {
		out[i] = DragItem{ID: ID(id), Footprint: unit}
	}
	return out
}

func cellsByID(ps []Placement) map[ID]grid.Cell {
	out := make(map[ID]grid.Cell, len(ps))
	for _, p := range ps {
		out[p.ID] = p.Cell
	}
	return out
}

func TestInsertPushesOccupant(t *testing.T) {
	g := newTestGrid(t, 3, 3)
	a := itemAt(g, "A", grid.Cell{X: 0, Y: 0})
	occupants := []Item{a}
	PrePopulate(g, occupants, false)

	res := Insert(g, occupants, geom.Point{X: 5, Y: 5}, drag("new"))

	if res.Degraded {
		t.Fatal("unexpected degraded insertion")
	}
	if len(res.Placed) != 1 || res.Placed[0].Cell != (grid.Cell{X: 0, Y: 0}) {
		t.Fatalf("Placed = %+v, want new at [0,0]", res.Placed)
	}
	if res.Placed[0].Displaced {
		t.Error("dragged item marked as displaced")
	}
	if len(res.Pushed) != 1 || res.Pushed[0].ID != "A" || res.Pushed[0].Cell != (grid.Cell{X: 1, Y: 0}) {
		t.Fatalf("Pushed = %+v, want A at [1,0]", res.Pushed)
	}
	if !res.Pushed[0].Displaced {
		t.Error("pushed item not marked as displaced")
	}
	if want := g.NominalToAnchor(g.NominalOf(grid.Cell{X: 1, Y: 0}), unit); res.Pushed[0].Anchor != want {
		t.Errorf("pushed anchor = %v, want %v", res.Pushed[0].Anchor, want)
	}
	if res.Placed[0].Offset != res.Placed[0].Anchor.Sub(geom.Point{X: 5, Y: 5}) {
		t.Errorf("offset = %v", res.Placed[0].Offset)
	}
	if g.Occupied() != 2 {
		t.Errorf("Occupied() = %d, want 2", g.Occupied())
	}
}

func TestInsertAfterHalf(t *testing.T) {
	tests := []struct {
		name      string
		orient    grid.Orientation
		drop      geom.Point
		wantNew   grid.Cell
		wantPush  bool
		wantACell grid.Cell
	}{
		{
			name:    "horizontal second half goes after",
			orient:  grid.Horizontal,
			drop:    geom.Point{X: 7, Y: 2},
			wantNew: grid.Cell{X: 1, Y: 0},
		},
		{
			name:      "horizontal ignores y",
			orient:    grid.Horizontal,
			drop:      geom.Point{X: 2, Y: 9},
			wantNew:   grid.Cell{X: 0, Y: 0},
			wantPush:  true,
			wantACell: grid.Cell{X: 1, Y: 0},
		},
		{
			name:    "vertical second half goes after",
			orient:  grid.Vertical,
			drop:    geom.Point{X: 2, Y: 7},
			wantNew: grid.Cell{X: 0, Y: 1},
		},
		{
			name:      "vertical first half pushes down",
			orient:    grid.Vertical,
			drop:      geom.Point{X: 9, Y: 3},
			wantNew:   grid.Cell{X: 0, Y: 0},
			wantPush:  true,
			wantACell: grid.Cell{X: 0, Y: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t, 3, 3, grid.WithOrientation(tt.orient))
			occupants := []Item{itemAt(g, "A", grid.Cell{})}
			PrePopulate(g, occupants, false)

			res := Insert(g, occupants, tt.drop, drag("new"))
			if got := res.Placed[0].Cell; got != tt.wantNew {
				t.Errorf("new at %v, want %v", got, tt.wantNew)
			}
			if tt.wantPush {
				if len(res.Pushed) != 1 || res.Pushed[0].Cell != tt.wantACell {
					t.Errorf("Pushed = %+v, want A at %v", res.Pushed, tt.wantACell)
				}
			} else if len(res.Pushed) != 0 {
				t.Errorf("Pushed = %+v, want none", res.Pushed)
			}
		})
	}
}

func TestInsertBeforeOnFreeCell(t *testing.T) {
	g := newTestGrid(t, 3, 3)
	if !InsertBefore(g, geom.Point{X: 9, Y: 9}) {
		t.Error("free cell must always insert before")
	}
	g.Mark(grid.Cell{})
	if InsertBefore(g, geom.Point{X: 9, Y: 9}) {
		t.Error("second half of occupied cell must insert after")
	}
	if !InsertBefore(g, geom.Point{X: 5, Y: 9}) {
		t.Error("midpoint counts as first half")
	}
}

func TestInsertSaturatedGridUsesEscapeValve(t *testing.T) {
	for y := 0.0; y < 20; y += 2.5 {
		for x := 0.0; x < 20; x += 2.5 {
			g := newTestGrid(t, 2, 2)
			occupants := []Item{
				itemAt(g, "A", grid.Cell{X: 0, Y: 0}),
				itemAt(g, "B", grid.Cell{X: 1, Y: 0}),
				itemAt(g, "C", grid.Cell{X: 0, Y: 1}),
				itemAt(g, "D", grid.Cell{X: 1, Y: 1}),
			}
			PrePopulate(g, occupants, false)

			drop := geom.Point{X: x, Y: y}
			res := Insert(g, occupants, drop, drag("new"))

			if !res.Degraded {
				t.Errorf("drop %v: expected degraded insertion", drop)
			}
			if len(res.Pushed) != 0 {
				t.Errorf("drop %v: Pushed = %+v, want none", drop, res.Pushed)
			}
			if got := res.Placed[0].Cell; got != g.EscapeValve() {
				t.Errorf("drop %v: new at %v, want escape valve", drop, got)
			}
			// D still sits on the escape valve alongside the new item.
			if got := g.CellOf(occupants[3].Anchor, unit); got != res.Placed[0].Cell {
				t.Errorf("drop %v: D at %v, new at %v", drop, got, res.Placed[0].Cell)
			}
		}
	}
}

func TestInsertOverflowStacksOnEscapeValve(t *testing.T) {
	g := newTestGrid(t, 3, 1)
	occupants := []Item{itemAt(g, "A", grid.Cell{X: 0, Y: 0})}
	PrePopulate(g, occupants, false)

	res := Insert(g, occupants, geom.Point{X: 1, Y: 1}, drag("x", "y", "z", "w"))

	if !res.Degraded {
		t.Fatal("expected degraded insertion")
	}
	want := []grid.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 0}}
	for i, p := range res.Placed {
		if p.Cell != want[i] {
			t.Errorf("Placed[%d] (%s) at %v, want %v", i, p.ID, p.Cell, want[i])
		}
	}
	if len(res.Pushed) != 1 || res.Pushed[0].ID != "A" || res.Pushed[0].Cell != g.EscapeValve() {
		t.Errorf("Pushed = %+v, want A on the escape valve", res.Pushed)
	}
}

func TestInsertPartialRoomPushesWhatFits(t *testing.T) {
	g := newTestGrid(t, 2, 2)
	occupants := []Item{
		itemAt(g, "A", grid.Cell{X: 0, Y: 0}),
		itemAt(g, "B", grid.Cell{X: 1, Y: 0}),
		itemAt(g, "C", grid.Cell{X: 0, Y: 1}),
	}
	PrePopulate(g, occupants, false)

	res := Insert(g, occupants, geom.Point{X: 5, Y: 5}, drag("x", "y"))

	if !res.Degraded {
		t.Fatal("expected degraded insertion")
	}
	placed := cellsByID(res.Placed)
	if placed["x"] != (grid.Cell{X: 0, Y: 0}) || placed["y"] != (grid.Cell{X: 1, Y: 0}) {
		t.Errorf("Placed = %+v, want x and y at the drop point", res.Placed)
	}
	want := []struct {
		id   ID
		cell grid.Cell
	}{
		{"A", grid.Cell{X: 0, Y: 1}},
		{"B", grid.Cell{X: 1, Y: 1}},
		{"C", grid.Cell{X: 1, Y: 1}},
	}
	if len(res.Pushed) != len(want) {
		t.Fatalf("Pushed = %+v", res.Pushed)
	}
	for i, w := range want {
		if res.Pushed[i].ID != w.id || res.Pushed[i].Cell != w.cell {
			t.Errorf("Pushed[%d] = %s at %v, want %s at %v", i, res.Pushed[i].ID, res.Pushed[i].Cell, w.id, w.cell)
		}
	}
}

func TestInsertIgnoresRequestedOffset(t *testing.T) {
	run := func(offset geom.Point) Insertion {
		g := newTestGrid(t, 3, 3)
		occupants := []Item{itemAt(g, "A", grid.Cell{X: 1, Y: 0})}
		PrePopulate(g, occupants, false)
		payload := drag("x", "y")
		for i := range payload {
			payload[i].Offset = offset
		}
		return Insert(g, occupants, geom.Point{X: 12, Y: 4}, payload)
	}

	plain := run(geom.Point{})
	shifted := run(geom.Point{X: 40, Y: -25})
	for i := range plain.Placed {
		if plain.Placed[i] != shifted.Placed[i] {
			t.Errorf("Placed[%d] = %+v with offset, %+v without", i, shifted.Placed[i], plain.Placed[i])
		}
	}
	if len(plain.Pushed) != len(shifted.Pushed) || plain.Pushed[0] != shifted.Pushed[0] {
		t.Errorf("Pushed = %+v with offset, %+v without", shifted.Pushed, plain.Pushed)
	}
}

func TestInsertChainKeepsOrder(t *testing.T) {
	g := newTestGrid(t, 4, 2)
	occupants := []Item{
		itemAt(g, "A", grid.Cell{X: 0, Y: 0}),
		itemAt(g, "C", grid.Cell{X: 3, Y: 0}),
		itemAt(g, "B", grid.Cell{X: 1, Y: 0}),
	}
	PrePopulate(g, occupants, false)

	res := Insert(g, occupants, geom.Point{X: 15, Y: 5}, drag("X", "Y"))

	if res.Degraded {
		t.Fatal("unexpected degraded insertion")
	}
	placed := cellsByID(res.Placed)
	if placed["X"] != (grid.Cell{X: 1, Y: 0}) || placed["Y"] != (grid.Cell{X: 2, Y: 0}) {
		t.Errorf("Placed = %+v", res.Placed)
	}
	if len(res.Pushed) != 2 || res.Pushed[0].ID != "B" || res.Pushed[1].ID != "C" {
		t.Fatalf("Pushed order = %+v, want B then C", res.Pushed)
	}
	if res.Pushed[0].Cell != (grid.Cell{X: 3, Y: 0}) || res.Pushed[1].Cell != (grid.Cell{X: 0, Y: 1}) {
		t.Errorf("Pushed cells = %v, %v", res.Pushed[0].Cell, res.Pushed[1].Cell)
	}
	if res.Placed[0].ID != "X" || res.Placed[1].ID != "Y" {
		t.Error("dragged items must keep payload order")
	}
}

func TestInsertEmptyPayload(t *testing.T) {
	g := newTestGrid(t, 2, 2)
	res := Insert(g, nil, geom.Point{}, nil)
	if len(res.Placed) != 0 || len(res.Pushed) != 0 || res.Degraded {
		t.Errorf("Insert(nil) = %+v", res)
	}
	if g.Occupied() != 0 {
		t.Error("empty insert must not touch the grid")
	}
}

// TestInsertNeverStacksOutsideEscapeValve drops random payloads onto random
// arrangements and checks that only the escape valve ever holds more than one
// item, and that a clean insertion consumes exactly one cell per item.
func TestInsertNeverStacksOutsideEscapeValve(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 42))

	for round := 0; round < 300; round++ {
		cols, rows := 1+rng.IntN(6), 1+rng.IntN(5)
		orient := grid.Orientation(rng.IntN(2))
		g := newTestGrid(t, cols, rows, grid.WithOrientation(orient))

		var occupants []Item
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				if rng.Float64() < 0.5 {
					occupants = append(occupants, itemAt(g, "o"+grid.Cell{X: x, Y: y}.String(), grid.Cell{X: x, Y: y}))
				}
			}
		}
		PrePopulate(g, occupants, false)

		n := 1 + rng.IntN(4)
		payload := make([]DragItem, n)
		for i := range payload {
			payload[i] = DragItem{ID: ID(string(rune('a' + i))), Footprint: unit}
		}
		drop := geom.Point{X: rng.Float64() * float64(cols) * 10, Y: rng.Float64() * float64(rows) * 10}

		start := insertionPoint(g, drop)
		room := countFree(g, start, 1)

		res := Insert(g, occupants, drop, payload)

		if len(res.Placed) != n {
			t.Fatalf("round %d: placed %d of %d", round, len(res.Placed), n)
		}

		pushed := make(map[ID]bool)
		for _, p := range res.Pushed {
			pushed[p.ID] = true
		}
		counts := make(map[grid.Cell]int)
		for _, it := range occupants {
			if !pushed[it.ID] {
				counts[g.CellOf(it.Anchor, it.Footprint)]++
			}
		}
		consumed := make(map[grid.Cell]bool)
		for _, p := range append(append([]Placement{}, res.Placed...), res.Pushed...) {
			counts[p.Cell]++
			consumed[p.Cell] = true
		}

		for c, k := range counts {
			if k > 1 && !g.IsEscapeValve(c) {
				t.Fatalf("round %d (%dx%d %v, drop %v, n=%d): %d items share %v",
					round, cols, rows, orient, drop, n, k, c)
			}
		}
		if !res.Degraded && len(consumed) != len(res.Placed)+len(res.Pushed) {
			t.Fatalf("round %d: %d outputs in %d cells", round, len(res.Placed)+len(res.Pushed), len(consumed))
		}
		if room > 0 && res.Placed[0].Cell != start {
			t.Fatalf("round %d: first dragged item at %v, want insertion point %v", round, res.Placed[0].Cell, start)
		}
	}
}

func TestInsertIsDeterministic(t *testing.T) {
	run := func() Insertion {
		g := newTestGrid(t, 5, 4, grid.WithOrientation(grid.Vertical))
		occupants := []Item{
			itemAt(g, "a", grid.Cell{X: 1, Y: 1}),
			itemAt(g, "b", grid.Cell{X: 1, Y: 2}),
			itemAt(g, "c", grid.Cell{X: 2, Y: 0}),
		}
		PrePopulate(g, occupants, false)
		return Insert(g, occupants, geom.Point{X: 12, Y: 11}, drag("x", "y", "z"))
	}

	first := run()
	for i := 0; i < 5; i++ {
		again := run()
		if len(again.Placed) != len(first.Placed) || len(again.Pushed) != len(first.Pushed) {
			t.Fatal("result size changed between runs")
		}
		for j := range first.Placed {
			if again.Placed[j] != first.Placed[j] {
				t.Fatalf("Placed[%d] differs: %+v vs %+v", j, again.Placed[j], first.Placed[j])
			}
		}
		for j := range first.Pushed {
			if again.Pushed[j] != first.Pushed[j] {
				t.Fatalf("Pushed[%d] differs", j)
			}
		}
	}
}

func TestInsertBoxGrid(t *testing.T) {
	g, err := grid.NewBox(geom.Size{Width: 40, Height: 20}, unit)
	if err != nil {
		t.Fatal(err)
	}
	wide := Item{ID: "wide", Anchor: geom.Point{X: 0, Y: 0}, Footprint: geom.Size{Width: 20, Height: 10}}
	occupants := []Item{wide}
	PrePopulate(g, occupants, false)
	if g.Occupied() != 2 {
		t.Fatalf("Occupied() = %d, want 2", g.Occupied())
	}

	res := Insert(g, occupants, geom.Point{X: 2, Y: 2}, drag("new"))

	if res.Placed[0].Cell != (grid.Cell{}) || res.Placed[0].Anchor != (geom.Point{}) {
		t.Errorf("new = %+v, want top-left of [0,0]", res.Placed[0])
	}
	if len(res.Pushed) != 1 || res.Pushed[0].Cell != (grid.Cell{X: 1, Y: 0}) {
		t.Fatalf("Pushed = %+v", res.Pushed)
	}
	if res.Pushed[0].Anchor != (geom.Point{X: 10, Y: 0}) {
		t.Errorf("pushed anchor = %v", res.Pushed[0].Anchor)
	}
}

func newBoxGrid(t *testing.T, cols, rows int) *grid.Grid {
	t.Helper()
	g, err := grid.NewBox(geom.Size{Width: float64(cols) * 10, Height: float64(rows) * 10}, unit)
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	return g
}

// assertExclusiveCells checks that outside the escape valve no cell is held
// by more than one item once res has been applied to occupants.
func assertExclusiveCells(t *testing.T, g *grid.Grid, occupants []Item, res Insertion) {
	t.Helper()
	moved := make(map[ID]bool)
	var all []Item
	for _, p := range append(append([]Placement{}, res.Placed...), res.Pushed...) {
		moved[p.ID] = true
		all = append(all, p.Item())
	}
	for _, it := range occupants {
		if !moved[it.ID] {
			all = append(all, it)
		}
	}

	owner := make(map[grid.Cell]ID)
	for _, it := range all {
		r := cellsOf(g, it)
		for y := r.Y0; y <= r.Y1; y++ {
			for x := r.X0; x <= r.X1; x++ {
				c := grid.Cell{X: x, Y: y}
				if g.IsEscapeValve(c) {
					continue
				}
				if prev, ok := owner[c]; ok {
					t.Errorf("%s and %s share %v", prev, it.ID, c)
				}
				owner[c] = it.ID
			}
		}
	}
}

func TestInsertBoxPushesWholeFootprint(t *testing.T) {
	tall := geom.Size{Width: 10, Height: 20}
	wide := geom.Size{Width: 20, Height: 10}

	tests := []struct {
		name       string
		occupants  []Item
		drop       geom.Point
		dragged    []DragItem
		wantPlaced grid.Cell
		wantPushed map[ID]grid.Cell
	}{
		{
			name:       "tall item clears the cell below",
			occupants:  []Item{{ID: "a", Anchor: geom.Point{X: 0, Y: 10}, Footprint: unit}},
			drop:       geom.Point{X: 5, Y: 5},
			dragged:    []DragItem{{ID: "tall", Footprint: tall}},
			wantPlaced: grid.Cell{X: 0, Y: 0},
			wantPushed: map[ID]grid.Cell{"a": {X: 1, Y: 0}},
		},
		{
			name: "wide occupant skips a held cell",
			occupants: []Item{
				{ID: "wide", Anchor: geom.Point{X: 0, Y: 0}, Footprint: wide},
				{ID: "b", Anchor: geom.Point{X: 20, Y: 0}, Footprint: unit},
			},
			drop:       geom.Point{X: 2, Y: 5},
			dragged:    []DragItem{{ID: "x", Footprint: unit}},
			wantPlaced: grid.Cell{X: 0, Y: 0},
			wantPushed: map[ID]grid.Cell{"wide": {X: 0, Y: 1}},
		},
		{
			name:       "wide dragged item pushes both occupants",
			occupants:  []Item{{ID: "p", Anchor: geom.Point{X: 0, Y: 0}, Footprint: unit}, {ID: "q", Anchor: geom.Point{X: 10, Y: 0}, Footprint: unit}},
			drop:       geom.Point{X: 1, Y: 1},
			dragged:    []DragItem{{ID: "w", Footprint: wide}},
			wantPlaced: grid.Cell{X: 0, Y: 0},
			wantPushed: map[ID]grid.Cell{"p": {X: 2, Y: 0}, "q": {X: 0, Y: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newBoxGrid(t, 3, 3)
			PrePopulate(g, tt.occupants, false)

			res := Insert(g, tt.occupants, tt.drop, tt.dragged)

			if res.Degraded {
				t.Error("unexpected degraded insertion")
			}
			if got := res.Placed[0].Cell; got != tt.wantPlaced {
				t.Errorf("placed at %v, want %v", got, tt.wantPlaced)
			}
			if got := cellsByID(res.Pushed); len(got) != len(tt.wantPushed) {
				t.Errorf("Pushed = %+v, want %v", res.Pushed, tt.wantPushed)
			} else {
				for id, c := range tt.wantPushed {
					if got[id] != c {
						t.Errorf("%s pushed to %v, want %v", id, got[id], c)
					}
				}
			}
			assertExclusiveCells(t, g, tt.occupants, res)
		})
	}
}

func TestInsertBoxNeverSharesCells(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 11))
	span := func() float64 { return float64(1+rng.IntN(2)) * 10 }

	for round := 0; round < 300; round++ {
		cols, rows := 2+rng.IntN(5), 2+rng.IntN(4)
		g := newBoxGrid(t, cols, rows)

		var occupants []Item
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				if rng.Float64() > 0.4 {
					continue
				}
				it := Item{
					ID:        ID("o" + grid.Cell{X: x, Y: y}.String()),
					Anchor:    g.NominalOf(grid.Cell{X: x, Y: y}),
					Footprint: geom.Size{Width: span(), Height: span()},
				}
				r := cellsOf(g, it)
				if r.Len() != int(it.Footprint.Width/10)*int(it.Footprint.Height/10) || !g.IsFreeRect(r) {
					continue
				}
				g.MarkRect(r)
				occupants = append(occupants, it)
			}
		}
		g.Clear()
		PrePopulate(g, occupants, false)

		n := 1 + rng.IntN(3)
		payload := make([]DragItem, n)
		for i := range payload {
			payload[i] = DragItem{ID: ID(string(rune('a' + i))), Footprint: geom.Size{Width: span(), Height: span()}}
		}
		drop := geom.Point{X: rng.Float64() * float64(cols) * 10, Y: rng.Float64() * float64(rows) * 10}

		res := Insert(g, occupants, drop, payload)

		if len(res.Placed) != n {
			t.Fatalf("round %d: placed %d of %d", round, len(res.Placed), n)
		}
		assertExclusiveCells(t, g, occupants, res)
		if t.Failed() {
			t.Fatalf("round %d (%dx%d, drop %v, payload %+v)", round, cols, rows, drop, payload)
		}
	}
}
