package render

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/matzehuels/icongrid/pkg/geom"
	"github.com/matzehuels/icongrid/pkg/grid"
	"github.com/matzehuels/icongrid/pkg/placement"
	"github.com/matzehuels/icongrid/pkg/scene"
)

var unit = geom.Size{Width: 10, Height: 10}

// testScene lays out a 3x2 grid with a and b in the first two cells and
// c and d sharing the escape valve.
func testScene(t *testing.T) (*scene.Scene, *grid.Grid) {
	t.Helper()
	g, err := grid.NewCentered(geom.Size{Width: 30, Height: 20}, unit)
	if err != nil {
		t.Fatal(err)
	}
	s := &scene.Scene{Canvas: geom.Size{Width: 30, Height: 20}}
	for _, id := range []string{"alpha", "beta", "c", "d"} {
		s.Items = append(s.Items, scene.Item{ID: id, Footprint: unit})
	}
	s.Items[1].Label = "<b&>"

	// Lay down alpha and beta, then stack c and d on the escape valve.
	_, fresh := s.Split()
	var ps []placement.Placement
	ps = append(ps, placement.LayDown(g, nil, fresh[:2], false)...)
	esc := g.NominalToAnchor(g.NominalOf(g.EscapeValve()), unit)
	ps = append(ps,
		placement.Placement{ID: "c", Anchor: esc, Footprint: unit},
		placement.Placement{ID: "d", Anchor: esc, Footprint: unit},
	)
	s.Apply(ps)

	placed, _ := s.Split()
	g.Clear()
	placement.PrePopulate(g, placed, false)
	return s, g
}

func TestText(t *testing.T) {
	s, g := testScene(t)

	got := Text(g, CellLabels(g, s))

	want := "A < .\n. . 2\n"
	if got != want {
		t.Errorf("Text() =\n%s\nwant\n%s", got, want)
	}
}

func TestLegend(t *testing.T) {
	s, g := testScene(t)

	got := Legend(g, CellLabels(g, s))

	if len(got) != 1 || got[0] != "[2,1] 2: c, d" {
		t.Errorf("Legend() = %q", got)
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		occupied bool
		want     rune
	}{
		{"free", nil, false, GlyphFree},
		{"marked without item", nil, true, GlyphOccupied},
		{"single", []string{"éclair"}, true, 'É'},
		{"two", []string{"a", "b"}, true, '2'},
		{"many", make([]string, 12), true, GlyphMany},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Glyph(tt.labels, tt.occupied); got != tt.want {
				t.Errorf("Glyph() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSVG(t *testing.T) {
	s, g := testScene(t)

	svg := string(SVG(s, g, WithHighlight("alpha"), WithTitle("desk & co")))

	if err := xml.Unmarshal([]byte(svg), new(struct{})); err != nil {
		t.Fatalf("SVG is not well-formed XML: %v\n%s", err, svg)
	}
	checks := []string{
		`viewBox="0 0 30.0 20.0"`,
		`<title>desk &amp; co</title>`,
		`class="cell occupied escape"`,
		`id="item-alpha" class="item highlight"`,
		`>&lt;..</text>`,
	}
	for _, want := range checks {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if n := strings.Count(svg, `<rect class="cell`); n != 6 {
		t.Errorf("got %d cells, want 6", n)
	}
	if n := strings.Count(svg, `class="item`); n != 4 {
		t.Errorf("got %d items, want 4", n)
	}
}

func TestSVGWithoutCells(t *testing.T) {
	s, g := testScene(t)
	svg := string(SVG(s, g, WithoutCells()))
	if strings.Contains(svg, `class="cell`) {
		t.Error("cells drawn despite WithoutCells")
	}
}

func TestSVGDeterministic(t *testing.T) {
	s, g := testScene(t)
	first := SVG(s, g)
	for i := 0; i < 5; i++ {
		if string(SVG(s, g)) != string(first) {
			t.Fatal("SVG output changed between runs")
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 100); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	got := truncate("a-very-long-file-name.txt", 30)
	if !strings.HasSuffix(got, "..") || len([]rune(got)) > 5 {
		t.Errorf("truncate(long) = %q", got)
	}
}
