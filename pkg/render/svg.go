package render

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"slices"

	"github.com/matzehuels/icongrid/pkg/grid"
	"github.com/matzehuels/icongrid/pkg/placement"
	"github.com/matzehuels/icongrid/pkg/scene"
)

const svgCSS = `
    .cell { fill: none; stroke: #d0d7de; stroke-width: 1; }
    .cell.occupied { fill: #eaeef2; }
    .cell.escape { stroke: #cf222e; stroke-dasharray: 4 2; }
    .item { fill: #ddf4ff; stroke: #0969da; stroke-width: 1.5; }
    .item.lazy { stroke-dasharray: 3 3; fill-opacity: 0.5; }
    .item.highlight { fill: #fff8c5; stroke: #9a6700; stroke-width: 2.5; }
    .label { font-family: sans-serif; fill: #1f2328; text-anchor: middle; }`

const (
	labelFontSize = 11.0
	labelPadding  = 4.0
)

// SVGOption configures SVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cells     bool
	highlight map[placement.ID]bool
	title     string
}

// WithoutCells omits the cell outlines.
func WithoutCells() SVGOption { return func(r *svgRenderer) { r.cells = false } }

// WithTitle adds a <title> element.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithHighlight emphasizes the given items, typically the ones a drop moved.
func WithHighlight(ids ...placement.ID) SVGOption {
	return func(r *svgRenderer) {
		for _, id := range ids {
			r.highlight[id] = true
		}
	}
}

// SVG renders s on top of g. The viewBox covers the grid's canvas: the grid
// plus its border on both sides.
func SVG(s *scene.Scene, g *grid.Grid, opts ...SVGOption) []byte {
	r := svgRenderer{cells: true, highlight: make(map[placement.ID]bool)}
	for _, opt := range opts {
		opt(&r)
	}

	cell, border := g.CellSize(), g.Border()
	width := float64(g.Columns())*cell.Width + 2*border.X
	height := float64(g.Rows())*cell.Height + 2*border.Y

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgCSS)

	if r.cells {
		renderCells(&buf, g)
	}
	renderItems(&buf, s, &r)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderCells(buf *bytes.Buffer, g *grid.Grid) {
	buf.WriteString("  <g id=\"cells\">\n")
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Columns(); x++ {
			c := grid.Cell{X: x, Y: y}
			class := "cell"
			if !g.IsFree(c) {
				class += " occupied"
			}
			if g.IsEscapeValve(c) {
				class += " escape"
			}
			rect := g.GridToCanvasRect(c)
			fmt.Fprintf(buf, `    <rect class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
				class, rect.X0, rect.Y0, rect.Width(), rect.Height())
		}
	}
	buf.WriteString("  </g>\n")
}

func renderItems(buf *bytes.Buffer, s *scene.Scene, r *svgRenderer) {
	items := make([]scene.Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.Placed() {
			items = append(items, it)
		}
	}
	slices.SortFunc(items, func(a, b scene.Item) int { return cmp.Compare(a.ID, b.ID) })

	buf.WriteString("  <g id=\"items\">\n")
	for _, it := range items {
		class := "item"
		if it.Lazy {
			class += " lazy"
		}
		if r.highlight[placement.ID(it.ID)] {
			class += " highlight"
		}
		p, fp := *it.Position, it.Footprint
		fmt.Fprintf(buf, `    <rect id="item-%s" class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3"/>`+"\n",
			escapeXML(it.ID), class, p.X, p.Y, fp.Width, fp.Height)
		fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f" font-size="%.0f">%s</text>`+"\n",
			p.X+fp.Width/2, p.Y+fp.Height-labelPadding, labelFontSize, escapeXML(truncate(it.DisplayLabel(), fp.Width)))
	}
	buf.WriteString("  </g>\n")
}

// truncate shortens label to roughly fit width at labelFontSize.
func truncate(label string, width float64) string {
	maxChars := max(3, int(width/(labelFontSize*0.55)))
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
