// Package render draws a scene and its grid.
//
// [SVG] produces a standalone SVG document with cell outlines, occupied
// cells, the escape valve and every placed item:
//
//	svg := render.SVG(s, g, render.WithHighlight("readme"))
//	os.WriteFile("desk.svg", svg, 0644)
//
// [Text] produces a compact character map, one glyph per cell, used by the
// CLI and the interactive view:
//
//	fmt.Print(render.Text(g, render.CellLabels(g, s)))
//
// Both read the grid's occupancy as-is; callers pre-populate it first.
package render
