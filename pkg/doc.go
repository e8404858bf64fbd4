// Package pkg holds the libraries behind icongrid, a placement engine for
// desktop-style icons on a grid of equally sized cells.
//
// # Overview
//
// Icons are placed into cells, never between them, and no two icons share a
// cell unless the grid is full. The pkg directory is organized as:
//
//  1. [grid] - Occupancy grid, coordinate mapping and the free-cell scanner
//  2. [placement] - Lay-down, align and drag-and-drop insertion over a grid
//  3. [scene] - Scene files (JSON or YAML) and the bridge to the engine
//  4. [store] - Position persistence (SQLite, in-memory, null)
//  5. [render] - SVG and text views of a scene on its grid
//  6. [config] - TOML configuration
//  7. [watch] - File watching for scene files
//  8. [errors] and [observability] - Structured errors and instrumentation hooks
//
// # Architecture
//
// The typical data flow:
//
//	scene file (JSON/YAML)
//	         ↓
//	    [scene] package (items, placed and unplaced)
//	         ↓
//	    [placement] package (engine pass over a fresh [grid])
//	         ↓
//	    anchors written back to the scene and saved to a [store]
//
// # Quick Start
//
//	g, _ := grid.NewCentered(geom.Size{Width: 1920, Height: 1080}, geom.Size{Width: 100, Height: 100})
//	placed, fresh := s.Split()
//	s.Apply(placement.LayDown(g, placed, fresh, false))
//
// For the command-line tool, see cmd/icongrid.
package pkg
