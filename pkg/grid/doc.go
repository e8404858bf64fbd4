// Package grid implements the occupancy grid used to place icons on a canvas.
//
// A Grid divides a canvas into equally sized cells and records which cells
// are taken. It provides three groups of operations:
//
//   - Occupancy: IsFree, Mark, Unmark and their CellRect counterparts.
//   - Coordinate mapping: CanvasToGrid, GridToCanvasRect, NominalToAnchor
//     and AnchorToNominal convert between canvas points, cells and item
//     anchors.
//   - Scanning: NextGridPosition, NextFreePosition and CurrentPositionRect
//     walk the cells in the order implied by the grid's Orientation.
//
// # Variants
//
// NewCentered builds the single-cell grid used for desktop-style layouts. Any
// space left over after fitting whole cells is split evenly into a border so
// the grid sits in the middle of the canvas.
//
// NewBox builds the bounding-box grid used when items may span several
// cells. It has no border; items are tracked by the rectangle of cells their
// bounds cover (see CellsCovering).
//
// # Escape valve
//
// The bottom-right cell (Columns()-1, Rows()-1) is the escape valve. The
// scanner always reports it free, so a scan can never fail outright: once a
// grid is saturated, further items stack up in that cell. IsFree itself
// reports the raw occupancy bit.
//
// # Lifetime
//
// A Grid is built for one layout pass and thrown away afterwards. It is not
// safe for concurrent use.
//
// # Contract violations
//
// Cell accessors panic on out-of-range cells. Callers are expected to clamp
// canvas positions through CanvasToGrid before touching cells.
package grid
