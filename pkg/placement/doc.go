// Package placement decides where icons go on a grid-snapped canvas.
//
// It builds on pkg/grid and adds the notion of items: opaque identities with
// an anchor (top-left point) and a footprint (icon plus label bounds).
//
// # Operations
//
//   - PrePopulate marks the cells taken by items that already have a position.
//   - LayDown places new items into the next free cells in scan order.
//   - Align throws away all positions and packs every item in scan order.
//   - Insert handles a drag-and-drop: it frees room at the drop point by
//     pushing existing items further along the scan order.
//
// Engine wraps these operations with grid construction, logging and a
// PositionSink that receives every final anchor exactly once.
//
// # Example
//
//	g, err := grid.NewCentered(canvas, cell, grid.WithVerticalAdjust(24))
//	if err != nil {
//	    return err // canvas too small: skip this pass
//	}
//	PrePopulate(g, placed, true)
//	res := Insert(g, placed, dropPoint, dragged)
//	for _, p := range res.Pushed {
//	    move(p.ID, p.Anchor)
//	}
package placement
