package grid

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/icongrid/pkg/errors"
	"github.com/matzehuels/icongrid/pkg/geom"
)

// Orientation selects the scan order of a grid.
type Orientation int

const (
	// Horizontal scans row-major: left to right, then top to bottom.
	Horizontal Orientation = iota
	// Vertical scans column-major: top to bottom, then left to right.
	Vertical
)

// Orientation names as used in configuration and scene files.
const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
)

func (o Orientation) String() string {
	if o == Vertical {
		return OrientationVertical
	}
	return OrientationHorizontal
}

// ParseOrientation parses "horizontal" or "vertical" (case-insensitive).
// An empty string yields Horizontal.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", OrientationHorizontal:
		return Horizontal, nil
	case OrientationVertical:
		return Vertical, nil
	}
	return Horizontal, errors.New(errors.ErrCodeInvalidInput, "unknown orientation %q (want horizontal or vertical)", s)
}

// Variant distinguishes the centered single-cell grid from the bounding-box grid.
type Variant int

const (
	Centered Variant = iota
	Box
)

// Variant names as used in configuration files.
const (
	VariantCentered = "centered"
	VariantBox      = "box"
)

func (v Variant) String() string {
	if v == Box {
		return VariantBox
	}
	return VariantCentered
}

// ParseVariant parses "centered" or "box" (case-insensitive).
// An empty string yields Centered.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", VariantCentered:
		return Centered, nil
	case VariantBox:
		return Box, nil
	}
	return Centered, errors.New(errors.ErrCodeInvalidInput, "unknown grid mode %q (want centered or box)", s)
}

// Cell is a grid index. X is the column, Y the row.
type Cell struct {
	X, Y int
}

func (c Cell) String() string { return fmt.Sprintf("[%d,%d]", c.X, c.Y) }

// CellRect is an inclusive rectangle of cells [X0..X1]×[Y0..Y1].
type CellRect struct {
	X0, Y0 int
	X1, Y1 int
}

// SingleCell returns the rectangle covering only c.
func SingleCell(c Cell) CellRect { return CellRect{X0: c.X, Y0: c.Y, X1: c.X, Y1: c.Y} }

// Min returns the top-left cell of the rectangle.
func (r CellRect) Min() Cell { return Cell{X: r.X0, Y: r.Y0} }

// Len returns the number of cells covered.
func (r CellRect) Len() int { return (r.X1 - r.X0 + 1) * (r.Y1 - r.Y0 + 1) }

// Option configures a Grid at construction time.
type Option func(*Grid)

// WithOrientation sets the scan order. The default is Horizontal.
func WithOrientation(o Orientation) Option {
	return func(g *Grid) { g.orientation = o }
}

// WithVerticalAdjust sets the distance between a cell's vertical center and
// the top of the items placed in it. See NominalToAnchor.
func WithVerticalAdjust(v float64) Option {
	return func(g *Grid) { g.verticalAdjust = v }
}

// MaxCells bounds the number of cells a grid may hold.
const MaxCells = 1 << 24

// Grid is a 2-D occupancy table over equally sized cells.
type Grid struct {
	variant        Variant
	cols, rows     int
	cell           geom.Size
	border         geom.Point // left/top offset; right/bottom mirror it
	orientation    Orientation
	verticalAdjust float64
	occupied       []bool // row*cols + col
	cursor         Cell
}

// NewCentered builds a single-cell grid centered within canvas.
// It fails with ErrCodeCanvasTooSmall when the canvas cannot hold a single
// cell in either direction; callers should skip the layout pass.
func NewCentered(canvas, cell geom.Size, opts ...Option) (*Grid, error) {
	g, err := newGrid(Centered, canvas, cell, opts)
	if err != nil {
		return nil, err
	}
	g.border = geom.Point{
		X: (canvas.Width - float64(g.cols)*cell.Width) / 2,
		Y: (canvas.Height - float64(g.rows)*cell.Height) / 2,
	}
	return g, nil
}

// NewBox builds a bounding-box grid anchored at the canvas origin.
// It fails under the same conditions as NewCentered.
func NewBox(canvas, cell geom.Size, opts ...Option) (*Grid, error) {
	return newGrid(Box, canvas, cell, opts)
}

// New builds a grid of the given variant.
func New(v Variant, canvas, cell geom.Size, opts ...Option) (*Grid, error) {
	if v == Box {
		return NewBox(canvas, cell, opts...)
	}
	return NewCentered(canvas, cell, opts...)
}

func newGrid(v Variant, canvas, cell geom.Size, opts []Option) (*Grid, error) {
	if err := errors.ValidateSize("cell size", cell.Width, cell.Height); err != nil {
		return nil, err
	}
	if err := errors.ValidateCanvas(canvas.Width, canvas.Height); err != nil {
		return nil, err
	}
	cols := math.Floor(canvas.Width / cell.Width)
	rows := math.Floor(canvas.Height / cell.Height)
	if cols == 0 || rows == 0 {
		return nil, errors.New(errors.ErrCodeCanvasTooSmall,
			"canvas %v cannot hold a %v cell", canvas, cell)
	}
	if cols*rows > MaxCells {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"canvas %v holds %gx%g cells of %v, more than %d", canvas, cols, rows, cell, MaxCells)
	}

	g := &Grid{
		variant:  v,
		cols:     int(cols),
		rows:     int(rows),
		cell:     cell,
		occupied: make([]bool, int(cols*rows)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}


// Columns returns the number of columns.
func (g *Grid) Columns() int { return g.cols }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Len returns the total number of cells.
func (g *Grid) Len() int { return g.cols * g.rows }

// CellSize returns the size of one cell.
func (g *Grid) CellSize() geom.Size { return g.cell }

// Border returns the left/top border. The right/bottom border is identical.
func (g *Grid) Border() geom.Point { return g.border }

// Orientation returns the scan order.
func (g *Grid) Orientation() Orientation { return g.orientation }

// Variant returns whether this is a centered or bounding-box grid.
func (g *Grid) Variant() Variant { return g.variant }

// VerticalAdjust returns the configured vertical adjustment.
func (g *Grid) VerticalAdjust() float64 { return g.verticalAdjust }

// Valid reports whether c lies inside the grid.
func (g *Grid) Valid(c Cell) bool {
	return c.X >= 0 && c.X < g.cols && c.Y >= 0 && c.Y < g.rows
}

func (g *Grid) index(c Cell) int {
	if !g.Valid(c) {
		panic(fmt.Sprintf("grid: cell %v outside %dx%d grid", c, g.cols, g.rows))
	}
	return c.Y*g.cols + c.X
}

// IsFree reports the raw occupancy bit of c. Unlike CurrentPositionRect it
// does not special-case the escape valve.
func (g *Grid) IsFree(c Cell) bool { return !g.occupied[g.index(c)] }

// Mark sets c as occupied.
func (g *Grid) Mark(c Cell) { g.occupied[g.index(c)] = true }

// Unmark clears the occupancy of c.
func (g *Grid) Unmark(c Cell) { g.occupied[g.index(c)] = false }

// Occupied returns the number of marked cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, o := range g.occupied {
		if o {
			n++
		}
	}
	return n
}

func (g *Grid) checkRect(r CellRect) {
	if r.X0 > r.X1 || r.Y0 > r.Y1 || !g.Valid(r.Min()) || !g.Valid(Cell{X: r.X1, Y: r.Y1}) {
		panic(fmt.Sprintf("grid: cell rect %v outside %dx%d grid", r, g.cols, g.rows))
	}
}

// IsFreeRect reports whether every cell in r is free.
func (g *Grid) IsFreeRect(r CellRect) bool {
	g.checkRect(r)
	for y := r.Y0; y <= r.Y1; y++ {
		for x := r.X0; x <= r.X1; x++ {
			if g.occupied[y*g.cols+x] {
				return false
			}
		}
	}
	return true
}

// MarkRect marks every cell in r.
func (g *Grid) MarkRect(r CellRect) { g.setRect(r, true) }

// UnmarkRect clears every cell in r.
func (g *Grid) UnmarkRect(r CellRect) { g.setRect(r, false) }

func (g *Grid) setRect(r CellRect, v bool) {
	g.checkRect(r)
	for y := r.Y0; y <= r.Y1; y++ {
		for x := r.X0; x <= r.X1; x++ {
			g.occupied[y*g.cols+x] = v
		}
	}
}
