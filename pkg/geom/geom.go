// Package geom provides the small set of 2-D primitives shared by the grid
// engine and its callers. All coordinates are canvas units (typically pixels)
// with the origin at the top-left and y growing downwards.
package geom

import "fmt"

// Point is a position in canvas space.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Size is a width/height pair, used for canvases, cells and item footprints.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

func (s Size) String() string { return fmt.Sprintf("%gx%g", s.Width, s.Height) }

// Rect is an axis-aligned rectangle. X1/Y1 are exclusive.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// RectAt returns the rectangle with top-left p and size s.
func RectAt(p Point, s Size) Rect {
	return Rect{X0: p.X, Y0: p.Y, X1: p.X + s.Width, Y1: p.Y + s.Height}
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X0, Y: r.Y0} }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{X: (r.X0 + r.X1) / 2, Y: (r.Y0 + r.Y1) / 2} }

// Contains reports whether p lies inside r (min inclusive, max exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X0 && p.X < r.X1 && p.Y >= r.Y0 && p.Y < r.Y1
}
