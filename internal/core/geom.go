package core

import "math"

// Point is an integer 2D coordinate, used both for cell positions and chunk
// grid positions.
type Point struct {
	X int
	Y int
}

// Add returns the componentwise sum of two points.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Direction offsets. The simulation is y-up: Down decreases Y.
var (
	Up        = Point{0, 1}
	Down      = Point{0, -1}
	Left      = Point{-1, 0}
	Right     = Point{1, 0}
	UpLeft    = Point{-1, 1}
	UpRight   = Point{1, 1}
	DownLeft  = Point{-1, -1}
	DownRight = Point{1, -1}
)

// Directions lists the offsets of a 3x3 neighborhood in row-major order from
// bottom-left to top-right. Index 4 is the center.
var Directions = [9]Point{
	DownLeft, Down, DownRight,
	Left, {0, 0}, Right,
	UpLeft, Up, UpRight,
}

// Size describes the dimensions of a grid.
type Size struct {
	W int
	H int
}

const (
	rectMin = math.MinInt32
	rectMax = math.MaxInt32
)

// BoundRect is an axis-aligned rectangle with inclusive Min and Max corners.
// The canonical empty rect keeps Min above Max so that a single UnionPoint
// collapses it onto that point; any operation must treat Min > Max as empty
// rather than assume Min <= Max.
type BoundRect struct {
	Min Point
	Max Point
}

// EmptyRect returns the canonical empty rectangle.
func EmptyRect() BoundRect {
	return BoundRect{
		Min: Point{rectMax, rectMax},
		Max: Point{rectMin, rectMin},
	}
}

// IsEmpty reports whether the rectangle covers no points.
func (r BoundRect) IsEmpty() bool {
	return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y
}

// Union returns the smallest rectangle covering both operands.
func (r BoundRect) Union(o BoundRect) BoundRect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return BoundRect{
		Min: Point{min(r.Min.X, o.Min.X), min(r.Min.Y, o.Min.Y)},
		Max: Point{max(r.Max.X, o.Max.X), max(r.Max.Y, o.Max.Y)},
	}
}

// UnionPoint returns the smallest rectangle covering r and the point p.
func (r BoundRect) UnionPoint(p Point) BoundRect {
	if r.IsEmpty() {
		return BoundRect{Min: p, Max: p}
	}
	return BoundRect{
		Min: Point{min(r.Min.X, p.X), min(r.Min.Y, p.Y)},
		Max: Point{max(r.Max.X, p.X), max(r.Max.Y, p.Y)},
	}
}

// Contains reports whether p lies inside the rectangle.
func (r BoundRect) Contains(p Point) bool {
	return !r.IsEmpty() &&
		p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Center returns the midpoint of the rectangle, or the zero point when empty.
func (r BoundRect) Center() Point {
	if r.IsEmpty() {
		return Point{}
	}
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Size returns the covered extent. An empty rectangle has zero size.
func (r BoundRect) Size() Size {
	if r.IsEmpty() {
		return Size{}
	}
	return Size{r.Max.X - r.Min.X + 1, r.Max.Y - r.Min.Y + 1}
}

// BoundRectFromPoints returns the bounding box of the point list, or the
// empty rectangle for an empty list.
func BoundRectFromPoints(points []Point) BoundRect {
	r := EmptyRect()
	for _, p := range points {
		r = r.UnionPoint(p)
	}
	return r
}

// FloorDiv divides with the quotient rounded toward negative infinity, so
// negative coordinates resolve to the correct chunk.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod is the remainder paired with FloorDiv; the result always lies in
// [0, b) for positive b.
func FloorMod(a, b int) int {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}
