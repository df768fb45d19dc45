package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rect is an axis-aligned rectangle. Min is the top-left corner in screen
// orientation (y grows downward), Max the bottom-right.
type Rect struct {
	Min, Max r2.Vec
}

// RectFromPoints returns the canonical rectangle spanning a and b.
func RectFromPoints(a, b r2.Vec) Rect {
	return Rect{
		Min: r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint.
func (r Rect) Center() r2.Vec {
	return r2.Vec{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside r, inclusive of edges.
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.Min.X >= r.Min.X && o.Min.Y >= r.Min.Y &&
		o.Max.X <= r.Max.X && o.Max.Y <= r.Max.Y
}

// Expand grows the rectangle by pad on every side.
func (r Rect) Expand(pad float64) Rect {
	return Rect{
		Min: r2.Vec{X: r.Min.X - pad, Y: r.Min.Y - pad},
		Max: r2.Vec{X: r.Max.X + pad, Y: r.Max.Y + pad},
	}
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: r2.Vec{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: r2.Vec{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Corners returns the four corners in clockwise order from Min.
func (r Rect) Corners() [4]r2.Vec {
	return [4]r2.Vec{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// Bounds returns the bounding box of a point set. The second return is
// false when pts is empty.
func Bounds(pts []r2.Vec) (Rect, bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r, true
}

// TransformRect maps r through a and returns the bounding box of the four
// transformed corners. Under rotation the result covers, rather than
// equals, the transformed rectangle.
func TransformRect(a Affine, r Rect) Rect {
	c := r.Corners()
	out := Rect{Min: a.Apply(c[0]), Max: a.Apply(c[0])}
	for _, p := range c[1:] {
		q := a.Apply(p)
		out.Min.X = math.Min(out.Min.X, q.X)
		out.Min.Y = math.Min(out.Min.Y, q.Y)
		out.Max.X = math.Max(out.Max.X, q.X)
		out.Max.Y = math.Max(out.Max.Y, q.Y)
	}
	return out
}
