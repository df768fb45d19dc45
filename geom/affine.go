// Package geom provides the affine transform and plane primitives used by
// the canvas. Transforms follow the cairo convention: a 2x3 matrix applied
// as x' = XX*x + XY*y + X0, y' = YX*x + YY*y + Y0, composed left to right
// with Then (a.Then(b) applies a first, then b).
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Affine is an invertible 2D affine transform.
type Affine struct {
	XX, YX float64
	XY, YY float64
	X0, Y0 float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{XX: 1, YY: 1}
}

// Translation returns a transform that moves points by (dx, dy).
func Translation(dx, dy float64) Affine {
	return Affine{XX: 1, YY: 1, X0: dx, Y0: dy}
}

// Scaling returns a uniform scale about the origin.
func Scaling(s float64) Affine {
	return Affine{XX: s, YY: s}
}

// Rotation returns a rotation about the origin by theta radians.
func Rotation(theta float64) Affine {
	sin, cos := math.Sincos(theta)
	return Affine{XX: cos, YX: sin, XY: -sin, YY: cos}
}

// ScaleAbout returns a uniform scale anchored at c, leaving c fixed.
func ScaleAbout(s float64, c r2.Vec) Affine {
	return Translation(-c.X, -c.Y).Then(Scaling(s)).Then(Translation(c.X, c.Y))
}

// RotateAbout returns a rotation anchored at c, leaving c fixed.
func RotateAbout(theta float64, c r2.Vec) Affine {
	return Translation(-c.X, -c.Y).Then(Rotation(theta)).Then(Translation(c.X, c.Y))
}

// Then composes transforms: the result applies a first, then b.
func (a Affine) Then(b Affine) Affine {
	return Affine{
		XX: b.XX*a.XX + b.XY*a.YX,
		YX: b.YX*a.XX + b.YY*a.YX,
		XY: b.XX*a.XY + b.XY*a.YY,
		YY: b.YX*a.XY + b.YY*a.YY,
		X0: b.XX*a.X0 + b.XY*a.Y0 + b.X0,
		Y0: b.YX*a.X0 + b.YY*a.Y0 + b.Y0,
	}
}

// Apply transforms the point p.
func (a Affine) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: a.XX*p.X + a.XY*p.Y + a.X0,
		Y: a.YX*p.X + a.YY*p.Y + a.Y0,
	}
}

// ApplyDist transforms the distance vector d, ignoring translation.
func (a Affine) ApplyDist(d r2.Vec) r2.Vec {
	return r2.Vec{
		X: a.XX*d.X + a.XY*d.Y,
		Y: a.YX*d.X + a.YY*d.Y,
	}
}

// Det returns the determinant of the linear part.
func (a Affine) Det() float64 {
	return a.XX*a.YY - a.XY*a.YX
}

// Invert returns the inverse transform. ok is false when the transform is
// singular, in which case the identity is returned.
func (a Affine) Invert() (inv Affine, ok bool) {
	det := a.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Identity(), false
	}
	inv = Affine{
		XX: a.YY / det,
		XY: -a.XY / det,
		YX: -a.YX / det,
		YY: a.XX / det,
	}
	inv.X0 = -(inv.XX*a.X0 + inv.XY*a.Y0)
	inv.Y0 = -(inv.YX*a.X0 + inv.YY*a.Y0)
	return inv, true
}

// IsIdentity reports whether a is exactly the identity transform.
func (a Affine) IsIdentity() bool {
	return a == Identity()
}
