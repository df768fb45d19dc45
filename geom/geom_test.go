package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestAffineThenAppliesLeftToRight(t *testing.T) {
	// Translate then scale is not the same as scale then translate.
	ts := Translation(1, 0).Then(Scaling(2))
	st := Scaling(2).Then(Translation(1, 0))

	p := r2.Vec{X: 1, Y: 1}
	got := ts.Apply(p)
	assert.InDelta(t, 4.0, got.X, 1e-12, "translate-then-scale should scale the translated point")
	assert.InDelta(t, 2.0, got.Y, 1e-12)

	got = st.Apply(p)
	assert.InDelta(t, 3.0, got.X, 1e-12, "scale-then-translate should translate the scaled point")
	assert.InDelta(t, 2.0, got.Y, 1e-12)
}

func TestAffineInvertRoundTrip(t *testing.T) {
	m := Translation(3, -7).Then(Scaling(2.5)).Then(Rotation(0.3))
	inv, ok := m.Invert()
	require.True(t, ok, "composed transform must be invertible")

	p := r2.Vec{X: 12.5, Y: -4.25}
	q := inv.Apply(m.Apply(p))
	assert.InDelta(t, p.X, q.X, 1e-9)
	assert.InDelta(t, p.Y, q.Y, 1e-9)

	// Round trip through Then as well.
	id := m.Then(inv)
	q = id.Apply(p)
	assert.InDelta(t, p.X, q.X, 1e-9)
	assert.InDelta(t, p.Y, q.Y, 1e-9)
}

func TestAffineInvertSingular(t *testing.T) {
	_, ok := Affine{}.Invert()
	assert.False(t, ok, "zero matrix is singular")

	_, ok = Scaling(0).Invert()
	assert.False(t, ok, "zero scale is singular")
}

func TestScaleAboutLeavesAnchorFixed(t *testing.T) {
	c := r2.Vec{X: 40, Y: 30}
	m := ScaleAbout(3, c)

	got := m.Apply(c)
	assert.InDelta(t, c.X, got.X, 1e-12)
	assert.InDelta(t, c.Y, got.Y, 1e-12)

	// A point one unit right of the anchor moves three units right.
	got = m.Apply(r2.Vec{X: 41, Y: 30})
	assert.InDelta(t, 43.0, got.X, 1e-12)
	assert.InDelta(t, 30.0, got.Y, 1e-12)
}

func TestRotateAboutLeavesAnchorFixed(t *testing.T) {
	c := r2.Vec{X: 10, Y: 10}
	m := RotateAbout(math.Pi/2, c)

	got := m.Apply(c)
	assert.InDelta(t, c.X, got.X, 1e-12)
	assert.InDelta(t, c.Y, got.Y, 1e-12)

	got = m.Apply(r2.Vec{X: 11, Y: 10})
	assert.InDelta(t, 10.0, got.X, 1e-9)
	assert.InDelta(t, 11.0, got.Y, 1e-9)
}

func TestApplyDistIgnoresTranslation(t *testing.T) {
	m := Translation(100, 200).Then(Scaling(2))
	d := m.ApplyDist(r2.Vec{X: 3, Y: 4})
	assert.InDelta(t, 6.0, d.X, 1e-12)
	assert.InDelta(t, 8.0, d.Y, 1e-12)
}

func TestRectFromPointsCanonicalizes(t *testing.T) {
	r := RectFromPoints(r2.Vec{X: 5, Y: -1}, r2.Vec{X: -2, Y: 7})
	assert.Equal(t, r2.Vec{X: -2, Y: -1}, r.Min)
	assert.Equal(t, r2.Vec{X: 5, Y: 7}, r.Max)
	assert.InDelta(t, 7.0, r.Width(), 1e-12)
	assert.InDelta(t, 8.0, r.Height(), 1e-12)
	assert.Equal(t, r2.Vec{X: 1.5, Y: 3}, r.Center())
}

func TestRectContainsRect(t *testing.T) {
	outer := RectFromPoints(r2.Vec{}, r2.Vec{X: 10, Y: 10})
	assert.True(t, outer.ContainsRect(RectFromPoints(r2.Vec{X: 1, Y: 1}, r2.Vec{X: 9, Y: 9})))
	assert.True(t, outer.ContainsRect(outer), "a rect contains itself")
	assert.False(t, outer.ContainsRect(RectFromPoints(r2.Vec{X: 1, Y: 1}, r2.Vec{X: 11, Y: 9})))
}

func TestTransformRectCoversRotation(t *testing.T) {
	r := RectFromPoints(r2.Vec{X: -1, Y: -1}, r2.Vec{X: 1, Y: 1})
	got := TransformRect(Rotation(math.Pi/4), r)

	// The rotated unit square's corners land at distance sqrt(2) on the axes.
	want := math.Sqrt2
	assert.InDelta(t, -want, got.Min.X, 1e-9)
	assert.InDelta(t, -want, got.Min.Y, 1e-9)
	assert.InDelta(t, want, got.Max.X, 1e-9)
	assert.InDelta(t, want, got.Max.Y, 1e-9)
}

func TestPolygonContains(t *testing.T) {
	square := Polygon{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 10},
	}

	assert.True(t, square.Contains(r2.Vec{X: 5, Y: 5}))
	assert.False(t, square.Contains(r2.Vec{X: 15, Y: 5}))
	assert.False(t, square.Contains(r2.Vec{X: -1, Y: -1}))

	// Concave "L" shape: the notch is outside.
	ell := Polygon{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 5},
		{X: 5, Y: 5},
		{X: 5, Y: 10},
		{X: 0, Y: 10},
	}
	assert.True(t, ell.Contains(r2.Vec{X: 2, Y: 8}))
	assert.False(t, ell.Contains(r2.Vec{X: 8, Y: 8}), "notch of the L is outside")
}

func TestPolygonBounds(t *testing.T) {
	_, ok := Polygon{}.Bounds()
	assert.False(t, ok)

	r, ok := Polygon{{X: 2, Y: 3}, {X: -1, Y: 5}, {X: 4, Y: 0}}.Bounds()
	require.True(t, ok)
	assert.Equal(t, r2.Vec{X: -1, Y: 0}, r.Min)
	assert.Equal(t, r2.Vec{X: 4, Y: 5}, r.Max)
}
