package canvas

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/geom"
)

// Camera is the coordinate transform stack: T maps model space onto the
// cache surface, S maps the cache surface onto the viewport. S represents
// what has changed since the cache was last regenerated; folding S into T
// is the explicit act of committing a view change into the cache.
//
// Scale tracks the cumulative model-to-device zoom applied through T. Ink
// (sizes, pen widths) is measured in device pixels and never run through
// the transforms, so hit tests divide ink by Scale to compare against
// model-space distances.
type Camera struct {
	T     geom.Affine
	S     geom.Affine
	Scale float64
}

// NewCamera returns an identity camera.
func NewCamera() Camera {
	return Camera{T: geom.Identity(), S: geom.Identity(), Scale: 1}
}

// View returns the composed model-to-viewport transform.
func (c *Camera) View() geom.Affine {
	return c.T.Then(c.S)
}

// ModelToDevice maps a model-space point into viewport coordinates.
func (c *Camera) ModelToDevice(p r2.Vec) r2.Vec {
	return c.View().Apply(p)
}

// DeviceToModel maps a viewport point back into model space.
func (c *Camera) DeviceToModel(p r2.Vec) r2.Vec {
	inv, ok := c.View().Invert()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// DeviceToModelDist maps a viewport distance vector into model space,
// ignoring translation.
func (c *Camera) DeviceToModelDist(d r2.Vec) r2.Vec {
	inv, ok := c.View().Invert()
	if !ok {
		return d
	}
	return inv.ApplyDist(d)
}

// DeviceToSurface maps a viewport point into cache-surface coordinates.
func (c *Camera) DeviceToSurface(p r2.Vec) r2.Vec {
	inv, ok := c.S.Invert()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// Pan composes a viewport translation into S. Persisted positions are
// untouched.
func (c *Camera) Pan(d r2.Vec) {
	c.S = c.S.Then(geom.Translation(d.X, d.Y))
}

// ZoomAt composes a uniform scale into T so that the given viewport point
// stays fixed. The caller owes a parallel-edge control point refresh and a
// lazy cache reset; both depend on the new scale.
func (c *Camera) ZoomAt(f float64, anchor r2.Vec) {
	if f == 1 || f <= 0 {
		return
	}
	before := c.DeviceToModel(anchor)
	c.T = c.T.Then(geom.Scaling(f))
	c.Scale *= f
	after := c.DeviceToModel(anchor)
	c.T = geom.Translation(after.X-before.X, after.Y-before.Y).Then(c.T)
}

// PinchAt composes a uniform scale into S anchored at a viewport point, a
// pure view manipulation for touch gestures. Scale is left alone: pinch
// zooms are paired with explicit ink scaling so that hit radii stay
// consistent when the gesture ends and S is folded into T.
func (c *Camera) PinchAt(f float64, anchor r2.Vec) {
	if f == 1 || f <= 0 {
		return
	}
	inv, ok := c.S.Invert()
	if !ok {
		return
	}
	before := inv.Apply(anchor)
	c.S = geom.Scaling(f).Then(c.S)
	inv, ok = c.S.Invert()
	if !ok {
		return
	}
	after := inv.Apply(anchor)
	c.S = geom.Translation(after.X-before.X, after.Y-before.Y).Then(c.S)
}

// RotateAt composes a rotation about a viewport point into S.
func (c *Camera) RotateAt(theta float64, center r2.Vec) {
	c.S = c.S.Then(geom.RotateAbout(theta, center))
}

// Commit folds the accumulated view changes into T when the cache surface
// regenerates. The surface is 3x the viewport with the viewport in the
// middle block, so the new S is the translation to the surface origin at
// (-w, -h) and T absorbs everything else.
func (c *Camera) Commit(w, h float64) {
	c.S = c.S.Then(geom.Translation(w, h))
	c.T = c.T.Then(c.S)
	c.S = geom.Translation(-w, -h)
}

// Fold composes a device-space transform onto the full view and resets S
// to identity, used by fit-to-window. zoom is the uniform scale carried by
// m, folded into the ink scale factor.
func (c *Camera) Fold(m geom.Affine, zoom float64) {
	c.T = c.T.Then(c.S).Then(m)
	c.S = geom.Identity()
	if zoom > 0 {
		c.Scale *= zoom
	}
}
