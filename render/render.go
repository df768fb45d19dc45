// Package render defines the drawing contract between the canvas and a
// raster backend. Geometry arrives in model space together with an affine
// transform; ink values (sizes, pen widths, font sizes) are device pixels
// and are never run through the transform, so zooming the view does not
// fatten strokes.
package render

import (
	"image"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/geom"
	"github.com/teranos/easel/scene"
)

// VertexDraw is one vertex resolved to concrete draw values.
type VertexDraw struct {
	ID   string
	Pos  r2.Vec // model space
	Size float64

	PenWidth float64
	Fill     scene.Color
	Stroke   scene.Color

	Text      string
	TextColor scene.Color
	FontSize  float64

	Halo      bool
	HaloColor scene.Color
	HaloSize  float64 // halo diameter as a multiple of Size
}

// EdgeDraw is one edge resolved to concrete draw values. Offset bends the
// edge away from the straight chord, in model units along the edge's own
// left normal; self-loops use it as their loop extent.
type EdgeDraw struct {
	ID       string
	From, To r2.Vec // model space
	SelfLoop bool
	Offset   float64

	PenWidth float64
	Color    scene.Color

	// MarkerSize is the arrowhead length; TargetRadius pulls the tip
	// back to the target vertex's rim. Both device pixels.
	MarkerSize   float64
	TargetRadius float64

	Text      string
	TextColor scene.Color
	FontSize  float64
}

// View is a fully resolved pass over some subset of the graph, in draw
// order. Edges draw first and vertices cover them unless NodesFirst.
type View struct {
	Vertices   []VertexDraw
	Edges      []EdgeDraw
	NodesFirst bool
}

// Elements returns the number of drawable elements, the unit of the
// incremental progress cursor.
func (v View) Elements() int {
	return len(v.Vertices) + len(v.Edges)
}

// Surface is an off-screen raster target.
type Surface interface {
	// Size returns the pixel dimensions.
	Size() (w, h int)

	// Clear fills the whole surface with a color.
	Clear(bg scene.Color)

	// Checkerboard tiles the surface with the two given colors in
	// quadrant blocks of the given edge length.
	Checkerboard(dark, light scene.Color, quad int)

	// Blit composites src onto this surface under an affine transform.
	Blit(src Surface, tr geom.Affine)

	// DrawGraph draws view under tr, resuming from the progress cursor
	// offset. With a positive budget it may stop early after at least
	// one element and return the next cursor; it returns 0 when the
	// pass completed. A zero budget draws everything.
	DrawGraph(view View, tr geom.Affine, offset int, budget time.Duration) int

	// FillRect fills an axis-aligned rectangle, in surface pixels.
	FillRect(r geom.Rect, c scene.Color)

	// DrawBusy draws the outstanding-work spinner at a surface point.
	DrawBusy(center r2.Vec, radius float64)

	// Image exposes the backing raster.
	Image() image.Image
}

// Renderer creates surfaces and measures text for a specific backend.
type Renderer interface {
	NewSurface(w, h int) Surface

	// TextExtents returns the drawn width and height of a label.
	TextExtents(text string, fontSize float64) (w, h float64)
}
