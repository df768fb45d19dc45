// Package raster renders canvas views onto in-memory RGBA surfaces using
// fogleman/gg. It is the only package that touches pixels; everything
// above it works in model coordinates plus an affine transform.
package raster

import (
	"image"
	"image/draw"
	"math"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/errors"
	"github.com/teranos/easel/geom"
	"github.com/teranos/easel/render"
	"github.com/teranos/easel/scene"
)

// arrowAngle is the half-angle of edge arrowheads, in radians.
const arrowAngle = 0.5

var (
	labelFont     *truetype.Font
	labelFontOnce sync.Once
)

func loadLabelFont() {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(errors.Wrap(err, "parsing embedded label font"))
	}
	labelFont = f
}

// Renderer implements render.Renderer on top of gg contexts. Font faces
// are cached per size; gg contexts are not safe for concurrent use, so a
// Renderer and its surfaces belong to a single goroutine.
type Renderer struct {
	mu      sync.Mutex
	faces   map[float64]font.Face
	measure *gg.Context
}

// New returns a raster renderer with an empty face cache.
func New() *Renderer {
	labelFontOnce.Do(loadLabelFont)
	return &Renderer{
		faces:   make(map[float64]font.Face),
		measure: gg.NewContext(1, 1),
	}
}

// NewSurface allocates a transparent RGBA surface.
func (r *Renderer) NewSurface(w, h int) render.Surface {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &surface{ren: r, dc: gg.NewContext(w, h), w: w, h: h}
}

// TextExtents measures a label without drawing it.
func (r *Renderer) TextExtents(text string, fontSize float64) (w, h float64) {
	if text == "" || fontSize <= 0 {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.measure.SetFontFace(r.faceLocked(fontSize))
	return r.measure.MeasureString(text)
}

func (r *Renderer) face(size float64) font.Face {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.faceLocked(size)
}

func (r *Renderer) faceLocked(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(labelFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[size] = f
	return f
}

type surface struct {
	ren  *Renderer
	dc   *gg.Context
	w, h int
}

func (s *surface) Size() (int, int) { return s.w, s.h }

func (s *surface) Image() image.Image { return s.dc.Image() }

func (s *surface) Clear(bg scene.Color) {
	s.dc.SetRGBA(bg.R, bg.G, bg.B, bg.A)
	s.dc.Clear()
}

func (s *surface) Checkerboard(dark, light scene.Color, quad int) {
	if quad < 1 {
		quad = 1
	}
	for y := 0; y < s.h; y += quad {
		for x := 0; x < s.w; x += quad {
			c := dark
			if (x/quad+y/quad)%2 != 0 {
				c = light
			}
			s.dc.SetRGBA(c.R, c.G, c.B, c.A)
			s.dc.DrawRectangle(float64(x), float64(y), float64(quad), float64(quad))
			s.dc.Fill()
		}
	}
}

func (s *surface) Blit(src render.Surface, tr geom.Affine) {
	dst, ok := s.dc.Image().(draw.Image)
	if !ok {
		return
	}
	m := f64.Aff3{tr.XX, tr.XY, tr.X0, tr.YX, tr.YY, tr.Y0}
	im := src.Image()
	xdraw.BiLinear.Transform(dst, m, im, im.Bounds(), xdraw.Over, nil)
}

func (s *surface) FillRect(r geom.Rect, c scene.Color) {
	if c.Transparent() {
		return
	}
	s.dc.SetRGBA(c.R, c.G, c.B, c.A)
	s.dc.DrawRectangle(r.Min.X, r.Min.Y, r.Width(), r.Height())
	s.dc.Fill()
}

// DrawBusy draws a three-quarter arc spinner marking an unfinished
// background repaint.
func (s *surface) DrawBusy(center r2.Vec, radius float64) {
	s.dc.SetRGBA(0.4, 0.4, 0.4, 0.9)
	s.dc.SetLineWidth(math.Max(radius/3, 1))
	s.dc.DrawArc(center.X, center.Y, radius, 0, 1.5*math.Pi)
	s.dc.Stroke()
}

// DrawGraph draws view under tr starting at the progress cursor offset.
// It always draws at least one element per call, checks the budget
// between elements, and returns 0 once the pass is complete.
func (s *surface) DrawGraph(view render.View, tr geom.Affine, offset int, budget time.Duration) int {
	n := view.Elements()
	if offset < 0 || offset >= n {
		offset = 0
	}
	if n == 0 {
		return 0
	}
	start := time.Now()
	for i := offset; i < n; i++ {
		if budget > 0 && i > offset && time.Since(start) > budget {
			return i
		}
		s.drawElement(view, tr, i)
	}
	return 0
}

// drawElement resolves the progress cursor: edges occupy the leading
// indices and vertices the trailing ones, or the reverse when NodesFirst.
func (s *surface) drawElement(view render.View, tr geom.Affine, i int) {
	if view.NodesFirst {
		if i < len(view.Vertices) {
			s.drawVertex(view.Vertices[i], tr)
		} else {
			s.drawEdge(view.Edges[i-len(view.Vertices)], tr)
		}
		return
	}
	if i < len(view.Edges) {
		s.drawEdge(view.Edges[i], tr)
	} else {
		s.drawVertex(view.Vertices[i-len(view.Edges)], tr)
	}
}

func (s *surface) drawVertex(v render.VertexDraw, tr geom.Affine) {
	p := tr.Apply(v.Pos)
	radius := v.Size / 2
	if v.Halo && !v.HaloColor.Transparent() {
		s.dc.SetRGBA(v.HaloColor.R, v.HaloColor.G, v.HaloColor.B, v.HaloColor.A)
		s.dc.DrawCircle(p.X, p.Y, radius*v.HaloSize)
		s.dc.Fill()
	}
	if !v.Fill.Transparent() {
		s.dc.SetRGBA(v.Fill.R, v.Fill.G, v.Fill.B, v.Fill.A)
		s.dc.DrawCircle(p.X, p.Y, radius)
		s.dc.Fill()
	}
	if v.PenWidth > 0 && !v.Stroke.Transparent() {
		s.dc.SetRGBA(v.Stroke.R, v.Stroke.G, v.Stroke.B, v.Stroke.A)
		s.dc.SetLineWidth(v.PenWidth)
		s.dc.DrawCircle(p.X, p.Y, radius)
		s.dc.Stroke()
	}
	if v.Text != "" && v.FontSize > 0 && !v.TextColor.Transparent() {
		s.dc.SetFontFace(s.ren.face(v.FontSize))
		s.dc.SetRGBA(v.TextColor.R, v.TextColor.G, v.TextColor.B, v.TextColor.A)
		s.dc.DrawStringAnchored(v.Text, p.X, p.Y, 0.5, 0.5)
	}
}

func (s *surface) drawEdge(e render.EdgeDraw, tr geom.Affine) {
	if e.PenWidth <= 0 || e.Color.Transparent() {
		return
	}
	from := tr.Apply(e.From)
	to := tr.Apply(e.To)

	// approach is the device point the edge arrives from, used to aim
	// the arrowhead; mid anchors the label.
	var approach, mid r2.Vec
	switch {
	case e.SelfLoop:
		ext := e.Offset
		c1 := tr.Apply(r2.Vec{X: e.From.X - 2*ext, Y: e.From.Y - 3*ext})
		c2 := tr.Apply(r2.Vec{X: e.From.X + 2*ext, Y: e.From.Y - 3*ext})
		s.dc.MoveTo(from.X, from.Y)
		s.dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, to.X, to.Y)
		approach = c2
		mid = r2.Vec{X: (c1.X + c2.X) / 2, Y: (c1.Y + c2.Y) / 2}
	case e.Offset != 0:
		ctrl := tr.Apply(bendControl(e.From, e.To, e.Offset))
		s.dc.MoveTo(from.X, from.Y)
		s.dc.QuadraticTo(ctrl.X, ctrl.Y, to.X, to.Y)
		approach = ctrl
		mid = r2.Vec{
			X: 0.25*from.X + 0.5*ctrl.X + 0.25*to.X,
			Y: 0.25*from.Y + 0.5*ctrl.Y + 0.25*to.Y,
		}
	default:
		s.dc.MoveTo(from.X, from.Y)
		s.dc.LineTo(to.X, to.Y)
		approach = from
		mid = r2.Vec{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
	}
	s.dc.SetRGBA(e.Color.R, e.Color.G, e.Color.B, e.Color.A)
	s.dc.SetLineWidth(e.PenWidth)
	s.dc.Stroke()

	if e.MarkerSize > 0 {
		s.drawArrowhead(e, approach, to)
	}
	if e.Text != "" && e.FontSize > 0 && !e.TextColor.Transparent() {
		s.dc.SetFontFace(s.ren.face(e.FontSize))
		s.dc.SetRGBA(e.TextColor.R, e.TextColor.G, e.TextColor.B, e.TextColor.A)
		s.dc.DrawStringAnchored(e.Text, mid.X, mid.Y, 0.5, 0.5)
	}
}

// bendControl returns the quadratic control point for a bent edge: the
// chord midpoint pushed along the left normal by the offset.
func bendControl(from, to r2.Vec, offset float64) r2.Vec {
	d := r2.Vec{X: to.X - from.X, Y: to.Y - from.Y}
	n := math.Hypot(d.X, d.Y)
	if n == 0 {
		return from
	}
	perp := r2.Vec{X: -d.Y / n, Y: d.X / n}
	return r2.Vec{
		X: (from.X+to.X)/2 + perp.X*2*offset,
		Y: (from.Y+to.Y)/2 + perp.Y*2*offset,
	}
}

// drawArrowhead fills the marker triangle with its tip on the target
// vertex's rim, aimed along the device-space arrival direction.
func (s *surface) drawArrowhead(e render.EdgeDraw, approach, to r2.Vec) {
	dx := to.X - approach.X
	dy := to.Y - approach.Y
	if dx == 0 && dy == 0 {
		return
	}
	angle := math.Atan2(dy, dx)
	tipX := to.X - e.TargetRadius*math.Cos(angle)
	tipY := to.Y - e.TargetRadius*math.Sin(angle)
	x1 := tipX - e.MarkerSize*math.Cos(angle-arrowAngle)
	y1 := tipY - e.MarkerSize*math.Sin(angle-arrowAngle)
	x2 := tipX - e.MarkerSize*math.Cos(angle+arrowAngle)
	y2 := tipY - e.MarkerSize*math.Sin(angle+arrowAngle)

	s.dc.SetRGBA(e.Color.R, e.Color.G, e.Color.B, e.Color.A)
	s.dc.MoveTo(tipX, tipY)
	s.dc.LineTo(x1, y1)
	s.dc.LineTo(x2, y2)
	s.dc.ClosePath()
	s.dc.Fill()
}
