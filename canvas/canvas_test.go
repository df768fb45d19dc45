package canvas

import (
	"image"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/geom"
	"github.com/teranos/easel/graphstore"
	"github.com/teranos/easel/render"
	"github.com/teranos/easel/scene"
)

// fakeSurface records every call so tests can assert on compose order and
// cache behavior. With perPass > 0 a budgeted DrawGraph pass stops after
// that many elements, standing in for the wall-clock time box.
type fakeSurface struct {
	w, h    int
	perPass int

	clears   int
	checkers int
	blits    int
	busy     int
	fills    []scene.Color
	draws    []drawCall
}

type drawCall struct {
	view   render.View
	tr     geom.Affine
	offset int
	budget time.Duration
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }

func (s *fakeSurface) Clear(scene.Color) { s.clears++ }

func (s *fakeSurface) Checkerboard(_, _ scene.Color, _ int) { s.checkers++ }

func (s *fakeSurface) Blit(render.Surface, geom.Affine) { s.blits++ }

func (s *fakeSurface) DrawGraph(view render.View, tr geom.Affine, offset int, budget time.Duration) int {
	s.draws = append(s.draws, drawCall{view: view, tr: tr, offset: offset, budget: budget})
	if budget > 0 && s.perPass > 0 && offset+s.perPass < view.Elements() {
		return offset + s.perPass
	}
	return 0
}

func (s *fakeSurface) FillRect(_ geom.Rect, c scene.Color) { s.fills = append(s.fills, c) }

func (s *fakeSurface) DrawBusy(r2.Vec, float64) { s.busy++ }

func (s *fakeSurface) Image() image.Image { return image.NewRGBA(image.Rect(0, 0, s.w, s.h)) }

type fakeRenderer struct {
	perPass  int
	surfaces []*fakeSurface
}

func (r *fakeRenderer) NewSurface(w, h int) render.Surface {
	s := &fakeSurface{w: w, h: h, perPass: r.perPass}
	r.surfaces = append(r.surfaces, s)
	return s
}

func (r *fakeRenderer) TextExtents(text string, fontSize float64) (float64, float64) {
	return float64(7 * len(text)), fontSize
}

// recorder counts observer emissions.
type recorder struct {
	structural []bool
	picked     int
	repaints   int
}

func (r *recorder) GraphChanged(structural bool) { r.structural = append(r.structural, structural) }
func (r *recorder) PickedChanged()               { r.picked++ }
func (r *recorder) RepaintRequested()            { r.repaints++ }

func pt(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

// newTestEditor builds an editor over vertices at the given positions in a
// 100x100 viewport.
func newTestEditor(t *testing.T, pts ...r2.Vec) (*Editor, *graphstore.Document, *recorder) {
	t.Helper()
	doc := graphstore.NewDocument()
	for _, p := range pts {
		doc.AddVertexAt(p)
	}
	ed := New(doc, &fakeRenderer{}, Options{})
	ed.Resize(100, 100)
	rec := &recorder{}
	ed.Subscribe(rec)
	return ed, doc, rec
}

func click(ed *Editor, p r2.Vec) {
	ed.PointerDown(PointerEvent{Pos: p, Button: ButtonPrimary})
	ed.PointerUp(PointerEvent{Pos: p, Button: ButtonPrimary})
}

func shiftClick(ed *Editor, p r2.Vec) {
	ed.PointerDown(PointerEvent{Pos: p, Button: ButtonPrimary, Shift: true})
	ed.PointerUp(PointerEvent{Pos: p, Button: ButtonPrimary})
}

func drag(ed *Editor, from, to r2.Vec) {
	ed.PointerDown(PointerEvent{Pos: from, Button: ButtonPrimary})
	ed.PointerMove(PointerEvent{Pos: to, Button: ButtonPrimary})
	ed.PointerUp(PointerEvent{Pos: to, Button: ButtonPrimary})
}

func rightClick(ed *Editor) {
	ed.PointerDown(PointerEvent{Button: ButtonSecondary})
}
