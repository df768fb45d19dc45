package canvas

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/geom"
	"github.com/teranos/easel/render"
	"github.com/teranos/easel/scene"
)

// Resize informs the editor of the viewport size. The first real size
// also computes the default ink sizes, which need the viewport area.
func (e *Editor) Resize(w, h int) {
	if w == e.viewW && h == e.viewH {
		return
	}
	e.viewW, e.viewH = w, h
	if !e.sized && w > 0 && h > 0 {
		e.scene.AdjustDefaultSizes(e.doc.Store.Order(), float64(w), float64(h),
			e.doc.HasLabels(), false)
		e.scene.RefreshControlOffsets(e.doc.Store, e.cam.Scale)
		e.sized = true
	}
	e.regenerate(true, false)
	e.requestRepaint()
}

// regenerate refreshes the cache surface. reset discards the cached pixels
// and folds the accumulated view change into the cache transform; without
// it a pass only resumes outstanding incremental work. complete ignores
// the time budget and draws everything in one pass.
func (e *Editor) regenerate(reset, complete bool) {
	if e.ren == nil || e.viewW < 1 || e.viewH < 1 {
		return
	}
	w, h := e.viewW*cacheFactor, e.viewH*cacheFactor
	if e.base == nil || e.baseW != w || e.baseH != h {
		e.base = e.ren.NewSurface(w, h)
		e.baseW, e.baseH = w, h
		reset = true
	}
	if reset {
		e.cam.Commit(float64(e.viewW), float64(e.viewH))
		e.offset = 0
		e.lazyReset = false
		e.base.Clear(e.opts.Background)
	} else if e.offset == 0 {
		return // cache is current
	}
	budget := e.opts.RenderBudget
	if complete {
		budget = 0
	}
	e.offset = e.base.DrawGraph(e.baseView(), e.cam.T, e.offset, budget)
}

// covered reports whether the viewport still lies inside the cache surface
// under the current view transform.
func (e *Editor) covered() bool {
	if e.base == nil {
		return false
	}
	cache := geom.Rect{Max: r2.Vec{X: float64(e.baseW), Y: float64(e.baseH)}}
	view := geom.Rect{Max: r2.Vec{X: float64(e.viewW), Y: float64(e.viewH)}}
	return geom.TransformRect(e.cam.S, cache).ContainsRect(view)
}

// Draw composes one frame onto target: checkerboard backdrop, the cache
// blitted under the view delta, the interaction overlays, and a spinner
// while incremental cache work remains. The cache regenerates first when
// the viewport drifted outside it or a zoom flagged a pending reset.
func (e *Editor) Draw(target render.Surface) {
	if e.ren == nil {
		return
	}
	if w, h := target.Size(); w != e.viewW || h != e.viewH {
		e.Resize(w, h)
	}
	if e.lazyReset || !e.covered() {
		e.regenerate(true, false)
	} else {
		e.regenerate(false, false)
	}
	target.Checkerboard(scene.CheckerDark, scene.CheckerLight, e.opts.CheckerQuad)
	if e.base != nil {
		target.Blit(e.base, e.cam.S)
	}
	e.drawOverlay(target)
	if e.offset != 0 {
		target.DrawBusy(r2.Vec{X: float64(e.viewW) - 24, Y: 24}, 10)
		e.requestRepaint()
	}
}

// baseView resolves the whole graph in its neutral style: edges first,
// vertices on top.
func (e *Editor) baseView() render.View {
	var view render.View
	for _, eid := range e.doc.Store.Edges() {
		if d, ok := e.edgeDraw(eid); ok {
			view.Edges = append(view.Edges, d)
		}
	}
	for _, vid := range e.doc.Store.Vertices() {
		if d, ok := e.vertexDraw(vid); ok {
			view.Vertices = append(view.Vertices, d)
		}
	}
	return view
}

// vertexDraw resolves one vertex against the scene. Positions are model
// space; everything else is device pixels.
func (e *Editor) vertexDraw(id string) (render.VertexDraw, bool) {
	p, ok := e.doc.Pos[id]
	if !ok {
		return render.VertexDraw{}, false
	}
	v := e.scene.Vertex
	return render.VertexDraw{
		ID:        id,
		Pos:       p,
		Size:      v.Size.At(id),
		PenWidth:  v.PenWidth.At(id),
		Fill:      v.FillColor,
		Stroke:    v.Stroke,
		Text:      v.Text.At(id),
		TextColor: v.TextColor,
		FontSize:  v.FontSize,
		Halo:      v.Halo.At(id),
		HaloColor: v.HaloColor,
		HaloSize:  v.HaloSize,
	}, true
}

// edgeDraw resolves one edge against the scene. The arrowhead tip pulls
// back by the target vertex radius so it lands on the rim.
func (e *Editor) edgeDraw(id string) (render.EdgeDraw, bool) {
	from, to, err := e.doc.Store.Endpoints(id)
	if err != nil {
		return render.EdgeDraw{}, false
	}
	pf, okf := e.doc.Pos[from]
	pt, okt := e.doc.Pos[to]
	if !okf || !okt {
		return render.EdgeDraw{}, false
	}
	s := e.scene.Edge
	return render.EdgeDraw{
		ID:           id,
		From:         pf,
		To:           pt,
		SelfLoop:     from == to,
		Offset:       s.ControlOffset[id],
		PenWidth:     s.PenWidth.At(id),
		Color:        s.Color,
		MarkerSize:   s.MarkerSize.At(id),
		TargetRadius: e.scene.Vertex.Size.At(to) / 2,
		Text:         s.Text.At(id),
		TextColor:    s.TextColor,
		FontSize:     s.FontSize,
	}, true
}
