package canvas

import (
	"github.com/teranos/easel/graphstore"
	"github.com/teranos/easel/render"
	"github.com/teranos/easel/scene"
)

// connectedHaloAlpha dims the selection color for the strictly-adjacent
// neighborhood so it reads as related but not selected.
const connectedHaloAlpha = 0.5

// drawOverlay composes the interactive layers over the blitted cache, in
// fixed z-order: preselected edges, selection edge halos, the connected
// vertex halo, selected vertex halos, preselected vertices, and prepick
// marks on top — what is about to be clicked renders above what already
// is. Transient rectangles and the new-edge preview close the frame.
//
// Which layers carry elements follows from the selection model itself: a
// vertex-typed pick can only hold preselected edges, an edge-typed pick
// only preselected vertices.
func (e *Editor) drawOverlay(target render.Surface) {
	view := e.cam.View()

	if e.sel.preEdges != nil {
		halo := scene.EdgeHaloWidthFactor * e.scene.MeanVertexSize(e.doc.Store.Vertices())
		target.DrawGraph(e.edgeLayer(e.sel.preEdges, scene.PreselectColor, halo), view, 0, 0)
	}
	if e.sel.edges.Any() {
		halo := scene.EdgeHaloWidthFactor * e.scene.MeanVertexSize(e.doc.Store.Vertices())
		target.DrawGraph(e.edgeLayer(e.sel.edges, scene.EdgeHaloColor, halo), view, 0, 0)
		target.DrawGraph(e.boostedEdgeLayer(e.sel.edges), view, 0, 0)
	}
	if e.sel.highlight.Any() {
		c := scene.SelectionColor.WithAlpha(connectedHaloAlpha)
		target.DrawGraph(e.vertexHaloLayer(e.sel.highlight, c), view, 0, 0)
	}
	if e.sel.vertices.Any() {
		target.DrawGraph(e.vertexHaloLayer(e.sel.vertices, scene.SelectionColor), view, 0, 0)
	}
	if e.sel.preVertices != nil {
		target.DrawGraph(e.vertexHaloLayer(e.sel.preVertices, scene.PreselectColor), view, 0, 0)
	}
	switch e.sel.prepickKind {
	case PickEdge:
		marks := graphstore.FlagMap{e.sel.prepickID: true}
		halo := scene.EdgeHaloWidthFactor * e.scene.MeanVertexSize(e.doc.Store.Vertices())
		target.DrawGraph(e.edgeLayer(marks, scene.PrepickColor, halo), view, 0, 0)
	case PickVertex:
		marks := graphstore.FlagMap{e.sel.prepickID: true}
		target.DrawGraph(e.vertexHaloLayer(marks, scene.PrepickColor), view, 0, 0)
	}

	if e.band != nil {
		target.FillRect(e.band.rect(), scene.BandFill)
	}
	if e.zoomBand != nil {
		target.FillRect(e.zoomBand.rect(), scene.BandFill)
	}
	if e.preview != nil {
		target.DrawGraph(e.previewLayer(), view, 0, 0)
	}
}

// vertexHaloLayer redraws the marked vertices with a halo of the given
// color, in base draw order so the stacking matches the cache.
func (e *Editor) vertexHaloLayer(marks graphstore.FlagMap, c scene.Color) render.View {
	var view render.View
	for _, vid := range e.doc.Store.Vertices() {
		if !marks.Has(vid) {
			continue
		}
		d, ok := e.vertexDraw(vid)
		if !ok {
			continue
		}
		d.Halo = true
		d.HaloColor = c
		view.Vertices = append(view.Vertices, d)
	}
	return view
}

// edgeLayer strokes the marked edges in a flat color at the given pen
// width, without markers or labels — the wide translucent "fake halo"
// pass behind emphasized edges.
func (e *Editor) edgeLayer(marks graphstore.FlagMap, c scene.Color, pen float64) render.View {
	var view render.View
	for _, eid := range e.doc.Store.Edges() {
		if !marks.Has(eid) {
			continue
		}
		d, ok := e.edgeDraw(eid)
		if !ok {
			continue
		}
		d.Color = c
		d.PenWidth = pen
		d.MarkerSize = 0
		d.Text = ""
		view.Edges = append(view.Edges, d)
	}
	return view
}

// boostedEdgeLayer redraws the marked edges in the selection color with a
// boosted pen width, on top of their halo pass.
func (e *Editor) boostedEdgeLayer(marks graphstore.FlagMap) render.View {
	var view render.View
	for _, eid := range e.doc.Store.Edges() {
		if !marks.Has(eid) {
			continue
		}
		d, ok := e.edgeDraw(eid)
		if !ok {
			continue
		}
		d.Color = scene.SelectionColor
		d.PenWidth *= scene.HaloPenBoost
		view.Edges = append(view.Edges, d)
	}
	return view
}

// previewLayer draws the in-progress new edge from its source vertex to
// the pointer.
func (e *Editor) previewLayer() render.View {
	src, ok := e.doc.Pos[e.preview.source]
	if !ok {
		return render.View{}
	}
	s := e.scene.Edge
	return render.View{Edges: []render.EdgeDraw{{
		From:       src,
		To:         e.preview.end,
		PenWidth:   s.PenWidth.At(""),
		Color:      s.Color,
		MarkerSize: s.MarkerSize.At(""),
	}}}
}
