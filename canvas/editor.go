// Package canvas implements the interactive graph-canvas controller: it
// owns the on-screen representation of one document, translates pointer,
// keyboard and touch input into graph mutations and selection changes,
// and keeps an incrementally repainted render cache consistent with the
// evolving graph.
//
// The editor is single-threaded and cooperative. Every handler runs to
// completion before the next event is read; the render cache simulates
// background work with a wall-clock budget inside a single paint call and
// asks for a follow-up repaint when work remains.
package canvas

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/geom"
	"github.com/teranos/easel/graphstore"
	"github.com/teranos/easel/layout"
	"github.com/teranos/easel/logger"
	"github.com/teranos/easel/render"
	"github.com/teranos/easel/scene"
	"github.com/teranos/easel/spatial"
)

// Options tune the editor. The zero value takes the defaults the original
// widget shipped with.
type Options struct {
	// RenderBudget caps one incremental cache pass. Default 300ms.
	RenderBudget time.Duration

	// FitFraction is the viewport share a fitted graph occupies.
	// Default 0.95.
	FitFraction float64

	// Background fills the cache surface. Default white.
	Background scene.Color

	// CheckerQuad is the checkerboard cell edge in pixels. Default 14.
	CheckerQuad int

	// LayoutSeed seeds recovery layouts for degenerate positions.
	LayoutSeed uint64
}

func (o Options) withDefaults() Options {
	if o.RenderBudget <= 0 {
		o.RenderBudget = 300 * time.Millisecond
	}
	if o.FitFraction <= 0 || o.FitFraction > 1 {
		o.FitFraction = 0.95
	}
	if o.Background.Transparent() {
		o.Background = scene.White
	}
	if o.CheckerQuad <= 0 {
		o.CheckerQuad = 14
	}
	return o
}

type bandRect struct {
	a, b r2.Vec
}

func (b bandRect) rect() geom.Rect {
	return geom.RectFromPoints(b.a, b.b)
}

type edgePreview struct {
	source string
	end    r2.Vec // model space
}

// Editor is the canvas controller for one open document. It is owned by
// exactly one session and is not safe for concurrent use.
type Editor struct {
	log *zap.SugaredLogger

	doc   *graphstore.Document
	scene *scene.Scene
	ren   render.Renderer

	cam   Camera
	index *spatial.Index

	mode  EditMode
	state gestureState
	sel   Selection

	viewW, viewH int
	sized        bool

	// render cache
	base         render.Surface
	baseW, baseH int
	offset       int
	lazyReset    bool

	// interaction transients
	pointer  r2.Vec
	band     *bandRect
	zoomBand *bandRect
	preview  *edgePreview
	dragID   string
	dragFrom r2.Vec
	moved    bool
	savedPos graphstore.VecMap
	newMoved bool

	pinchScale float64
	rotAngle   float64
	touchLast  r2.Vec

	opts      Options
	observers []Observer
}

// cacheFactor oversizes the cache surface relative to the viewport.
const cacheFactor = 3

// New returns an editor over the given document. ren may be nil for a
// headless editor; frames are then skipped but all interaction and
// selection logic still runs, which the tests rely on.
func New(doc *graphstore.Document, ren render.Renderer, opts Options) *Editor {
	return &Editor{
		log:   logger.Named("canvas"),
		doc:   doc,
		scene: scene.NewScene(doc.VertexLabels, doc.EdgeLabels),
		ren:   ren,
		cam:   NewCamera(),
		sel:   newSelection(),
		opts:  opts.withDefaults(),
	}
}

// Document returns the edited document.
func (e *Editor) Document() *graphstore.Document {
	return e.doc
}

// Scene returns the live visual properties.
func (e *Editor) Scene() *scene.Scene {
	return e.scene
}

// Camera returns the current transform stack, for session persistence.
func (e *Editor) Camera() Camera {
	return e.cam
}

// SetCamera restores a persisted transform stack and forces a full cache
// reset on the next paint.
func (e *Editor) SetCamera(c Camera) {
	if c.Scale <= 0 {
		c.Scale = 1
	}
	e.cam = c
	e.lazyReset = true
}

// Selection returns the live selection state. Callers must not mutate it.
func (e *Editor) Selection() *Selection {
	return &e.sel
}

// EditMode returns the active mode.
func (e *Editor) EditMode() EditMode {
	return e.mode
}

// SetEditMode switches between select, place-node and place-edge.
func (e *Editor) SetEditMode(mode EditMode) {
	e.mode = mode
}

// Subscribe registers an observer for the editor's outbound events.
func (e *Editor) Subscribe(o Observer) {
	e.observers = append(e.observers, o)
}

func (e *Editor) requestRepaint() {
	for _, o := range e.observers {
		o.RepaintRequested()
	}
}

func (e *Editor) emitPickedChanged() {
	for _, o := range e.observers {
		o.PickedChanged()
	}
	e.requestRepaint()
}

// emitGraphChanged is the single emission point after every mutation.
// Structural changes refresh the parallel-edge control points and force a
// complete cache regeneration before observers run, so a stale partial
// frame can never show a mutated graph.
func (e *Editor) emitGraphChanged(structural bool) {
	if structural {
		e.scene.RefreshControlOffsets(e.doc.Store, e.cam.Scale)
		e.regenerate(true, true)
	}
	for _, o := range e.observers {
		o.GraphChanged(structural)
	}
	e.requestRepaint()
}

// rebuildIndex reconstructs the spatial index from scratch. Graphs with
// fewer than two vertices carry no index; a degenerate layout is recovered
// by running a fresh force-directed pass first.
func (e *Editor) rebuildIndex() {
	e.index = nil
	ids := e.doc.Store.Vertices()
	if len(ids) < 2 {
		return
	}
	if layout.Degenerate(e.doc.Pos, ids) {
		e.log.Debugw("degenerate layout, recomputing before indexing",
			"vertices", len(ids))
		for id, p := range layout.ForceDirected(e.doc.Store, e.opts.LayoutSeed) {
			e.doc.Pos[id] = p
		}
	}
	idx, err := spatial.New(ids, e.doc.Pos)
	if err != nil {
		e.log.Warnw("spatial index rebuild failed", "error", err)
		return
	}
	e.index = idx
}

// moveVertex stores a new position, keeping the index bins consistent.
func (e *Editor) moveVertex(id string, p r2.Vec) {
	if e.index != nil {
		e.index.Move(id, p)
	} else {
		e.doc.Pos[id] = p
	}
}

// hitAt resolves a model-space point to the vertex whose hit disc covers
// it, preferring the closest when discs overlap. A miss is normal control
// flow and returns "".
func (e *Editor) hitAt(p r2.Vec) string {
	switch e.doc.Store.Order() {
	case 0:
		return ""
	case 1:
		id := e.doc.Store.Vertices()[0]
		if e.hitTest(id, p) < 0 {
			return ""
		}
		return id
	}
	if e.index == nil {
		e.rebuildIndex()
		if e.index == nil {
			return ""
		}
	}
	best := ""
	bestDist := math.Inf(1)
	for _, id := range e.index.Nearby(p) {
		if d := e.hitTest(id, p); d >= 0 && d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}

// hitTest returns the squared model distance to a vertex when p falls
// inside its hit disc and -1 otherwise. Ink sizes are device pixels, so
// the vertex size is divided by the view scale before comparing.
func (e *Editor) hitTest(id string, p r2.Vec) float64 {
	v, ok := e.doc.Pos[id]
	if !ok {
		return -1
	}
	dx, dy := p.X-v.X, p.Y-v.Y
	d := dx*dx + dy*dy
	size := e.scene.Vertex.Size.At(id) / e.cam.Scale
	if d*3 < size*size {
		return d
	}
	return -1
}

// markPolygon marks every vertex inside a model-space polygon, through
// the grid when one exists and by direct scan otherwise.
func (e *Editor) markPolygon(poly geom.Polygon, out graphstore.FlagMap) {
	if e.index != nil {
		e.index.MarkPolygon(poly, out)
		return
	}
	for _, vid := range e.doc.Store.Vertices() {
		if p, ok := e.doc.Pos[vid]; ok && poly.Contains(p) {
			out.Set(vid, true)
		}
	}
}

// SelectionSnapshot returns the pick kind and sorted selected element
// ids, for the shell's side lists.
func (e *Editor) SelectionSnapshot() (PickKind, []string, []string) {
	vs := e.sel.vertices.IDs()
	es := e.sel.edges.IDs()
	sort.Strings(vs)
	sort.Strings(es)
	return e.sel.kind, vs, es
}

// ConnectedVertices returns the pool of vertices adjacent to an
// edge-typed selection, sorted. Empty under other pick kinds.
func (e *Editor) ConnectedVertices() []string {
	if !e.sel.kind.EdgeTyped() {
		return nil
	}
	ids := e.sel.highlight.IDs()
	sort.Strings(ids)
	return ids
}

// ConnectedEdges returns the pool of edges adjacent to a vertex-typed
// selection in insertion order. Empty under other pick kinds.
func (e *Editor) ConnectedEdges() []string {
	if !e.sel.kind.VertexTyped() {
		return nil
	}
	conn := e.sel.connectedEdges(e.doc.Store)
	var out []string
	for _, eid := range e.doc.Store.Edges() {
		if conn.Has(eid) {
			out = append(out, eid)
		}
	}
	return out
}

// SetPrepicked marks the element hovered in a shell side list. Purely
// visual; never persisted.
func (e *Editor) SetPrepicked(kind PickKind, id string) {
	if kind != PickVertex && kind != PickEdge {
		return
	}
	e.sel.prepickKind = kind
	e.sel.prepickID = id
	e.requestRepaint()
}

// ClearPrepicked drops the hover mark.
func (e *Editor) ClearPrepicked() {
	e.sel.prepickKind = PickNone
	e.sel.prepickID = ""
	e.requestRepaint()
}

// SetPreselected toggles one element's preselection mark. The element
// must belong to the connected pool, the kind opposite the current pick;
// anything else is silently ignored. The map collapses to nil when the
// last mark clears.
func (e *Editor) SetPreselected(kind PickKind, id string, on bool) {
	switch kind {
	case PickVertex:
		if !e.sel.kind.EdgeTyped() || (on && !e.sel.highlight.Has(id)) {
			return
		}
		if e.sel.preVertices == nil {
			if !on {
				return
			}
			e.sel.preVertices = make(graphstore.FlagMap)
		}
		e.sel.preVertices.Set(id, on)
		if !e.sel.preVertices.Any() {
			e.sel.preVertices = nil
		}
	case PickEdge:
		if !e.sel.kind.VertexTyped() || (on && !e.sel.connectedEdges(e.doc.Store).Has(id)) {
			return
		}
		if e.sel.preEdges == nil {
			if !on {
				return
			}
			e.sel.preEdges = make(graphstore.FlagMap)
		}
		e.sel.preEdges.Set(id, on)
		if !e.sel.preEdges.Any() {
			e.sel.preEdges = nil
		}
	default:
		return
	}
	e.requestRepaint()
}

// SelectAllPreselected preselects the whole connected pool or clears the
// preselection back to nil, driving the shell's tri-state checkbox.
func (e *Editor) SelectAllPreselected(on bool) {
	switch {
	case e.sel.kind.EdgeTyped():
		if on {
			pool := e.sel.highlight.Clone()
			if pool.Any() {
				e.sel.preVertices = pool
			}
		} else {
			e.sel.preVertices = nil
		}
	case e.sel.kind.VertexTyped():
		if on {
			pool := e.sel.connectedEdges(e.doc.Store)
			if pool.Any() {
				e.sel.preEdges = pool
			}
		} else {
			e.sel.preEdges = nil
		}
	default:
		return
	}
	e.requestRepaint()
}

// ConfirmPreselection promotes the preselected connected elements to the
// primary selection, flipping the pick kind. With no compatible
// preselection it is a silent no-op.
func (e *Editor) ConfirmPreselection() {
	switch {
	case e.sel.kind.EdgeTyped() && e.sel.preVertices != nil:
		e.sel.vertices = e.sel.preVertices
		e.sel.preVertices = nil
		e.sel.preEdges = nil
		e.sel.setVertexPick()
	case e.sel.kind.VertexTyped() && e.sel.preEdges != nil:
		e.sel.edges = e.sel.preEdges
		e.sel.preEdges = nil
		e.sel.preVertices = nil
		e.sel.setEdgePick()
	default:
		return
	}
	e.sel.derive(e.doc.Store)
	e.emitPickedChanged()
}

// RemovePreselected deletes the preselected elements from the graph.
// Edges are removed by identity, so one of several parallel edges can be
// deleted unambiguously; vertex removal rebuilds the spatial index.
func (e *Editor) RemovePreselected() {
	removed := false
	if e.sel.kind.VertexTyped() && e.sel.preEdges != nil {
		for eid := range e.sel.preEdges {
			if err := e.doc.RemoveEdge(eid); err != nil {
				e.log.Warnw("remove preselected edge", "edge", eid, "error", err)
			}
		}
		e.sel.preEdges = nil
		removed = true
	}
	if e.sel.kind.EdgeTyped() && e.sel.preVertices != nil {
		hadIndex := e.doc.Store.Order() >= 2
		for vid := range e.sel.preVertices {
			if err := e.doc.RemoveVertex(vid); err != nil {
				e.log.Warnw("remove preselected vertex", "vertex", vid, "error", err)
			}
		}
		e.sel.preVertices = nil
		if hadIndex {
			e.rebuildIndex()
		}
		removed = true
	}
	if !removed {
		return
	}
	if e.sel.pruneRemoved(e.doc.Store) {
		e.emitPickedChanged()
	}
	e.emitGraphChanged(true)
}

// MergeParallelEdges collapses parallel edges, concatenating labels with
// the separator, and returns the number of edges removed. Idempotent.
func (e *Editor) MergeParallelEdges(labelSep string) int {
	n := e.doc.MergeParallelEdges(labelSep)
	if n == 0 {
		return 0
	}
	e.log.Debugw("merged parallel edges", "removed", n)
	if e.sel.pruneRemoved(e.doc.Store) {
		e.emitPickedChanged()
	}
	e.emitGraphChanged(true)
	return n
}

// ClearPick drops the selection, preselection and highlight entirely.
func (e *Editor) ClearPick() {
	e.sel.clearPick()
	e.sel.derive(e.doc.Store)
	e.emitPickedChanged()
}

// PickVertexID makes a single vertex the primary selection.
func (e *Editor) PickVertexID(id string) {
	if !e.doc.Store.HasVertex(id) {
		return
	}
	e.sel.vertices.Clear()
	e.sel.vertices[id] = true
	e.sel.setVertexPick()
	e.sel.derive(e.doc.Store)
	e.emitPickedChanged()
}

// PickEdgeID makes a single edge the primary selection.
func (e *Editor) PickEdgeID(id string) {
	if !e.doc.Store.HasEdge(id) {
		return
	}
	e.sel.edges.Clear()
	e.sel.edges[id] = true
	e.sel.setEdgePick()
	e.sel.derive(e.doc.Store)
	e.emitPickedChanged()
}

// FitToWindow computes the transform that centers the given vertex subset
// (all vertices when nil or empty) at the configured viewport fraction,
// inflating the bounding box by marker radii, pen widths and label
// extents, then folds it into T.
func (e *Editor) FitToWindow(subset graphstore.FlagMap) {
	if e.viewW < 1 || e.viewH < 1 {
		return
	}
	ids := e.doc.Store.Vertices()
	if subset != nil && subset.Any() {
		ids = subset.IDs()
	}
	view := e.cam.View()
	var (
		box   geom.Rect
		found bool
	)
	for _, id := range ids {
		p, ok := e.doc.Pos[id]
		if !ok {
			continue
		}
		d := view.Apply(p)
		pad := e.scene.Vertex.Size.At(id)/2*e.scene.Vertex.HaloSize +
			e.scene.Vertex.PenWidth.At(id)
		padX, padY := pad, pad
		if txt := e.scene.Vertex.Text.At(id); txt != "" && e.ren != nil {
			tw, th := e.ren.TextExtents(txt, e.scene.Vertex.FontSize)
			padX = math.Max(padX, tw/2)
			padY = math.Max(padY, th/2)
		}
		r := geom.Rect{
			Min: r2.Vec{X: d.X - padX, Y: d.Y - padY},
			Max: r2.Vec{X: d.X + padX, Y: d.Y + padY},
		}
		if !found {
			box, found = r, true
		} else {
			box = box.Union(r)
		}
	}
	if !found {
		return
	}
	zoom := math.Inf(1)
	if box.Width() > 0 {
		zoom = e.opts.FitFraction * float64(e.viewW) / box.Width()
	}
	if box.Height() > 0 {
		zoom = math.Min(zoom, e.opts.FitFraction*float64(e.viewH)/box.Height())
	}
	if math.IsInf(zoom, 1) {
		zoom = 1
	}
	c := box.Center()
	m := geom.Scaling(zoom).Then(geom.Translation(
		float64(e.viewW)/2-c.X*zoom,
		float64(e.viewH)/2-c.Y*zoom,
	))
	e.cam.Fold(m, zoom)
}
