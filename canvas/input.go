package canvas

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/geom"
)

// scrollPanStep is the device-pixel pan per wheel step.
const scrollPanStep = 10

// zoomFactor maps one wheel step to an anchored zoom factor. The two
// directions use different curves on purpose: zooming in accelerates with
// the step size while zooming out saturates, which keeps fast outward
// flicks from overshooting past the graph.
func zoomFactor(delta float64) float64 {
	if delta > 0 {
		return 1 + (1/0.9-1)*delta
	}
	return 1 / (1 - delta/9)
}

// PointerDown handles a button press. Secondary always cancels; primary
// starts at most one gesture, decided by modifiers first and edit mode
// second. Presses during a touch gesture are dropped.
func (e *Editor) PointerDown(ev PointerEvent) {
	if e.state.touchGesture() {
		return
	}
	if ev.Button == ButtonSecondary {
		e.cancel()
		return
	}
	if ev.Button != ButtonPrimary || e.state != stateIdle {
		return
	}
	// With nothing placed there is nothing to hit, band, pan or connect.
	if e.doc.Store.Order() == 0 && e.mode != ModePlaceNode {
		return
	}
	e.pointer = ev.Pos
	model := e.cam.DeviceToModel(ev.Pos)

	switch {
	case ev.Ctrl:
		e.zoomBand = &bandRect{a: ev.Pos, b: ev.Pos}
		e.state = stateZoomRect
		e.requestRepaint()

	case ev.Shift:
		// The band anchors on every shift press, hit or not; a hit
		// vertex additionally toggles in the selection. An edge-typed
		// pick demotes first: the toggle starts from an empty vertex
		// set, not the derived endpoint closure.
		if hit := e.hitAt(model); hit != "" {
			if e.sel.kind.EdgeTyped() {
				e.sel.vertices.Clear()
			}
			if e.sel.vertices.Has(hit) {
				delete(e.sel.vertices, hit)
			} else {
				e.sel.vertices[hit] = true
			}
			e.sel.setVertexPick()
			e.sel.derive(e.doc.Store)
			e.emitPickedChanged()
		}
		e.band = &bandRect{a: ev.Pos, b: ev.Pos}
		e.state = stateRubberBand
		e.requestRepaint()

	default:
		switch e.mode {
		case ModeSelect:
			e.pressSelect(model)
		case ModePlaceNode:
			e.pressPlaceNode(model)
		case ModePlaceEdge:
			e.pressPlaceEdge(model)
		}
	}
}

func (e *Editor) pressSelect(model r2.Vec) {
	hit := e.hitAt(model)
	if hit == "" {
		e.state = statePanning
		return
	}
	if !e.sel.kind.VertexTyped() || !e.sel.vertices.Has(hit) {
		e.sel.vertices.Clear()
		e.sel.vertices[hit] = true
		e.sel.setVertexPick()
		e.sel.derive(e.doc.Store)
		e.emitPickedChanged()
	}
	e.beginMove(hit, model, false)
}

func (e *Editor) pressPlaceNode(model r2.Vec) {
	id := e.doc.AddVertexAt(model)
	e.scene.AdjustDefaultSizes(e.doc.Store.Order(),
		float64(e.viewW), float64(e.viewH), e.doc.HasLabels(), true)
	e.rebuildIndex()
	e.sel.vertices.Clear()
	e.sel.vertices[id] = true
	e.sel.setVertexPick()
	e.sel.derive(e.doc.Store)
	e.emitPickedChanged()
	e.beginMove(id, model, true)
	e.emitGraphChanged(true)
}

func (e *Editor) pressPlaceEdge(model r2.Vec) {
	hit := e.hitAt(model)
	if hit == "" {
		return
	}
	e.preview = &edgePreview{source: hit, end: model}
	e.state = statePlacingEdge
	e.requestRepaint()
}

// beginMove snapshots the positions of every selected vertex so a cancel
// can restore them. The whole selection moves together.
func (e *Editor) beginMove(hit string, model r2.Vec, isNew bool) {
	e.savedPos = make(map[string]r2.Vec, e.sel.vertices.Count())
	for vid := range e.sel.vertices {
		if p, ok := e.doc.Pos[vid]; ok {
			e.savedPos[vid] = p
		}
	}
	e.dragID = hit
	e.dragFrom = model
	e.moved = false
	e.newMoved = isNew
	e.state = stateMoving
}

// PointerMove handles a motion sample for whatever gesture is active.
func (e *Editor) PointerMove(ev PointerEvent) {
	if e.state.touchGesture() {
		return
	}
	prev := e.pointer
	e.pointer = ev.Pos

	switch e.state {
	case stateRubberBand:
		e.band.b = ev.Pos
		e.requestRepaint()

	case stateZoomRect:
		e.zoomBand.b = ev.Pos
		e.requestRepaint()

	case statePlacingEdge:
		e.preview.end = e.cam.DeviceToModel(ev.Pos)
		e.requestRepaint()

	case stateMoving:
		model := e.cam.DeviceToModel(ev.Pos)
		d := r2.Vec{X: model.X - e.dragFrom.X, Y: model.Y - e.dragFrom.Y}
		if d.X != 0 || d.Y != 0 {
			e.moved = true
		}
		for vid, p := range e.savedPos {
			e.moveVertex(vid, r2.Vec{X: p.X + d.X, Y: p.Y + d.Y})
		}
		e.lazyReset = true
		e.requestRepaint()

	case statePanning:
		e.cam.Pan(r2.Vec{X: ev.Pos.X - prev.X, Y: ev.Pos.Y - prev.Y})
		e.requestRepaint()
	}
}

// PointerUp commits the active gesture.
func (e *Editor) PointerUp(ev PointerEvent) {
	if e.state.touchGesture() || ev.Button != ButtonPrimary {
		return
	}
	switch e.state {
	case stateRubberBand:
		e.finishRubberBand()

	case stateZoomRect:
		e.finishZoomRect()

	case statePlacingEdge:
		e.finishPlaceEdge(ev.Pos)

	case stateMoving:
		e.finishMove()

	case statePanning:
		e.state = stateIdle
	}
}

// finishRubberBand marks every vertex inside the band into the selection.
// Marking is additive; the pick only re-fires when the count changed.
func (e *Editor) finishRubberBand() {
	r := e.band.rect()
	var poly geom.Polygon
	for _, c := range r.Corners() {
		poly = append(poly, e.cam.DeviceToModel(c))
	}
	demoted := false
	if e.sel.kind.EdgeTyped() {
		demoted = e.sel.vertices.Any()
		e.sel.vertices.Clear()
	}
	before := e.sel.vertices.Count()
	e.markPolygon(poly, e.sel.vertices)
	if demoted || e.sel.vertices.Count() != before {
		e.sel.setVertexPick()
		e.sel.derive(e.doc.Store)
		e.emitPickedChanged()
	}
	e.band = nil
	e.state = stateIdle
	e.requestRepaint()
}

// finishZoomRect zooms so the dragged rectangle fills the viewport and
// recenters it. A degenerate axis contributes no zoom.
func (e *Editor) finishZoomRect() {
	r := e.zoomBand.rect()
	e.zoomBand = nil
	e.state = stateIdle

	zoom := 1.0
	if r.Width() > 0 && r.Height() > 0 {
		zoom = min(float64(e.viewW)/r.Width(), float64(e.viewH)/r.Height())
	}
	c := r.Center()
	e.cam.ZoomAt(zoom, c)
	e.cam.Pan(r2.Vec{X: float64(e.viewW)/2 - c.X, Y: float64(e.viewH)/2 - c.Y})
	e.scene.RefreshControlOffsets(e.doc.Store, e.cam.Scale)
	e.lazyReset = true
	e.requestRepaint()
}

// finishPlaceEdge commits the preview when release lands on a vertex;
// self-loops are allowed. The graph-changed event fires either way,
// matching the preview teardown's repaint needs.
func (e *Editor) finishPlaceEdge(pos r2.Vec) {
	source := e.preview.source
	e.preview = nil
	e.state = stateIdle

	if hit := e.hitAt(e.cam.DeviceToModel(pos)); hit != "" {
		if _, err := e.doc.AddEdge(source, hit); err != nil {
			e.log.Warnw("place edge", "from", source, "to", hit, "error", err)
		}
	}
	e.emitGraphChanged(true)
}

// finishMove commits a drag, or collapses a plain click on a selected
// vertex down to that vertex.
func (e *Editor) finishMove() {
	e.state = stateIdle
	e.savedPos = nil
	if e.moved || e.newMoved {
		e.emitGraphChanged(true)
		return
	}
	if e.sel.vertices.Count() != 1 || !e.sel.vertices.Has(e.dragID) {
		e.sel.vertices.Clear()
		e.sel.vertices[e.dragID] = true
		e.sel.setVertexPick()
		e.sel.derive(e.doc.Store)
		e.emitPickedChanged()
	}
}

// cancel aborts the in-progress interaction on secondary press. Strict
// priority, only the first applicable step fires: an active move rolls
// back, then the bands, then the edge preview, and with nothing in
// flight the selection clears.
func (e *Editor) cancel() {
	switch {
	case e.state == stateMoving:
		if e.newMoved {
			if err := e.doc.RemoveVertex(e.dragID); err != nil {
				e.log.Warnw("cancel placement", "vertex", e.dragID, "error", err)
			}
			e.rebuildIndex()
			e.savedPos = nil
			e.state = stateIdle
			e.sel.pruneRemoved(e.doc.Store)
			e.emitPickedChanged()
			e.emitGraphChanged(true)
			return
		}
		for vid, p := range e.savedPos {
			e.moveVertex(vid, p)
		}
		e.savedPos = nil
		e.state = stateIdle
		e.lazyReset = true
		e.requestRepaint()

	case e.state == stateRubberBand:
		e.band = nil
		e.state = stateIdle
		e.requestRepaint()

	case e.state == stateZoomRect:
		e.zoomBand = nil
		e.state = stateIdle
		e.requestRepaint()

	case e.state == statePlacingEdge:
		e.preview = nil
		e.state = stateIdle
		e.requestRepaint()

	case e.sel.kind != PickNone:
		e.ClearPick()
	}
}

// Scroll dispatches one wheel step: ctrl zooms at the pointer, shift pans
// horizontally, a step over a selected or highlighted vertex cycles its
// incident edges, and anything else pans vertically.
func (e *Editor) Scroll(ev ScrollEvent) {
	if e.state.touchGesture() {
		return
	}
	switch {
	case ev.Ctrl:
		e.cam.ZoomAt(zoomFactor(ev.Delta), ev.Pos)
		e.scene.RefreshControlOffsets(e.doc.Store, e.cam.Scale)
		e.lazyReset = true
		e.requestRepaint()

	case ev.Shift:
		e.cam.Pan(r2.Vec{X: -scrollPanStep * ev.Delta})
		e.requestRepaint()

	default:
		if e.sel.kind != PickNone {
			hit := e.hitAt(e.cam.DeviceToModel(ev.Pos))
			if hit != "" && (e.sel.vertices.Has(hit) || e.sel.highlight.Has(hit)) {
				e.cycleIncidentEdges(hit, ev.Delta > 0)
				return
			}
		}
		e.cam.Pan(r2.Vec{Y: -scrollPanStep * ev.Delta})
		e.requestRepaint()
	}
}

// cycleIncidentEdges walks the hovered vertex's incident edges, wrapping
// circularly. Entering the cycle lands on the first edge going forward
// and the last going backward; a current pick outside the pool behaves
// like entry.
func (e *Editor) cycleIncidentEdges(vid string, forward bool) {
	pool := e.doc.Store.IncidentEdges(vid)
	if len(pool) == 0 {
		return
	}
	cur := -1
	if e.sel.kind == PickEdge {
		for i, eid := range pool {
			if eid == e.sel.picked {
				cur = i
				break
			}
		}
	}
	var next int
	switch {
	case cur == -1 && forward:
		next = 0
	case cur == -1:
		next = len(pool) - 1
	case forward:
		next = (cur + 1) % len(pool)
	default:
		next = (cur - 1 + len(pool)) % len(pool)
	}
	e.sel.edges.Clear()
	e.sel.edges[pool[next]] = true
	e.sel.setEdgePick()
	e.sel.derive(e.doc.Store)
	e.emitPickedChanged()
}

// KeyPress handles plain key commands. 'z' fits the selected vertices
// (the whole graph when nothing is selected) into the viewport.
func (e *Editor) KeyPress(ev KeyEvent) {
	switch ev.Key {
	case 'z':
		var subset = e.sel.vertices
		if !e.sel.kind.VertexTyped() {
			subset = nil
		}
		e.FitToWindow(subset)
		e.scene.RefreshControlOffsets(e.doc.Store, e.cam.Scale)
		e.lazyReset = true
		e.requestRepaint()
	}
}

// PinchBegin starts a two-finger zoom. Refused while any other gesture
// runs; mouse events are dropped until PinchEnd.
func (e *Editor) PinchBegin() {
	if e.state != stateIdle {
		return
	}
	e.state = statePinch
	e.pinchScale = 1
}

// PinchUpdate applies the gesture's cumulative scale, anchored at its
// center. Ink scales along with the view so hit radii and stroke widths
// stay consistent after the end-of-gesture fold.
func (e *Editor) PinchUpdate(scale float64, center r2.Vec) {
	if e.state != statePinch || scale <= 0 {
		return
	}
	f := scale / e.pinchScale
	e.pinchScale = scale
	e.cam.PinchAt(f, center)
	e.scene.ScaleInk(f)
	e.requestRepaint()
}

// PinchEnd folds the pinched view into the cache transform.
func (e *Editor) PinchEnd() {
	if e.state != statePinch {
		return
	}
	e.state = stateIdle
	e.scene.RefreshControlOffsets(e.doc.Store, e.cam.Scale)
	e.lazyReset = true
	e.requestRepaint()
}

// RotateBegin starts a two-finger rotation.
func (e *Editor) RotateBegin() {
	if e.state != stateIdle {
		return
	}
	e.state = stateRotate
	e.rotAngle = 0
}

// RotateUpdate applies the cumulative gesture angle about its center.
func (e *Editor) RotateUpdate(angle float64, center r2.Vec) {
	if e.state != stateRotate {
		return
	}
	e.cam.RotateAt(angle-e.rotAngle, center)
	e.rotAngle = angle
	e.requestRepaint()
}

// RotateEnd folds the rotated view into the cache transform.
func (e *Editor) RotateEnd() {
	if e.state != stateRotate {
		return
	}
	e.state = stateIdle
	e.lazyReset = true
	e.requestRepaint()
}

// TouchPanBegin starts a single-finger drag, which clears the selection
// before panning.
func (e *Editor) TouchPanBegin(pos r2.Vec) {
	if e.state != stateIdle {
		return
	}
	e.state = stateTouchPan
	e.touchLast = pos
	if e.sel.kind != PickNone {
		e.sel.clearPick()
		e.sel.derive(e.doc.Store)
		e.emitPickedChanged()
	}
}

// TouchPanUpdate pans by the finger's movement since the last sample.
func (e *Editor) TouchPanUpdate(pos r2.Vec) {
	if e.state != stateTouchPan {
		return
	}
	e.cam.Pan(r2.Vec{X: pos.X - e.touchLast.X, Y: pos.Y - e.touchLast.Y})
	e.touchLast = pos
	e.requestRepaint()
}

// TouchPanEnd finishes a single-finger drag.
func (e *Editor) TouchPanEnd() {
	if e.state == stateTouchPan {
		e.state = stateIdle
	}
}
