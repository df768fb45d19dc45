package bridge

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/canvas"
	"github.com/teranos/easel/render"
	"github.com/teranos/easel/render/raster"
	"github.com/teranos/easel/session"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// defaultViewSize is the viewport until the peer sends its first resize.
const defaultViewSize = 800

// viewer is one WebSocket connection bound to one session. All editor
// access happens on the viewer's loop goroutine: the read pump only
// decodes and forwards, so a session is never driven concurrently.
type viewer struct {
	server *Server
	conn   *websocket.Conn
	log    *zap.SugaredLogger

	sess    *session.Session
	ed      *canvas.Editor
	ren     render.Renderer
	surface render.Surface

	events chan inboundMessage
	send   chan any
	done   chan struct{}

	limiter *rate.Limiter

	// Frame and selection staleness, set by the observer callbacks.
	// Only the loop goroutine drives the editor, so plain fields suffice.
	needFrame   bool
	needPicked  bool
	graphDirty  bool
	structDirty bool
}

func newViewer(s *Server, conn *websocket.Conn, sess *session.Session, fps int) *viewer {
	if fps < 1 {
		fps = 30
	}
	v := &viewer{
		server:  s,
		conn:    conn,
		log:     s.log.With("session", sess.ID),
		sess:    sess,
		ed:      sess.Editor,
		ren:     raster.New(),
		events:  make(chan inboundMessage, 256),
		send:    make(chan any, 64),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(rate.Limit(fps), 1),
	}
	v.ed.Subscribe(v)
	return v
}

// GraphChanged implements canvas.Observer.
func (v *viewer) GraphChanged(structural bool) {
	v.graphDirty = true
	v.structDirty = v.structDirty || structural
}

// PickedChanged implements canvas.Observer.
func (v *viewer) PickedChanged() {
	v.needPicked = true
}

// RepaintRequested implements canvas.Observer.
func (v *viewer) RepaintRequested() {
	v.needFrame = true
}

// run owns the editor until the connection drops: inbound events apply in
// arrival order, and a frame ticker flushes staleness at the configured
// rate.
func (v *viewer) run() {
	v.ed.Resize(defaultViewSize, defaultViewSize)
	v.surface = v.ren.NewSurface(defaultViewSize, defaultViewSize)
	v.needFrame = true

	v.queue(helloMessage{
		Type:     "hello",
		Session:  v.sess.ID,
		Document: v.sess.Name(),
		Mode:     v.ed.EditMode().String(),
	})

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for {
		select {
		case <-v.server.ctx.Done():
			return
		case <-v.done:
			return
		case msg := <-v.events:
			v.route(msg)
		case <-ticker.C:
			v.flush()
		}
	}
}

// flush sends whatever went stale since the last tick. Frames ride the
// rate limiter; selection and graph events always go out.
func (v *viewer) flush() {
	if v.needPicked {
		v.needPicked = false
		v.queue(v.pickedMessage())
	}
	if v.graphDirty {
		store := v.sess.Doc.Store
		v.queue(graphMessage{
			Type:       "graph",
			Session:    v.sess.ID,
			Vertices:   store.Order(),
			Edges:      store.Size(),
			Structural: v.structDirty,
			Dirty:      v.sess.Dirty(),
		})
		v.graphDirty = false
		v.structDirty = false
	}
	if v.needFrame && v.limiter.Allow() {
		v.needFrame = false
		v.sendFrame()
	}
}

func (v *viewer) sendFrame() {
	w, h := v.surface.Size()
	v.ed.Draw(v.surface)

	var buf bytes.Buffer
	if err := raster.EncodePNG(v.surface, &buf); err != nil {
		v.log.Warnw("frame encoding failed", "error", err)
		return
	}
	v.queue(frameMessage{
		Type:   "frame",
		Width:  w,
		Height: h,
		PNG:    base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}

func (v *viewer) pickedMessage() pickedMessage {
	kind, vs, es := v.ed.SelectionSnapshot()
	return pickedMessage{
		Type:              "picked",
		Kind:              kind.String(),
		Vertices:          vs,
		Edges:             es,
		ConnectedVertices: v.ed.ConnectedVertices(),
		ConnectedEdges:    v.ed.ConnectedEdges(),
	}
}

// route applies one inbound message to the editor.
func (v *viewer) route(msg inboundMessage) {
	pos := r2.Vec{X: msg.X, Y: msg.Y}
	switch msg.Type {
	case "pointer_down":
		v.ed.PointerDown(pointerEvent(msg))
	case "pointer_up":
		v.ed.PointerUp(pointerEvent(msg))
	case "pointer_move":
		v.ed.PointerMove(pointerEvent(msg))
	case "scroll":
		v.ed.Scroll(canvas.ScrollEvent{Pos: pos, Delta: msg.Delta, Shift: msg.Shift, Ctrl: msg.Ctrl})
	case "key":
		if rs := []rune(msg.Key); len(rs) > 0 {
			v.ed.KeyPress(canvas.KeyEvent{Key: rs[0]})
		}
	case "pinch_begin":
		v.ed.PinchBegin()
	case "pinch_update":
		v.ed.PinchUpdate(msg.Scale, pos)
	case "pinch_end":
		v.ed.PinchEnd()
	case "rotate_begin":
		v.ed.RotateBegin()
	case "rotate_update":
		v.ed.RotateUpdate(msg.Angle, pos)
	case "rotate_end":
		v.ed.RotateEnd()
	case "touch_pan_begin":
		v.ed.TouchPanBegin(pos)
	case "touch_pan_update":
		v.ed.TouchPanUpdate(pos)
	case "touch_pan_end":
		v.ed.TouchPanEnd()

	case "resize":
		if msg.Width > 0 && msg.Height > 0 {
			v.ed.Resize(msg.Width, msg.Height)
			v.surface = v.ren.NewSurface(msg.Width, msg.Height)
			v.needFrame = true
		}

	case "set_edit_mode":
		v.ed.SetEditMode(editModeByName(msg.Mode))
	case "clear_pick":
		v.ed.ClearPick()
	case "fit":
		v.ed.KeyPress(canvas.KeyEvent{Key: 'z'})
	case "snapshot":
		v.queue(v.pickedMessage())

	case "set_preselected":
		v.ed.SetPreselected(pickKindByName(msg.Kind), msg.ID, msg.On)
	case "select_all_preselected":
		v.ed.SelectAllPreselected(msg.On)
	case "confirm_preselection":
		v.ed.ConfirmPreselection()
	case "remove_preselected":
		v.ed.RemovePreselected()
	case "set_prepicked":
		v.ed.SetPrepicked(pickKindByName(msg.Kind), msg.ID)
	case "clear_prepicked":
		v.ed.ClearPrepicked()
	case "merge_parallel_edges":
		sep := msg.Separator
		if sep == "" {
			sep = ", "
		}
		v.ed.MergeParallelEdges(sep)

	case "ping":
		// Deadline refresh only, handled by the pong handler.
	default:
		v.log.Debugw("unknown message type", "type", msg.Type)
		v.queue(errorMessage{Type: "error", Error: "unknown message type " + msg.Type})
	}
}

func pointerEvent(msg inboundMessage) canvas.PointerEvent {
	return canvas.PointerEvent{
		Pos:    r2.Vec{X: msg.X, Y: msg.Y},
		Button: canvas.Button(msg.Button),
		Shift:  msg.Shift,
		Ctrl:   msg.Ctrl,
	}
}

func editModeByName(name string) canvas.EditMode {
	switch name {
	case canvas.ModePlaceNode.String():
		return canvas.ModePlaceNode
	case canvas.ModePlaceEdge.String():
		return canvas.ModePlaceEdge
	default:
		return canvas.ModeSelect
	}
}

func pickKindByName(name string) canvas.PickKind {
	switch name {
	case "vertex":
		return canvas.PickVertex
	case "edge":
		return canvas.PickEdge
	default:
		return canvas.PickNone
	}
}

// queue hands a message to the write pump without blocking the loop.
func (v *viewer) queue(msg any) {
	select {
	case v.send <- msg:
	default:
		v.log.Warnw("send channel full, dropping message")
	}
}

// readPump decodes inbound messages and forwards them to the loop.
func (v *viewer) readPump() {
	defer func() {
		close(v.done)
		v.conn.Close()
	}()

	v.conn.SetReadLimit(maxMessageSize)
	v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		v.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := v.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNoStatusReceived,
			) {
				v.log.Warnw("websocket read error", "error", err)
			}
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			v.log.Warnw("json unmarshal error", "error", err)
			continue
		}
		select {
		case v.events <- msg:
		default:
			v.log.Warnw("event channel full, dropping input", "type", msg.Type)
		}
	}
}

// writePump serializes outbound messages and keeps the connection alive
// with pings.
func (v *viewer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()

	for {
		select {
		case <-v.server.ctx.Done():
			return
		case <-v.done:
			return
		case msg := <-v.send:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteJSON(msg); err != nil {
				v.log.Warnw("websocket write error", "error", err)
				return
			}
		case <-ticker.C:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
