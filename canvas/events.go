package canvas

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// EditMode selects what a primary button press does on the canvas.
type EditMode int

const (
	// ModeSelect picks, moves and rubber-band selects elements.
	ModeSelect EditMode = iota
	// ModePlaceNode creates a vertex on press and drags it until release.
	ModePlaceNode
	// ModePlaceEdge drags a new edge from a hit vertex to a hit vertex.
	ModePlaceEdge
)

// String returns the mode name used in config files and log fields.
func (m EditMode) String() string {
	switch m {
	case ModeSelect:
		return "select"
	case ModePlaceNode:
		return "place-node"
	case ModePlaceEdge:
		return "place-edge"
	default:
		return "unknown"
	}
}

// Button identifies a pointer button using the X11 numbering the original
// toolkit exposed: 1 is primary, 3 is secondary.
type Button int

const (
	// ButtonPrimary starts gestures: select, drag, place, pan.
	ButtonPrimary Button = 1
	// ButtonSecondary cancels whatever is in progress.
	ButtonSecondary Button = 3
)

// PointerEvent is a button press, release, or motion sample in viewport
// device coordinates. The shell adapts its toolkit events to this shape.
type PointerEvent struct {
	Pos    r2.Vec
	Button Button
	Shift  bool
	Ctrl   bool
}

// ScrollEvent is one wheel step. Delta follows the original convention:
// positive deltas scroll down, cycle forward, and zoom in.
type ScrollEvent struct {
	Pos   r2.Vec
	Delta float64
	Shift bool
	Ctrl  bool
}

// KeyEvent is a plain key press; modifiers arrive on pointer events.
type KeyEvent struct {
	Key rune
}

// Observer receives the editor's outbound events. Callbacks run
// synchronously on the editor's thread and must not re-enter the editor.
type Observer interface {
	// GraphChanged fires once after every mutation to topology or
	// positions. structural means the next hit-test needs a rebuilt
	// spatial index and the render cache was fully reset.
	GraphChanged(structural bool)

	// PickedChanged fires on every change that alters which elements
	// are selected.
	PickedChanged()

	// RepaintRequested fires when the composed frame is stale: after
	// interaction state changes and while incremental cache work
	// remains outstanding.
	RepaintRequested()
}

// gestureState is the single mutually-exclusive interaction state. Mouse
// gestures and touch gestures share it, so a pinch cannot start mid-drag
// and a press is ignored mid-pinch.
type gestureState int

const (
	stateIdle gestureState = iota
	stateRubberBand
	stateZoomRect
	statePlacingEdge
	stateMoving
	statePanning
	statePinch
	stateRotate
	stateTouchPan
)

func (s gestureState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateRubberBand:
		return "rubber-band"
	case stateZoomRect:
		return "zoom-rect"
	case statePlacingEdge:
		return "placing-edge"
	case stateMoving:
		return "moving"
	case statePanning:
		return "panning"
	case statePinch:
		return "pinch"
	case stateRotate:
		return "rotate"
	case stateTouchPan:
		return "touch-pan"
	default:
		return "unknown"
	}
}

// touchGesture reports whether the state is driven by a touch sequence,
// during which mouse events are dropped entirely.
func (s gestureState) touchGesture() bool {
	return s == statePinch || s == stateRotate || s == stateTouchPan
}
