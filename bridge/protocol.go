package bridge

// inboundMessage is one viewer-to-bridge message. Type selects the
// operation; the remaining fields are read per type and ignored
// otherwise. Coordinates are viewport device pixels, matching the
// editor's pointer events.
type inboundMessage struct {
	Type string `json:"type"`

	// pointer_down, pointer_up, pointer_move, scroll, pinch_update,
	// rotate_update, touch_pan_*
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// pointer_*
	Button int  `json:"button,omitempty"`
	Shift  bool `json:"shift,omitempty"`
	Ctrl   bool `json:"ctrl,omitempty"`

	// scroll
	Delta float64 `json:"delta,omitempty"`

	// key
	Key string `json:"key,omitempty"`

	// pinch_update, rotate_update
	Scale float64 `json:"scale,omitempty"`
	Angle float64 `json:"angle,omitempty"`

	// resize
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// set_edit_mode
	Mode string `json:"mode,omitempty"`

	// set_preselected, set_prepicked: kind is "vertex" or "edge"
	Kind string `json:"kind,omitempty"`
	ID   string `json:"id,omitempty"`
	On   bool   `json:"on,omitempty"`

	// merge_parallel_edges
	Separator string `json:"separator,omitempty"`
}

// frameMessage carries one composed frame as base64 PNG.
type frameMessage struct {
	Type   string `json:"type"` // "frame"
	Width  int    `json:"width"`
	Height int    `json:"height"`
	PNG    string `json:"png"`
}

// pickedMessage mirrors the editor's selection snapshot plus the
// connected-element pools the side lists show.
type pickedMessage struct {
	Type              string   `json:"type"` // "picked"
	Kind              string   `json:"kind"`
	Vertices          []string `json:"vertices"`
	Edges             []string `json:"edges"`
	ConnectedVertices []string `json:"connected_vertices"`
	ConnectedEdges    []string `json:"connected_edges"`
}

// graphMessage reports the document shape after a mutation.
type graphMessage struct {
	Type       string `json:"type"` // "graph"
	Session    string `json:"session"`
	Vertices   int    `json:"vertices"`
	Edges      int    `json:"edges"`
	Structural bool   `json:"structural"`
	Dirty      bool   `json:"dirty"`
}

// helloMessage is the first message after the upgrade, identifying the
// bound session.
type helloMessage struct {
	Type     string `json:"type"` // "hello"
	Session  string `json:"session"`
	Document string `json:"document"`
	Mode     string `json:"mode"`
}

// errorMessage reports a rejected operation without closing the socket.
type errorMessage struct {
	Type  string `json:"type"` // "error"
	Error string `json:"error"`
}
