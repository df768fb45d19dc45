package canvas

import (
	"github.com/teranos/easel/graphstore"
)

// PickKind tags the primary selection anchor. Consumers switch over the
// tag; there is no other type inspection.
type PickKind int

const (
	// PickNone means nothing is selected.
	PickNone PickKind = iota
	// PickVertex is a single picked vertex.
	PickVertex
	// PickEdge is a single picked edge.
	PickEdge
	// PickVertices is a homogeneous set of picked vertices.
	PickVertices
	// PickEdges is a homogeneous set of picked edges.
	PickEdges
)

func (k PickKind) String() string {
	switch k {
	case PickNone:
		return "none"
	case PickVertex:
		return "vertex"
	case PickEdge:
		return "edge"
	case PickVertices:
		return "vertices"
	case PickEdges:
		return "edges"
	default:
		return "unknown"
	}
}

// VertexTyped reports whether vertex rules apply to the pick.
func (k PickKind) VertexTyped() bool {
	return k == PickVertex || k == PickVertices
}

// EdgeTyped reports whether edge rules apply to the pick.
func (k PickKind) EdgeTyped() bool {
	return k == PickEdge || k == PickEdges
}

// Selection holds the layered selection state of one editor session.
//
// One of the two selected maps is primary, decided by the pick kind; the
// other is always derived from it: a vertex-typed pick induces the edge
// set with both endpoints selected, an edge-typed pick induces the
// endpoint closure. highlight is the strictly-adjacent unselected
// neighborhood, the "connected" halo.
//
// Preselection is the tentative subset of the connected pool (the
// opposite kind to the pick) awaiting confirmation or deletion. A
// preselection map is nil, never empty, when nothing is preselected; the
// shell's tri-state select-all logic depends on that distinction.
type Selection struct {
	kind   PickKind
	picked string // element id when kind is PickVertex or PickEdge

	vertices  graphstore.FlagMap
	edges     graphstore.FlagMap
	highlight graphstore.FlagMap

	preVertices graphstore.FlagMap
	preEdges    graphstore.FlagMap

	prepickKind PickKind // PickVertex, PickEdge or PickNone
	prepickID   string
}

func newSelection() Selection {
	return Selection{
		vertices:  make(graphstore.FlagMap),
		edges:     make(graphstore.FlagMap),
		highlight: make(graphstore.FlagMap),
	}
}

// Kind returns the pick tag.
func (s *Selection) Kind() PickKind {
	return s.kind
}

// PickedID returns the picked element id for single-element picks and ""
// otherwise.
func (s *Selection) PickedID() string {
	return s.picked
}

// SelectedVertices exposes the live selected-vertex marks. Callers must
// not mutate the map.
func (s *Selection) SelectedVertices() graphstore.FlagMap {
	return s.vertices
}

// SelectedEdges exposes the live selected-edge marks. Callers must not
// mutate the map.
func (s *Selection) SelectedEdges() graphstore.FlagMap {
	return s.edges
}

// Highlight exposes the derived strictly-adjacent vertex marks.
func (s *Selection) Highlight() graphstore.FlagMap {
	return s.highlight
}

// PreselectedVertices returns the preselected vertex marks, nil when none.
func (s *Selection) PreselectedVertices() graphstore.FlagMap {
	return s.preVertices
}

// PreselectedEdges returns the preselected edge marks, nil when none.
func (s *Selection) PreselectedEdges() graphstore.FlagMap {
	return s.preEdges
}

func (s *Selection) clearPick() {
	s.kind = PickNone
	s.picked = ""
}

func (s *Selection) setVertexPick() {
	switch s.vertices.Count() {
	case 0:
		s.clearPick()
	case 1:
		s.kind = PickVertex
		s.picked = s.vertices.IDs()[0]
	default:
		s.kind = PickVertices
		s.picked = ""
	}
}

func (s *Selection) setEdgePick() {
	switch s.edges.Count() {
	case 0:
		s.clearPick()
	case 1:
		s.kind = PickEdge
		s.picked = s.edges.IDs()[0]
	default:
		s.kind = PickEdges
		s.picked = ""
	}
}

// derive re-establishes every invariant after the primary map or the pick
// kind changed: the opposite map is recomputed, the highlight refreshed,
// and preselection pruned back to the connected pool.
func (s *Selection) derive(store *graphstore.Store) {
	switch {
	case s.kind.VertexTyped():
		s.edges.Clear()
		for _, eid := range store.Edges() {
			from, to, err := store.Endpoints(eid)
			if err == nil && s.vertices.Has(from) && s.vertices.Has(to) {
				s.edges[eid] = true
			}
		}
	case s.kind.EdgeTyped():
		s.vertices.Clear()
		for eid := range s.edges {
			from, to, err := store.Endpoints(eid)
			if err != nil {
				continue
			}
			s.vertices[from] = true
			s.vertices[to] = true
		}
	default:
		s.vertices.Clear()
		s.edges.Clear()
	}

	s.highlight.Clear()
	for vid := range s.vertices {
		for _, n := range store.Neighbors(vid) {
			if !s.vertices.Has(n) {
				s.highlight[n] = true
			}
		}
	}

	s.prunePreselection(store)
}

// prunePreselection intersects each preselection map with its connected
// pool and collapses empty maps to nil. Only the pool opposite the pick
// kind can hold preselection at all.
func (s *Selection) prunePreselection(store *graphstore.Store) {
	if s.preEdges != nil {
		if !s.kind.VertexTyped() {
			s.preEdges = nil
		} else {
			s.preEdges.And(s.connectedEdges(store))
			if !s.preEdges.Any() {
				s.preEdges = nil
			}
		}
	}
	if s.preVertices != nil {
		if !s.kind.EdgeTyped() {
			s.preVertices = nil
		} else {
			s.preVertices.And(s.highlight)
			if !s.preVertices.Any() {
				s.preVertices = nil
			}
		}
	}
}

// connectedEdges returns the edges adjacent to a vertex-typed selection:
// exactly one endpoint selected. Induced edges are already selected and
// excluded.
func (s *Selection) connectedEdges(store *graphstore.Store) graphstore.FlagMap {
	out := make(graphstore.FlagMap)
	for _, eid := range store.Edges() {
		from, to, err := store.Endpoints(eid)
		if err != nil {
			continue
		}
		if s.vertices.Has(from) != s.vertices.Has(to) {
			out[eid] = true
		}
	}
	return out
}

// pruneRemoved drops selection and preselection entries whose elements no
// longer exist and re-derives. Returns true when anything was dropped.
func (s *Selection) pruneRemoved(store *graphstore.Store) bool {
	changed := false
	for vid := range s.vertices {
		if !store.HasVertex(vid) {
			delete(s.vertices, vid)
			changed = true
		}
	}
	for eid := range s.edges {
		if !store.HasEdge(eid) {
			delete(s.edges, eid)
			changed = true
		}
	}
	if !changed {
		s.prunePreselection(store)
		return false
	}
	switch {
	case s.kind.VertexTyped():
		s.setVertexPick()
	case s.kind.EdgeTyped():
		s.setEdgePick()
	}
	s.derive(store)
	return true
}
