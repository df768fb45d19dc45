// Package graphstore wraps a lvlath graph with the bookkeeping the editor
// needs: minted vertex ids, insertion-ordered vertex/edge enumeration for
// stable draw order, identity-addressed edges, and typed property maps for
// labels and positions.
package graphstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvlath/core"

	"github.com/teranos/easel/errors"
)

// Store is a mutable directed multigraph with self-loops. Vertex ids are
// minted as "v1", "v2", ...; edge ids come from the underlying graph.
// Enumeration order is insertion order, which callers rely on for stable
// rendering and incident-edge cycling.
//
// A Store is owned by a single session and is not safe for concurrent
// mutation.
type Store struct {
	g *core.Graph

	nextVertex uint64

	vertexOrder []string
	edgeOrder   []string

	outEdges map[string][]string // vertex id → edge ids, insertion order
	inEdges  map[string][]string
}

// New returns an empty store.
func New() *Store {
	// The options are constant and valid, so NewGraph cannot fail here.
	g, _ := core.NewGraph(core.WithDirected(true), core.WithMultiEdges(), core.WithLoops())
	return &Store{
		g:        g,
		outEdges: make(map[string][]string),
		inEdges:  make(map[string][]string),
	}
}

// AddVertex mints a fresh vertex id and inserts it.
func (s *Store) AddVertex() string {
	for {
		s.nextVertex++
		id := fmt.Sprintf("v%d", s.nextVertex)
		if !s.g.HasVertex(id) {
			if err := s.g.AddVertex(id); err != nil {
				continue
			}
			s.trackVertex(id)
			return id
		}
	}
}

// addVertexID inserts a vertex under a caller-provided id, used when
// loading a document. The mint counter is advanced past numeric ids so
// later AddVertex calls cannot collide.
func (s *Store) addVertexID(id string) error {
	if id == "" {
		return errors.NewInvalidInputError("empty vertex id")
	}
	if s.g.HasVertex(id) {
		return errors.Wrapf(errors.ErrInvalidInput, "duplicate vertex id %q", id)
	}
	if err := s.g.AddVertex(id); err != nil {
		return errors.Wrapf(err, "add vertex %q", id)
	}
	s.trackVertex(id)
	if rest, ok := strings.CutPrefix(id, "v"); ok {
		if n, err := strconv.ParseUint(rest, 10, 64); err == nil && n > s.nextVertex {
			s.nextVertex = n
		}
	}
	return nil
}

func (s *Store) trackVertex(id string) {
	s.vertexOrder = append(s.vertexOrder, id)
	s.outEdges[id] = nil
	s.inEdges[id] = nil
}

// RemoveVertex deletes a vertex and every edge incident to it.
func (s *Store) RemoveVertex(id string) error {
	if !s.g.HasVertex(id) {
		return errors.Wrapf(errors.ErrVertexNotFound, "remove vertex %q", id)
	}
	incident := s.IncidentEdges(id)
	ends := make(map[string][2]string, len(incident))
	for _, eid := range incident {
		from, to, err := s.Endpoints(eid)
		if err == nil {
			ends[eid] = [2]string{from, to}
		}
	}
	if err := s.g.RemoveVertex(id); err != nil {
		return errors.Wrapf(err, "remove vertex %q", id)
	}
	for _, eid := range incident {
		s.untrackEdge(eid, ends[eid][0], ends[eid][1])
	}
	s.vertexOrder = removeString(s.vertexOrder, id)
	delete(s.outEdges, id)
	delete(s.inEdges, id)
	return nil
}

// AddEdge inserts an edge between two existing vertices and returns its id.
// Self-loops and parallel edges are permitted.
func (s *Store) AddEdge(from, to string) (string, error) {
	if !s.g.HasVertex(from) {
		return "", errors.Wrapf(errors.ErrVertexNotFound, "edge source %q", from)
	}
	if !s.g.HasVertex(to) {
		return "", errors.Wrapf(errors.ErrVertexNotFound, "edge target %q", to)
	}
	eid, err := s.g.AddEdge(from, to, 0)
	if err != nil {
		return "", errors.Wrapf(err, "add edge %s->%s", from, to)
	}
	s.edgeOrder = append(s.edgeOrder, eid)
	s.outEdges[from] = append(s.outEdges[from], eid)
	s.inEdges[to] = append(s.inEdges[to], eid)
	return eid, nil
}

// RemoveEdge deletes the edge with the given id.
func (s *Store) RemoveEdge(id string) error {
	e, err := s.g.GetEdge(id)
	if err != nil {
		return errors.Wrapf(errors.ErrEdgeNotFound, "remove edge %q", id)
	}
	from, to := e.From, e.To
	if err := s.g.RemoveEdge(id); err != nil {
		return errors.Wrapf(err, "remove edge %q", id)
	}
	s.untrackEdge(id, from, to)
	return nil
}

func (s *Store) untrackEdge(id, from, to string) {
	s.outEdges[from] = removeString(s.outEdges[from], id)
	s.inEdges[to] = removeString(s.inEdges[to], id)
	s.edgeOrder = removeString(s.edgeOrder, id)
}

// Vertices returns all vertex ids in insertion order. The slice is shared;
// callers must not mutate it.
func (s *Store) Vertices() []string {
	return s.vertexOrder
}

// Edges returns all edge ids in insertion order. The slice is shared;
// callers must not mutate it.
func (s *Store) Edges() []string {
	return s.edgeOrder
}

// Endpoints returns the source and target of an edge.
func (s *Store) Endpoints(edgeID string) (from, to string, err error) {
	e, gerr := s.g.GetEdge(edgeID)
	if gerr != nil {
		return "", "", errors.Wrapf(errors.ErrEdgeNotFound, "edge %q", edgeID)
	}
	return e.From, e.To, nil
}

// IncidentEdges returns the edges touching a vertex, outgoing first and
// then incoming, de-duplicated by edge identity so self-loops appear once.
func (s *Store) IncidentEdges(vertexID string) []string {
	out := s.outEdges[vertexID]
	in := s.inEdges[vertexID]
	if len(out) == 0 && len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(out)+len(in))
	ids := make([]string, 0, len(out)+len(in))
	for _, eid := range out {
		if _, dup := seen[eid]; dup {
			continue
		}
		seen[eid] = struct{}{}
		ids = append(ids, eid)
	}
	for _, eid := range in {
		if _, dup := seen[eid]; dup {
			continue
		}
		seen[eid] = struct{}{}
		ids = append(ids, eid)
	}
	return ids
}

// Neighbors returns the vertices adjacent to vertexID over an undirected
// view, excluding the vertex itself, in first-encounter order.
func (s *Store) Neighbors(vertexID string) []string {
	var ids []string
	seen := map[string]struct{}{vertexID: {}}
	for _, eid := range s.IncidentEdges(vertexID) {
		from, to, err := s.Endpoints(eid)
		if err != nil {
			continue
		}
		other := to
		if other == vertexID {
			other = from
		}
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		ids = append(ids, other)
	}
	return ids
}

// HasVertex reports whether the vertex exists.
func (s *Store) HasVertex(id string) bool {
	return s.g.HasVertex(id)
}

// HasEdge reports whether an edge with the given id exists.
func (s *Store) HasEdge(id string) bool {
	_, err := s.g.GetEdge(id)
	return err == nil
}

// Order returns the vertex count.
func (s *Store) Order() int {
	return len(s.vertexOrder)
}

// Size returns the edge count.
func (s *Store) Size() int {
	return len(s.edgeOrder)
}

func removeString(list []string, v string) []string {
	for i, s := range list {
		if s == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
