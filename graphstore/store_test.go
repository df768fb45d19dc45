package graphstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/errors"
)

func TestAddVertexMintsSequentialIDs(t *testing.T) {
	s := New()
	a := s.AddVertex()
	b := s.AddVertex()
	c := s.AddVertex()

	assert.Equal(t, []string{"v1", "v2", "v3"}, []string{a, b, c})
	assert.Equal(t, []string{"v1", "v2", "v3"}, s.Vertices(), "enumeration keeps insertion order")
	assert.Equal(t, 3, s.Order())
}

func TestAddEdgeRequiresEndpoints(t *testing.T) {
	s := New()
	a := s.AddVertex()

	_, err := s.AddEdge(a, "v99")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err), "missing target should be a not-found error")

	_, err = s.AddEdge("v99", a)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSelfLoopsAndParallelEdges(t *testing.T) {
	s := New()
	a := s.AddVertex()
	b := s.AddVertex()

	loop, err := s.AddEdge(a, a)
	require.NoError(t, err, "self-loops are permitted")

	e1, err := s.AddEdge(a, b)
	require.NoError(t, err)
	e2, err := s.AddEdge(a, b)
	require.NoError(t, err, "parallel edges are permitted")
	assert.NotEqual(t, e1, e2, "parallel edges keep distinct identities")

	assert.Equal(t, 3, s.Size())
	assert.Equal(t, []string{loop, e1, e2}, s.Edges())
}

func TestIncidentEdgesOutThenInDeduplicated(t *testing.T) {
	s := New()
	a := s.AddVertex()
	b := s.AddVertex()
	c := s.AddVertex()

	loop, err := s.AddEdge(a, a)
	require.NoError(t, err)
	out, err := s.AddEdge(a, b)
	require.NoError(t, err)
	in, err := s.AddEdge(c, a)
	require.NoError(t, err)

	got := s.IncidentEdges(a)
	assert.Equal(t, []string{loop, out, in}, got, "outgoing first, incoming after, loop only once")
	assert.Equal(t, []string{out}, s.IncidentEdges(b))
}

func TestNeighborsUndirectedView(t *testing.T) {
	s := New()
	a := s.AddVertex()
	b := s.AddVertex()
	c := s.AddVertex()
	d := s.AddVertex()

	_, err := s.AddEdge(a, b)
	require.NoError(t, err)
	_, err = s.AddEdge(c, a) // incoming still counts as adjacency
	require.NoError(t, err)
	_, err = s.AddEdge(a, a) // self-loop is not its own neighbor
	require.NoError(t, err)

	assert.Equal(t, []string{b, c}, s.Neighbors(a))
	assert.Equal(t, []string{a}, s.Neighbors(b))
	assert.Empty(t, s.Neighbors(d))
}

func TestRemoveVertexDropsIncidentEdges(t *testing.T) {
	s := New()
	a := s.AddVertex()
	b := s.AddVertex()
	c := s.AddVertex()

	_, err := s.AddEdge(a, b)
	require.NoError(t, err)
	keep, err := s.AddEdge(b, c)
	require.NoError(t, err)

	require.NoError(t, s.RemoveVertex(a))

	assert.False(t, s.HasVertex(a))
	assert.Equal(t, []string{keep}, s.Edges())
	assert.Equal(t, []string{keep}, s.IncidentEdges(b), "b's incident list no longer references the removed edge")

	err = s.RemoveVertex(a)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRemoveEdgeByIdentity(t *testing.T) {
	s := New()
	a := s.AddVertex()
	b := s.AddVertex()

	e1, err := s.AddEdge(a, b)
	require.NoError(t, err)
	e2, err := s.AddEdge(a, b)
	require.NoError(t, err)

	require.NoError(t, s.RemoveEdge(e1))
	assert.False(t, s.HasEdge(e1))
	assert.True(t, s.HasEdge(e2), "the parallel twin survives")
	assert.Equal(t, []string{e2}, s.IncidentEdges(a))

	err = s.RemoveEdge(e1)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestEndpoints(t *testing.T) {
	s := New()
	a := s.AddVertex()
	b := s.AddVertex()
	eid, err := s.AddEdge(a, b)
	require.NoError(t, err)

	from, to, err := s.Endpoints(eid)
	require.NoError(t, err)
	assert.Equal(t, a, from)
	assert.Equal(t, b, to)

	_, _, err = s.Endpoints("e999")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDocumentPrunesPropertiesOnRemoval(t *testing.T) {
	d := NewDocument()
	a := d.AddVertexAt(r2.Vec{X: 1, Y: 2})
	b := d.AddVertexAt(r2.Vec{X: 3, Y: 4})
	d.VertexLabels[a] = "start"

	eid, err := d.AddEdge(a, b)
	require.NoError(t, err)
	d.EdgeLabels[eid] = "link"

	require.NoError(t, d.RemoveVertex(a))
	assert.NotContains(t, d.Pos, a)
	assert.NotContains(t, d.VertexLabels, a)
	assert.NotContains(t, d.EdgeLabels, eid, "labels of incident edges are pruned too")
	assert.Contains(t, d.Pos, b)
}

func TestFlagMapSemantics(t *testing.T) {
	m := make(FlagMap)
	m.Set("v1", true)
	m.Set("v2", true)
	m.Set("v1", false)

	assert.True(t, m.Has("v2"))
	assert.False(t, m.Has("v1"))
	assert.Equal(t, 1, m.Count(), "unset marks are deleted, not stored false")

	n := m.Clone()
	n.Set("v3", true)
	assert.False(t, m.Has("v3"), "clones are independent")

	x := make(FlagMap)
	x.Xor(FlagMap{"a": true, "b": true}, FlagMap{"b": true, "c": true})
	assert.ElementsMatch(t, []string{"a", "c"}, x.IDs())

	x.And(FlagMap{"a": true})
	assert.Equal(t, []string{"a"}, x.IDs())
}

func TestVecMapBounds(t *testing.T) {
	m := VecMap{
		"v1": {X: -1, Y: 5},
		"v2": {X: 3, Y: -2},
	}

	rect, ok := m.Bounds([]string{"v1", "v2", "missing"})
	require.True(t, ok)
	assert.Equal(t, r2.Vec{X: -1, Y: -2}, rect.Min)
	assert.Equal(t, r2.Vec{X: 3, Y: 5}, rect.Max)

	_, ok = m.Bounds(nil)
	assert.False(t, ok)
}
