package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/graphstore"
)

func makeStore(t *testing.T, edges [][2]int, order int) *graphstore.Store {
	t.Helper()
	s := graphstore.New()
	ids := make([]string, order)
	for i := range ids {
		ids[i] = s.AddVertex()
	}
	for _, e := range edges {
		_, err := s.AddEdge(ids[e[0]], ids[e[1]])
		require.NoError(t, err)
	}
	return s
}

func TestForceDirectedCoversAllVertices(t *testing.T) {
	s := makeStore(t, [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 3}}, 5)

	pos := ForceDirected(s, 1)
	require.Len(t, pos, 5, "every vertex gets a position, connected or not")
	for _, vid := range s.Vertices() {
		_, ok := pos[vid]
		assert.True(t, ok, "missing position for %s", vid)
	}

	rect, ok := pos.Bounds(s.Vertices())
	require.True(t, ok)
	assert.Positive(t, rect.Width(), "layout spreads vertices horizontally")
	assert.Positive(t, rect.Height(), "layout spreads vertices vertically")
}

func TestForceDirectedDeterministicPerSeed(t *testing.T) {
	s := makeStore(t, [][2]int{{0, 1}, {1, 2}}, 3)

	a := ForceDirected(s, 42)
	b := ForceDirected(s, 42)
	assert.Equal(t, a, b, "same seed, same layout")
}

func TestForceDirectedSmallGraphs(t *testing.T) {
	empty := graphstore.New()
	assert.Empty(t, ForceDirected(empty, 1))

	single := graphstore.New()
	id := single.AddVertex()
	pos := ForceDirected(single, 1)
	assert.Equal(t, graphstore.VecMap{id: {}}, pos)
}

func TestForceDirectedToleratesLoopsAndParallels(t *testing.T) {
	s := makeStore(t, nil, 2)
	ids := s.Vertices()
	_, err := s.AddEdge(ids[0], ids[0])
	require.NoError(t, err)
	_, err = s.AddEdge(ids[0], ids[1])
	require.NoError(t, err)
	_, err = s.AddEdge(ids[0], ids[1])
	require.NoError(t, err)
	_, err = s.AddEdge(ids[1], ids[0])
	require.NoError(t, err)

	pos := ForceDirected(s, 7)
	require.Len(t, pos, 2)
	assert.NotEqual(t, pos[ids[0]], pos[ids[1]], "connected vertices do not collapse")
}

func TestRefineKeepsSingleSavedPosition(t *testing.T) {
	s := graphstore.New()
	id := s.AddVertex()
	saved := graphstore.VecMap{id: r2.Vec{X: 3, Y: 4}}

	pos := Refine(s, saved, 1)
	assert.Equal(t, saved, pos)
}

func TestRefineCoversNewcomers(t *testing.T) {
	s := makeStore(t, [][2]int{{0, 1}}, 2)
	ids := s.Vertices()
	existing := graphstore.VecMap{ids[0]: r2.Vec{X: 100, Y: 100}, ids[1]: r2.Vec{X: 140, Y: 100}}

	newcomer := s.AddVertex()
	_, err := s.AddEdge(ids[1], newcomer)
	require.NoError(t, err)

	pos := Refine(s, existing, 1)
	require.Len(t, pos, 3)
	for _, vid := range s.Vertices() {
		_, ok := pos[vid]
		assert.True(t, ok)
	}
}

func TestRefineDeterministicPerSeed(t *testing.T) {
	s := makeStore(t, [][2]int{{0, 1}, {1, 2}}, 3)
	ids := s.Vertices()
	existing := graphstore.VecMap{
		ids[0]: r2.Vec{X: 0, Y: 0},
		ids[1]: r2.Vec{X: 40, Y: 20},
	}

	a := Refine(s, existing, 9)
	b := Refine(s, existing, 9)
	assert.Equal(t, a, b, "same seed and saved map, same refinement")
}

func TestDegenerate(t *testing.T) {
	ids := []string{"v1", "v2"}

	assert.True(t, Degenerate(graphstore.VecMap{"v1": {X: 5, Y: 5}, "v2": {X: 5, Y: 5}}, ids),
		"identical points have no extent")
	assert.True(t, Degenerate(graphstore.VecMap{"v1": {X: 0, Y: 0}, "v2": {X: 10, Y: 0}}, ids),
		"collinear on one axis still defeats grid sizing")
	assert.False(t, Degenerate(graphstore.VecMap{"v1": {X: 0, Y: 0}, "v2": {X: 10, Y: 10}}, ids))
	assert.False(t, Degenerate(graphstore.VecMap{}, []string{"v1"}), "singletons bypass the grid entirely")
	assert.True(t, Degenerate(graphstore.VecMap{}, ids), "missing positions are degenerate")
}
