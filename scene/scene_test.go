package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/easel/graphstore"
)

func TestScalarVariants(t *testing.T) {
	c := ConstantScalar(4)
	assert.Equal(t, 4.0, c.At("anything"))

	p := PerElementScalar(graphstore.ScalarMap{"v1": 10}, 2)
	assert.Equal(t, 10.0, p.At("v1"))
	assert.Equal(t, 2.0, p.At("v2"), "absent ids fall back")

	assert.Equal(t, 6.0, p.Mean([]string{"v1", "v2"}))
	assert.Equal(t, 4.0, c.Mean(nil), "constant mean ignores ids")

	p.Scale(2)
	assert.Equal(t, 20.0, p.At("v1"))
	assert.Equal(t, 4.0, p.At("v2"))
}

func TestFlagAndTextVariants(t *testing.T) {
	marks := graphstore.FlagMap{"v1": true}
	f := PerElementFlag(marks)
	assert.True(t, f.At("v1"))
	assert.False(t, f.At("v2"))
	assert.True(t, ConstantFlag(true).At("v2"))

	labels := graphstore.TextMap{"v1": "start"}
	tx := PerElementText(labels)
	assert.Equal(t, "start", tx.At("v1"))
	assert.Equal(t, "", tx.At("v2"))
	assert.Equal(t, "x", ConstantText("x").At("v9"))
}

func TestAutoSize(t *testing.T) {
	// 800x600 viewport, 16 vertices: sqrt(480000/16)/3.5.
	want := math.Sqrt(800*600/16.0) / 3.5
	assert.InDelta(t, want, AutoSize(16, 800, 600, 12, false), 1e-9)

	// Labels clamp from below with the log10(n) footprint.
	withLabels := AutoSize(1000, 100, 100, 12, true)
	assert.InDelta(t, 12*3, withLabels, 1e-9, "tiny viewport with many labels uses font footprint")

	single := AutoSize(1, 10, 10, 12, true)
	assert.InDelta(t, 12, single, 1e-9, "single labeled vertex uses plain font size")

	assert.Positive(t, AutoSize(0, 800, 600, 12, false), "empty graph still sizes as one vertex")
}

func TestAdjustDefaultSizes(t *testing.T) {
	sc := NewScene(nil, nil)
	sc.AdjustDefaultSizes(16, 800, 600, false, false)

	size := sc.Vertex.Size.At("v1")
	assert.InDelta(t, math.Sqrt(800*600/16.0)/3.5, size, 1e-9)
	assert.InDelta(t, size/10, sc.Vertex.PenWidth.At("v1"), 1e-9)
	assert.InDelta(t, size/10, sc.Edge.PenWidth.At("e1"), 1e-9)
	assert.InDelta(t, size*0.6, sc.Edge.MarkerSize.At("e1"), 1e-9)

	// Without force the scene keeps its sizes.
	sc.AdjustDefaultSizes(100, 800, 600, false, false)
	assert.InDelta(t, size, sc.Vertex.Size.At("v1"), 1e-9)

	sc.AdjustDefaultSizes(100, 800, 600, false, true)
	assert.Less(t, sc.Vertex.Size.At("v1"), size, "force recomputes for the larger order")
}

func TestScaleInk(t *testing.T) {
	sc := NewScene(nil, nil)
	sc.AdjustDefaultSizes(4, 400, 400, false, false)
	size := sc.Vertex.Size.At("v1")

	sc.ScaleInk(2)
	assert.InDelta(t, size*2, sc.Vertex.Size.At("v1"), 1e-9)
	assert.InDelta(t, size/5, sc.Vertex.PenWidth.At("v1"), 1e-9)
	assert.InDelta(t, size*1.2, sc.Edge.MarkerSize.At("e1"), 1e-9)
}

func TestPositionParallelEdgesSymmetricFan(t *testing.T) {
	s := graphstore.New()
	a := s.AddVertex()
	b := s.AddVertex()

	e1, err := s.AddEdge(a, b)
	require.NoError(t, err)
	e2, err := s.AddEdge(a, b)
	require.NoError(t, err)
	e3, err := s.AddEdge(b, a)
	require.NoError(t, err)

	offsets := PositionParallelEdges(s, 10)
	assert.InDelta(t, -10.0, offsets[e1], 1e-9)
	assert.InDelta(t, 0.0, offsets[e2], 1e-9)
	assert.InDelta(t, 10.0, offsets[e3], 1e-9, "opposite direction joins the same fan")

	var sum float64
	for _, off := range offsets {
		sum += off
	}
	assert.InDelta(t, 0.0, sum, 1e-9, "fan is symmetric about the chord")
}

func TestPositionParallelEdgesLoneAndLoops(t *testing.T) {
	s := graphstore.New()
	a := s.AddVertex()
	b := s.AddVertex()

	lone, err := s.AddEdge(a, b)
	require.NoError(t, err)
	loop1, err := s.AddEdge(a, a)
	require.NoError(t, err)
	loop2, err := s.AddEdge(a, a)
	require.NoError(t, err)

	offsets := PositionParallelEdges(s, 8)
	_, hasLone := offsets[lone]
	assert.False(t, hasLone, "a lone edge stays straight")

	assert.InDelta(t, 4.0, offsets[loop1], 1e-9)
	assert.InDelta(t, 8.0, offsets[loop2], 1e-9, "stacked loops grow outward")
}

func TestRefreshControlOffsets(t *testing.T) {
	s := graphstore.New()
	a := s.AddVertex()
	b := s.AddVertex()
	_, err := s.AddEdge(a, b)
	require.NoError(t, err)
	_, err = s.AddEdge(a, b)
	require.NoError(t, err)

	sc := NewScene(nil, nil)
	sc.Vertex.Size = ConstantScalar(30)
	sc.RefreshControlOffsets(s, 2)

	// dist = 30 / (1.5*2) = 10, fan of two: ±5.
	offs := sc.Edge.ControlOffset
	require.Len(t, offs, 2)
	assert.InDelta(t, -5.0, offs["e1"], 1e-9)
	assert.InDelta(t, 5.0, offs["e2"], 1e-9)
}

func TestColorHelpers(t *testing.T) {
	assert.True(t, Clear.Transparent())
	assert.False(t, White.Transparent())
	assert.Equal(t, 0.25, SelectionColor.WithAlpha(0.25).A)
	assert.Equal(t, SelectionColor.R, SelectionColor.WithAlpha(0.25).R)
}
