package graphstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeParallelEdgesConcatenatesLabels(t *testing.T) {
	d := NewDocument()
	a := d.Store.AddVertex()
	b := d.Store.AddVertex()

	e1, err := d.AddEdge(a, b)
	require.NoError(t, err)
	d.EdgeLabels[e1] = "x"
	e2, err := d.AddEdge(a, b)
	require.NoError(t, err)
	d.EdgeLabels[e2] = "y"

	removed := d.MergeParallelEdges(", ")
	assert.Equal(t, 1, removed)
	require.Equal(t, []string{e1}, d.Store.Edges(), "first-inserted edge survives")
	assert.Equal(t, "x, y", d.EdgeLabels[e1])

	// Idempotent: a second run changes nothing.
	assert.Zero(t, d.MergeParallelEdges(", "))
	assert.Equal(t, "x, y", d.EdgeLabels[e1])
	assert.Equal(t, 1, d.Store.Size())
}

func TestMergeParallelEdgesRespectsDirection(t *testing.T) {
	d := NewDocument()
	a := d.Store.AddVertex()
	b := d.Store.AddVertex()

	_, err := d.AddEdge(a, b)
	require.NoError(t, err)
	_, err = d.AddEdge(b, a)
	require.NoError(t, err)

	assert.Zero(t, d.MergeParallelEdges(", "), "opposite directions are not parallel")
	assert.Equal(t, 2, d.Store.Size())
}

func TestMergeParallelEdgesHandlesLabelGaps(t *testing.T) {
	d := NewDocument()
	a := d.Store.AddVertex()
	b := d.Store.AddVertex()

	e1, err := d.AddEdge(a, b)
	require.NoError(t, err)
	e2, err := d.AddEdge(a, b)
	require.NoError(t, err)
	d.EdgeLabels[e2] = "only"
	_, err = d.AddEdge(a, b)
	require.NoError(t, err)

	assert.Equal(t, 2, d.MergeParallelEdges("; "))
	assert.Equal(t, "only", d.EdgeLabels[e1], "an unlabeled survivor adopts the first label without a separator")
}

func TestMergeParallelSelfLoops(t *testing.T) {
	d := NewDocument()
	a := d.Store.AddVertex()

	l1, err := d.AddEdge(a, a)
	require.NoError(t, err)
	_, err = d.AddEdge(a, a)
	require.NoError(t, err)

	assert.Equal(t, 1, d.MergeParallelEdges(", "))
	assert.Equal(t, []string{l1}, d.Store.Edges())
}
