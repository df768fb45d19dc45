package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrapPreservesSentinel(t *testing.T) {
	wrapped := Wrap(ErrVertexNotFound, "hit test")
	assert.Contains(t, wrapped.Error(), "hit test")
	assert.True(t, Is(wrapped, ErrVertexNotFound), "Wrapped error should match sentinel")
	assert.False(t, Is(wrapped, ErrEdgeNotFound))
}

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain sentinel", ErrNotFound, true},
		{"vertex sentinel", ErrVertexNotFound, true},
		{"edge sentinel wrapped", Wrap(ErrEdgeNotFound, "remove"), true},
		{"session sentinel", ErrSessionNotFound, true},
		{"unrelated", New("boom"), false},
		{"invalid input", ErrInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFoundError(tt.err))
		})
	}
}

func TestNewNotFoundErrorCarriesTypeAndMessage(t *testing.T) {
	err := NewNotFoundError("vertex %q", "v17")
	require.Error(t, err)
	assert.True(t, Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), `vertex "v17"`)
}

func TestIsInvalidInputError(t *testing.T) {
	err := NewInvalidInputError("fraction %f out of range", 1.5)
	assert.True(t, IsInvalidInputError(err))
	assert.False(t, IsInvalidInputError(New("other")))
	assert.False(t, IsInvalidInputError(nil))
}
