package similarity_test

import (
	"testing"

	"github.com/0x5457/textsim/internal/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, -1}, []float32{-1, 1}, -1},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 2, 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := similarity.Cosine(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestCosineSymmetric(t *testing.T) {
	a := []float32{0.12, -0.7, 0.33, 0.9}
	b := []float32{-0.4, 0.25, 0.8, 0.05}

	ab, err := similarity.Cosine(a, b)
	require.NoError(t, err)
	ba, err := similarity.Cosine(b, a)
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
	assert.GreaterOrEqual(t, ab, -1.0)
	assert.LessOrEqual(t, ab, 1.0)
}

func TestCosineErrors(t *testing.T) {
	_, err := similarity.Cosine([]float32{1, 2}, []float32{1, 2, 3})
	assert.ErrorIs(t, err, similarity.ErrDimensionMismatch)

	_, err = similarity.Cosine(nil, nil)
	assert.ErrorIs(t, err, similarity.ErrEmptyVector)
}
