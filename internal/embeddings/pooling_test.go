package embeddings_test

import (
	"math"
	"testing"

	"github.com/0x5457/textsim/internal/embeddings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float32) float64 {
	var ss float64
	for _, x := range v {
		ss += float64(x) * float64(x)
	}
	return math.Sqrt(ss)
}

func TestMeanPool(t *testing.T) {
	hidden := [][]float32{
		{1, 2},
		{3, 4},
		{100, -100}, // padding
	}

	vec, err := embeddings.MeanPool(hidden, []int64{1, 1, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{2, 3}, vec, 1e-6)
}

func TestMeanPoolErrors(t *testing.T) {
	tests := []struct {
		name   string
		hidden [][]float32
		mask   []int64
		target error
	}{
		{"all masked", [][]float32{{1, 2}, {3, 4}}, []int64{0, 0}, embeddings.ErrEmptyMask},
		{"no tokens", nil, nil, embeddings.ErrEmptyMask},
		{"length mismatch", [][]float32{{1, 2}}, []int64{1, 1}, nil},
		{"ragged", [][]float32{{1, 2}, {3}}, []int64{1, 1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := embeddings.MeanPool(tt.hidden, tt.mask)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	v := embeddings.Normalize([]float32{3, 4})
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, v, 1e-6)

	zero := embeddings.Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}
