package embeddings

import (
	"errors"
	"fmt"
	"math"
)

var ErrEmptyMask = errors.New("attention mask selects no tokens")

// MeanPool averages the token vectors of hidden weighted by mask.
// Padding positions (mask 0) do not contribute.
func MeanPool(hidden [][]float32, mask []int64) ([]float32, error) {
	if len(hidden) != len(mask) {
		return nil, fmt.Errorf("hidden state has %d tokens, attention mask has %d", len(hidden), len(mask))
	}
	if len(hidden) == 0 {
		return nil, ErrEmptyMask
	}

	dim := len(hidden[0])
	sum := make([]float64, dim)
	var count float64
	for i, tok := range hidden {
		if len(tok) != dim {
			return nil, fmt.Errorf("token %d has width %d, expected %d", i, len(tok), dim)
		}
		m := float64(mask[i])
		if m == 0 {
			continue
		}
		for j, x := range tok {
			sum[j] += float64(x) * m
		}
		count += m
	}
	if count == 0 {
		return nil, ErrEmptyMask
	}

	out := make([]float32, dim)
	for j := range sum {
		out[j] = float32(sum[j] / count)
	}
	return out, nil
}

// Normalize returns v scaled to unit L2 norm. A zero vector is returned as is.
func Normalize(v []float32) []float32 {
	var ss float64
	for _, x := range v {
		ss += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if ss == 0 {
		copy(out, v)
		return out
	}
	n := math.Sqrt(ss)
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out
}
