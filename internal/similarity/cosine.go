// Package similarity scores pairs of embedding vectors.
package similarity

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrDimensionMismatch = errors.New("vector dimensions differ")
	ErrEmptyVector       = errors.New("empty vector")
)

// Cosine returns the cosine of the angle between a and b, in [-1, 1].
// The score is symmetric in its arguments. A zero vector scores 0.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, ErrEmptyVector
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	den := math.Sqrt(na) * math.Sqrt(nb)
	if den == 0 {
		return 0, nil
	}
	score := dot / den
	if math.IsNaN(score) {
		return 0, fmt.Errorf("similarity is not a number")
	}
	// rounding can push |score| just past 1
	return math.Max(-1, math.Min(1, score)), nil
}
