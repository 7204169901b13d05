// Package vecmath provides dense vector primitives over float64 slices.
package vecmath

import (
	"errors"
	"fmt"

	"github.com/viterin/vek"
)

// ErrDimensionMismatch is returned when two vectors of different length are combined.
var ErrDimensionMismatch = errors.New("vecmath: dimension mismatch")

// Dot returns the sum of elementwise products of a and b.
func Dot(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	return vek.Dot(a, b), nil
}

// Magnitude returns the Euclidean norm of v; 0 for the zero vector.
func Magnitude(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return vek.Norm(v)
}

// CosineSimilarity returns dot(a,b) / (|a|·|b|). If either magnitude is zero
// the result is exactly 0 rather than NaN.
func CosineSimilarity(a, b []float64) (float64, error) {
	dot, err := Dot(a, b)
	if err != nil {
		return 0, err
	}
	ma, mb := Magnitude(a), Magnitude(b)
	if ma == 0 || mb == 0 {
		return 0, nil
	}
	return dot / (ma * mb), nil
}

// Normalize returns v scaled to unit length as a new slice. The zero vector
// is returned as a zero-filled copy.
func Normalize(v []float64) []float64 {
	m := Magnitude(v)
	if m == 0 {
		return make([]float64, len(v))
	}
	return vek.DivNumber(v, m)
}
