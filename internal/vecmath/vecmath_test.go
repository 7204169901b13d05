package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestDot(t *testing.T) {
	got, err := Dot([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	assert.InDelta(t, 32, got, eps)

	got, err = Dot(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestDotDimensionMismatch(t *testing.T) {
	_, err := Dot([]float64{1, 2}, []float64{1, 2, 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = CosineSimilarity([]float64{1}, []float64{1, 0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMagnitude(t *testing.T) {
	assert.InDelta(t, 5, Magnitude([]float64{3, 4}), eps)
	assert.Zero(t, Magnitude([]float64{0, 0, 0}))
	assert.Zero(t, Magnitude(nil))
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"identical", []float64{0.2, 0.7, 1.3}, []float64{0.2, 0.7, 1.3}, 1},
		{"scaled", []float64{1, 2}, []float64{2, 4}, 1},
		{"zero right", []float64{1, 2}, []float64{0, 0}, 0},
		{"zero left", []float64{0, 0}, []float64{1, 2}, 0},
		{"both zero", []float64{0, 0}, []float64{0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.want, got, eps)
		})
	}
}

func TestNormalize(t *testing.T) {
	v := []float64{3, 4}
	n := Normalize(v)
	assert.InDeltaSlice(t, []float64{0.6, 0.8}, n, eps)
	assert.InDelta(t, 1, Magnitude(n), eps)
	assert.Equal(t, []float64{3, 4}, v, "input must not be modified")

	assert.Equal(t, []float64{0, 0}, Normalize([]float64{0, 0}))
	assert.Empty(t, Normalize(nil))
}
