package semantic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine_Orthogonal(t *testing.T) {
	assert.Equal(t, float32(0), Cosine([]float32{1, 0}, []float32{0, 1}))
}

func TestCosine_Identical(t *testing.T) {
	assert.Equal(t, float32(1), Cosine([]float32{1, 2, 3}, []float32{1, 2, 3}))
}

func TestCosine_FortyFiveDegrees(t *testing.T) {
	got := Cosine([]float32{1, 0}, []float32{1, 1})
	assert.InDelta(t, 0.7071, got, 0.001)
}

func TestCosine_LengthMismatchOrZeroNorm(t *testing.T) {
	assert.Equal(t, float32(0), Cosine([]float32{1, 2}, []float32{1}))
	assert.Equal(t, float32(0), Cosine([]float32{0, 0}, []float32{1, 2}))
	assert.False(t, math.IsNaN(float64(Cosine([]float32{0, 0}, []float32{0, 0}))))
}

func TestVectorRoundTrip(t *testing.T) {
	v := []float32{0, 1, -1, 3.14159, 1e10, -1e-10}
	got := BytesToVector(VectorToBytes(v))
	assert.Equal(t, v, got)
}
