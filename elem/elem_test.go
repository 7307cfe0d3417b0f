package elem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeAndNames(t *testing.T) {
	assert.Equal(t, int64(4), Size[float32]())
	assert.Equal(t, int64(8), Size[float64]())
	assert.Equal(t, "float", OKLName[float32]())
	assert.Equal(t, "double", OKLName[float64]())
	assert.Equal(t, "s", Suffix[float32]())
	assert.Equal(t, "d", Suffix[float64]())
}

func TestEpsilon(t *testing.T) {
	// 1 + eps must be distinguishable from 1, 1 + eps/2 must not be.
	assert.NotEqual(t, float32(1), float32(1)+float32(Epsilon[float32]()))
	assert.Equal(t, float32(1), float32(1)+float32(Epsilon[float32]())/2)
	assert.NotEqual(t, float64(1), float64(1)+Epsilon[float64]())
	assert.Equal(t, float64(1), float64(1)+Epsilon[float64]()/2)
}

func TestAbsAndNaN(t *testing.T) {
	assert.Equal(t, float64(3), Abs(float64(-3)))
	assert.Equal(t, float32(0), Abs(float32(0)))
	assert.True(t, IsNaN(math.NaN()))
	assert.False(t, IsNaN(float32(1.5)))
	assert.True(t, IsNaN(float32(math.NaN())))
}
