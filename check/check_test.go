package check

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitExact(t *testing.T) {
	want := []float64{1, 2, 3, 4}
	got := []float64{1, 2, 3, 4}
	require.NoError(t, Unit(2, 2, 2, want, got))

	got[2] = 3.0000001
	err := Unit(2, 2, 2, want, got)
	require.Error(t, err)
	mm := err.(*Mismatch)
	assert.Equal(t, 0, mm.Row)
	assert.Equal(t, 1, mm.Col)
	assert.Equal(t, 3.0, mm.Want)
}

func TestUnitRespectsLeadingDimension(t *testing.T) {
	// 2x2 data inside ld=3 columns; padding rows differ and must be ignored.
	want := []float64{1, 2, -1, 3, 4, -1}
	got := []float64{1, 2, 99, 3, 4, 99}
	assert.NoError(t, Unit(2, 2, 3, want, got))
}

func TestUnitNaNEqual(t *testing.T) {
	nan := math.NaN()
	assert.NoError(t, Unit(1, 1, 1, []float64{nan}, []float64{nan}))
	assert.Error(t, Unit(1, 1, 1, []float64{nan}, []float64{1}))
}

func TestUnitBatchReportsBatchIndex(t *testing.T) {
	want := [][]float32{{1, 2}, {3, 4}}
	got := [][]float32{{1, 2}, {3, 5}}
	err := UnitBatch(1, 2, 1, want, got)
	require.Error(t, err)
	assert.Equal(t, 1, err.(*Mismatch).Batch)
}

func TestNear(t *testing.T) {
	want := []float64{1, 2}
	got := []float64{1 + 1e-12, 2}
	assert.NoError(t, Near(1, 2, 1, want, got, 1e-10))
	assert.Error(t, Near(1, 2, 1, want, got, 1e-14))
}

func TestNormFrobenius(t *testing.T) {
	want := []float64{3, 4}
	got := []float64{3, 4}
	assert.Equal(t, 0.0, NormFrobenius(2, 1, 2, want, got))

	got = []float64{3, 4.0005}
	e := NormFrobenius(2, 1, 2, want, got)
	assert.InDelta(t, 0.0005/5.0, e, 1e-9)
}

func TestNormBatchMaxTakesWorst(t *testing.T) {
	want := [][]float64{{1, 0}, {1, 0}}
	got := [][]float64{{1, 0}, {1, 0.1}}
	e := NormBatchMax(2, 1, 2, want, got)
	assert.InDelta(t, 0.1, e, 1e-12)
}

func TestVectorNorm1Rel(t *testing.T) {
	want := []float64{1, 1, 1, 1}
	got := []float64{1, 1, 1, 1.004}
	assert.InDelta(t, 0.001, VectorNorm1Rel(4, 1, want, got), 1e-12)

	// Strided addressing: only every second element participates.
	wantS := []float64{1, 99, 1, 99}
	gotS := []float64{1, 0, 1, 0}
	assert.Equal(t, 0.0, VectorNorm1Rel(2, 2, wantS, gotS))
}

func TestBitwiseEqual(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2, 3}
	assert.True(t, BitwiseEqual(a, b))

	// -0.0 and 0.0 compare equal numerically but differ bitwise.
	assert.False(t, BitwiseEqual([]float64{0}, []float64{math.Copysign(0, -1)}))

	assert.True(t, BitwiseEqualBatch([][]float32{{1}, {2}}, [][]float32{{1}, {2}}))
	assert.False(t, BitwiseEqualBatch([][]float32{{1}}, [][]float32{{1}, {2}}))
}
