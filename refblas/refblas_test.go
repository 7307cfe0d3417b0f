package refblas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/blas"
)

func TestAxpy(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{0, 0, 0, 0}
	Axpy(4, 2.0, x, 1, y, 1)
	assert.Equal(t, []float64{2, 4, 6, 8}, y)

	xs := []float32{1, 2, 3, 4}
	ys := []float32{1, 1, 1, 1}
	Axpy[float32](4, 2.0, xs, 1, ys, 1)
	assert.Equal(t, []float32{3, 5, 7, 9}, ys)
}

func TestGeamNoTrans(t *testing.T) {
	// Column-major A=[[1,2],[3,4]], B=[[5,6],[7,8]].
	a := []float64{1, 3, 2, 4}
	b := []float64{5, 7, 6, 8}
	c := make([]float64, 4)
	Geam(blas.NoTrans, blas.NoTrans, 2, 2, 1.0, a, 2, 1.0, b, 2, c, 2)
	assert.Equal(t, []float64{6, 10, 8, 12}, c)
}

func TestGeamTransA(t *testing.T) {
	a := []float64{1, 3, 2, 4} // A = [[1,2],[3,4]]
	b := []float64{0, 0, 0, 0}
	c := make([]float64, 4)
	Geam(blas.Trans, blas.NoTrans, 2, 2, 1.0, a, 2, 0.0, b, 2, c, 2)
	// C = Aᵀ = [[1,3],[2,4]], column major {1,2,3,4}.
	assert.Equal(t, []float64{1, 2, 3, 4}, c)
}

func TestPackTriangular(t *testing.T) {
	// 3x3 column major.
	a := []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	up := make([]float64, 6)
	PackTriangular(true, a, 3, up)
	assert.Equal(t, []float64{1, 4, 5, 7, 8, 9}, up)

	lo := make([]float64, 6)
	PackTriangular(false, a, 3, lo)
	assert.Equal(t, []float64{1, 2, 3, 5, 6, 9}, lo)
}

func TestTpsvRoundTrip(t *testing.T) {
	// Upper triangular A=[[2,1],[0,3]] packed, solve A*x = b with b = A*[1,1].
	ap := []float64{2, 1, 3}
	x := []float64{3, 3}
	Tpsv(blas.Upper, blas.NoTrans, blas.NonUnit, 2, ap, x, 1)
	assert.InDelta(t, 1.0, x[0], 1e-14)
	assert.InDelta(t, 1.0, x[1], 1e-14)
}

func TestRotmgParamWrites(t *testing.T) {
	d1, d2, x1 := 1.0, 1.0, 1.0
	param := []float64{99, 99, 99, 99, 99}
	Rotmg(&d1, &d2, &x1, 1.0, param)

	// Untouched entries keep their sentinel depending on the flag.
	flag := blas.Flag(param[0])
	switch flag {
	case blas.OffDiagonal:
		assert.Equal(t, 99.0, param[1])
		assert.Equal(t, 99.0, param[4])
		assert.NotEqual(t, 99.0, param[2])
	case blas.Diagonal:
		assert.Equal(t, 99.0, param[2])
		assert.Equal(t, 99.0, param[3])
	case blas.Rescaling:
		for i := 1; i < 5; i++ {
			assert.NotEqual(t, 99.0, param[i])
		}
	}
}

func TestCholeskyFactor(t *testing.T) {
	// SPD 2x2: [[4,2],[2,3]], lower factor L = [[2,0],[1,sqrt(2)]].
	a := []float64{4, 2, 2, 3}
	ok := CholeskyFactor(blas.Lower, 2, a, 2)
	require.True(t, ok)
	assert.InDelta(t, 2.0, a[0], 1e-14)
	assert.InDelta(t, 1.0, a[1], 1e-14)

	af := []float32{4, 2, 2, 3}
	ok = CholeskyFactor(blas.Lower, 2, af, 2)
	require.True(t, ok)
	assert.InDelta(t, 2.0, float64(af[0]), 1e-6)
}
