package args

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/blas"
)

func TestDefaults(t *testing.T) {
	a := Default()
	assert.Equal(t, -1, a.N)
	assert.Equal(t, -1, a.Lda)
	assert.Equal(t, 1, a.Incx)
	assert.Equal(t, 1, a.Incy)
	assert.Equal(t, 1.0, a.Alpha)
	assert.Equal(t, 0.0, a.Beta)
	assert.True(t, a.UnitCheck)
	assert.False(t, a.NormCheck)
	assert.False(t, a.Timing)
	assert.Equal(t, 10, a.Iters)
	assert.Equal(t, 2, a.ColdIters)
	assert.Equal(t, uint64(DefaultSeed), a.Seed)
}

func TestConverters(t *testing.T) {
	a := Default()

	ul, err := a.BlasUplo()
	require.NoError(t, err)
	assert.Equal(t, blas.Upper, ul)

	a.Uplo = "l"
	ul, err = a.BlasUplo()
	require.NoError(t, err)
	assert.Equal(t, blas.Lower, ul)

	a.TransA = "T"
	tr, err := a.BlasTransA()
	require.NoError(t, err)
	assert.Equal(t, blas.Trans, tr)

	a.Diag = "X"
	_, err = a.BlasDiag()
	assert.Error(t, err)
}

func TestStrides(t *testing.T) {
	a := Default()
	a.N = 10
	a.Incx = -2
	a.StrideScale = 1.5
	assert.Equal(t, int64(30), a.StrideX())
	assert.Equal(t, int64(15), a.StrideY())

	a.N = -1
	assert.Equal(t, int64(0), a.StrideX())
}

const suiteYAML = `
name: unit
tests:
  - function: axpy_batched
    precision: [s, d]
    N: [4, 100]
    batch_count: 2
  - function: rotmg
    precision: d
    unit_check: false
    norm_check: true
`

func TestParseSuiteExpansion(t *testing.T) {
	s, err := ParseSuite([]byte(suiteYAML))
	require.NoError(t, err)
	assert.Equal(t, "unit", s.Name)

	// 2 precisions x 2 sizes + 1 rotmg case.
	require.Len(t, s.Cases, 5)

	for _, c := range s.Cases[:4] {
		assert.Equal(t, "axpy_batched", c.Function)
		assert.Equal(t, 2, c.BatchCount)
		assert.Contains(t, []int{4, 100}, c.N)
		assert.Contains(t, []string{"s", "d"}, c.Precision)
		// Untouched fields keep defaults.
		assert.Equal(t, 1, c.Incx)
		assert.True(t, c.UnitCheck)
	}

	r := s.Cases[4]
	assert.Equal(t, "rotmg", r.Function)
	assert.False(t, r.UnitCheck)
	assert.True(t, r.NormCheck)
}

func TestParseSuiteMissingFunction(t *testing.T) {
	_, err := ParseSuite([]byte("tests:\n  - N: 4\n"))
	assert.Error(t, err)
}

func TestParseSuiteEmptyList(t *testing.T) {
	_, err := ParseSuite([]byte("tests:\n  - function: rotmg\n    N: []\n"))
	assert.Error(t, err)
}

func TestParseSuiteUnknownField(t *testing.T) {
	// A typo'd field name must fail loudly, not fall back to the default.
	_, err := ParseSuite([]byte("tests:\n  - function: axpy_batched\n    N: 4\n    bach_count: 4\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bach_count")
}
