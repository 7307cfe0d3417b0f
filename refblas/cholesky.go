package refblas

import (
	"gonum.org/v1/gonum/blas"
	lapack "gonum.org/v1/gonum/lapack/gonum"

	"github.com/occablas/occablas/elem"
)

// CholeskyFactor computes the in-place Cholesky factorization of the SPD
// column-major n×n matrix a, keeping the named triangle. float32 input is
// staged through a float64 copy since no single-precision potrf exists in
// the ecosystem; this is construction-phase only, not a routine under test.
func CholeskyFactor[T elem.Float](ul blas.Uplo, n int, a []T, lda int) bool {
	// Row-major Dpotrf on column-major data factors the opposite triangle.
	rm := flipUplo(ul)
	switch as := any(a).(type) {
	case []float64:
		return lapack.Implementation{}.Dpotrf(rm, n, as, lda)
	case []float32:
		staged := make([]float64, len(as))
		for i, v := range as {
			staged[i] = float64(v)
		}
		ok := lapack.Implementation{}.Dpotrf(rm, n, staged, lda)
		for i, v := range staged {
			as[i] = float32(v)
		}
		return ok
	}
	return false
}
