// Package refblas is the host-side reference oracle. Every routine is the
// conventional single-threaded numeric definition of the operation,
// dispatching to a CPU BLAS implementation; batched variants are evaluated
// by an independent loop over batch index in the drivers. The oracle only
// ever sees host memory.
package refblas

import (
	"gonum.org/v1/gonum/blas"

	"github.com/occablas/occablas/elem"
)

// Axpy computes y <- alpha*x + y.
func Axpy[T elem.Float](n int, alpha T, x []T, incx int, y []T, incy int) {
	switch xs := any(x).(type) {
	case []float32:
		impl32.Saxpy(n, float32(alpha), xs, incx, any(y).([]float32), incy)
	case []float64:
		impl64.Daxpy(n, float64(alpha), xs, incx, any(y).([]float64), incy)
	}
}

// Copy copies x into y.
func Copy[T elem.Float](n int, x []T, incx int, y []T, incy int) {
	switch xs := any(x).(type) {
	case []float32:
		impl32.Scopy(n, xs, incx, any(y).([]float32), incy)
	case []float64:
		impl64.Dcopy(n, xs, incx, any(y).([]float64), incy)
	}
}

// The package's matrix arguments are column major; the backing BLAS
// implementations are row major. Column-major GEMM is row-major GEMM with
// the operands and output dimensions swapped, and column-major triangular
// routines are their row-major counterparts with uplo and trans flipped
// (packed layouts coincide under the same flip).

func flipUplo(ul blas.Uplo) blas.Uplo {
	if ul == blas.Upper {
		return blas.Lower
	}
	return blas.Upper
}

func flipTrans(t blas.Transpose) blas.Transpose {
	if t == blas.NoTrans {
		return blas.Trans
	}
	return blas.NoTrans
}

// Gemm computes C <- alpha*op(A)*op(B) + beta*C. Used by the TPSV input
// construction (A*Aᵀ), not exercised as a routine under test.
func Gemm[T elem.Float](tA, tB blas.Transpose, m, n, k int, alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int) {
	switch as := any(a).(type) {
	case []float32:
		impl32.Sgemm(tB, tA, n, m, k, float32(alpha), any(b).([]float32), ldb, as, lda, float32(beta), any(c).([]float32), ldc)
	case []float64:
		impl64.Dgemm(tB, tA, n, m, k, float64(alpha), any(b).([]float64), ldb, as, lda, float64(beta), any(c).([]float64), ldc)
	}
}

// Trmv computes x <- op(A)*x for triangular A.
func Trmv[T elem.Float](ul blas.Uplo, tA blas.Transpose, d blas.Diag, n int, a []T, lda int, x []T, incx int) {
	switch as := any(a).(type) {
	case []float32:
		impl32.Strmv(flipUplo(ul), flipTrans(tA), d, n, as, lda, any(x).([]float32), incx)
	case []float64:
		impl64.Dtrmv(flipUplo(ul), flipTrans(tA), d, n, as, lda, any(x).([]float64), incx)
	}
}

// Tpsv solves op(A)*x = b for packed triangular A, overwriting x.
func Tpsv[T elem.Float](ul blas.Uplo, tA blas.Transpose, d blas.Diag, n int, ap []T, x []T, incx int) {
	switch aps := any(ap).(type) {
	case []float32:
		impl32.Stpsv(flipUplo(ul), flipTrans(tA), d, n, aps, any(x).([]float32), incx)
	case []float64:
		impl64.Dtpsv(flipUplo(ul), flipTrans(tA), d, n, aps, any(x).([]float64), incx)
	}
}

// Rotmg constructs the modified Givens rotation eliminating y1, updating
// d1, d2 and x1 in place and writing the transform into the 5-element
// param slice [flag h11 h21 h12 h22]. Only the entries the resulting flag
// defines are written, so untouched elements stay comparable against
// device output.
func Rotmg[T elem.Float](d1, d2, x1 *T, y1 T, param []T) {
	switch p1 := any(d1).(type) {
	case *float32:
		p2, px := any(d2).(*float32), any(x1).(*float32)
		p, rd1, rd2, rx1 := impl32.Srotmg(*p1, *p2, *px, float32(y1))
		*p1, *p2, *px = rd1, rd2, rx1
		writeParams(any(param).([]float32), p.Flag, p.H)
	case *float64:
		p2, px := any(d2).(*float64), any(x1).(*float64)
		p, rd1, rd2, rx1 := impl64.Drotmg(*p1, *p2, *px, float64(y1))
		*p1, *p2, *px = rd1, rd2, rx1
		writeParams(any(param).([]float64), p.Flag, p.H)
	}
}

func writeParams[T elem.Float](param []T, flag blas.Flag, h [4]T) {
	param[0] = T(flag)
	switch flag {
	case blas.Rescaling:
		param[1], param[2], param[3], param[4] = h[0], h[1], h[2], h[3]
	case blas.OffDiagonal:
		param[2], param[3] = h[1], h[2]
	case blas.Diagonal:
		param[1], param[4] = h[0], h[3]
	}
}

// Geam computes C <- alpha*op(A) + beta*op(B), column major. No standard
// BLAS entry exists for this extension, so it is evaluated directly.
func Geam[T elem.Float](tA, tB blas.Transpose, m, n int, alpha T, a []T, lda int, beta T, b []T, ldb int, c []T, ldc int) {
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			var av, bv T
			if tA == blas.NoTrans {
				av = a[i+j*lda]
			} else {
				av = a[j+i*lda]
			}
			if tB == blas.NoTrans {
				bv = b[i+j*ldb]
			} else {
				bv = b[j+i*ldb]
			}
			c[i+j*ldc] = alpha*av + beta*bv
		}
	}
}

// PackTriangular converts the named triangle of a dense column-major n×n
// matrix into packed storage.
func PackTriangular[T elem.Float](upper bool, a []T, n int, ap []T) {
	k := 0
	if upper {
		for j := 0; j < n; j++ {
			for i := 0; i <= j; i++ {
				ap[k] = a[i+j*n]
				k++
			}
		}
	} else {
		for j := 0; j < n; j++ {
			for i := j; i < n; i++ {
				ap[k] = a[i+j*n]
				k++
			}
		}
	}
}
