package devblas

import (
	"fmt"

	"gonum.org/v1/gonum/blas"

	"github.com/occablas/occablas/buffer"
	"github.com/occablas/occablas/elem"
)

// TpsvBatched solves op(A[b])*x[b] = b[b] for packed triangular A,
// overwriting each x entry with the solution. Negative n or batchCount,
// or a zero increment, is invalid; zero n or batchCount is a quick
// success. No scalar coefficients, so pointer mode does not apply.
func TpsvBatched[T elem.Float](h *Handle, uplo blas.Uplo, transA blas.Transpose, diag blas.Diag,
	n int, ap *buffer.DeviceBatch[T],
	x *buffer.DeviceBatch[T], incx int,
	batchCount int) error {

	if err := h.valid(); err != nil {
		return err
	}
	if n < 0 || incx == 0 || batchCount < 0 {
		return fmt.Errorf("%w: tpsv n=%d incx=%d batch=%d", ErrInvalidValue, n, incx, batchCount)
	}
	if n == 0 || batchCount == 0 {
		return nil
	}
	if ap == nil || x == nil {
		return fmt.Errorf("%w: nil batch for non-degenerate size", ErrInvalidValue)
	}

	upper := int32(0)
	if uplo == blas.Upper {
		upper = 1
	}
	unitDiag := int32(0)
	if diag == blas.Unit {
		unitDiag = 1
	}

	key := "tpsv_batched_" + elem.Suffix[T]()
	k, err := h.kernel(key, tpsvBatchedSource[T](), "tpsvBatched")
	if err != nil {
		return err
	}
	return h.run(k,
		upper, transFlag(transA), unitDiag, int32(n),
		ap.Memory(), ap.Offsets(),
		x.Memory(), x.Offsets(), int32(incx),
		int32(batchCount))
}
