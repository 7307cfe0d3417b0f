package devblas

import (
	"fmt"

	"gonum.org/v1/gonum/blas"

	"github.com/occablas/occablas/buffer"
	"github.com/occablas/occablas/elem"
)

// GeamBatched computes C[b] <- alpha*op(A[b]) + beta*op(B[b]), column
// major, for every batch entry. Leading dimensions below the respective
// operand row counts are invalid; zero m, n or batchCount is a quick
// success.
func GeamBatched[T elem.Float](h *Handle, transA, transB blas.Transpose, m, n int,
	alpha Scalar[T], a *buffer.DeviceBatch[T], lda int,
	beta Scalar[T], b *buffer.DeviceBatch[T], ldb int,
	c *buffer.DeviceBatch[T], ldc int,
	batchCount int) error {

	if err := h.valid(); err != nil {
		return err
	}

	aRow, bRow := m, m
	if transA != blas.NoTrans {
		aRow = n
	}
	if transB != blas.NoTrans {
		bRow = n
	}
	if m < 0 || n < 0 || lda < max(1, aRow) || ldb < max(1, bRow) || ldc < max(1, m) || batchCount < 0 {
		return fmt.Errorf("%w: geam m=%d n=%d lda=%d ldb=%d ldc=%d batch=%d",
			ErrInvalidValue, m, n, lda, ldb, ldc, batchCount)
	}
	if m == 0 || n == 0 || batchCount == 0 {
		return nil
	}
	if err := checkScalar(h, "alpha", alpha); err != nil {
		return err
	}
	if err := checkScalar(h, "beta", beta); err != nil {
		return err
	}
	if a == nil || b == nil || c == nil {
		return fmt.Errorf("%w: nil batch for non-degenerate size", ErrInvalidValue)
	}

	key := "geam_batched_" + elem.Suffix[T]() + "_" + h.mode.String()
	k, err := h.kernel(key, geamBatchedSource[T](h.mode), "geamBatched")
	if err != nil {
		return err
	}
	return h.run(k,
		transFlag(transA), transFlag(transB),
		int32(m), int32(n),
		alpha.arg(), a.Memory(), a.Offsets(), int32(lda),
		beta.arg(), b.Memory(), b.Offsets(), int32(ldb),
		c.Memory(), c.Offsets(), int32(ldc),
		int32(batchCount))
}

func transFlag(t blas.Transpose) int32 {
	if t == blas.NoTrans {
		return 0
	}
	return 1
}
