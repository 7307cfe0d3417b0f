package devblas

import (
	"fmt"

	"github.com/occablas/occablas/buffer"
	"github.com/occablas/occablas/elem"
)

// AxpyBatched computes y[b] <- alpha*x[b] + y[b] for every batch entry.
// Degenerate sizes (n <= 0, batchCount <= 0) succeed without touching any
// buffer.
func AxpyBatched[T elem.Float](h *Handle, n int, alpha Scalar[T],
	x *buffer.DeviceBatch[T], incx int,
	y *buffer.DeviceBatch[T], incy int,
	batchCount int) error {

	if err := h.valid(); err != nil {
		return err
	}
	if n <= 0 || batchCount <= 0 {
		return nil
	}
	if err := checkScalar(h, "alpha", alpha); err != nil {
		return err
	}
	if x == nil || y == nil {
		return fmt.Errorf("%w: nil batch for non-degenerate size", ErrInvalidValue)
	}

	key := "axpy_batched_" + elem.Suffix[T]() + "_" + h.mode.String()
	k, err := h.kernel(key, axpyBatchedSource[T](h.mode), "axpyBatched")
	if err != nil {
		return err
	}
	return h.run(k,
		int32(n), alpha.arg(),
		x.Memory(), x.Offsets(), int32(incx),
		y.Memory(), y.Offsets(), int32(incy),
		int32(batchCount))
}
