package devblas

import (
	"fmt"

	"github.com/occablas/occablas/buffer"
	"github.com/occablas/occablas/elem"
)

// CopyStridedBatched copies x into y entry by entry, each batch entry a
// fixed-stride slice of one block. The routine carries no scalar
// coefficients, so it is pointer-mode independent.
func CopyStridedBatched[T elem.Float](h *Handle, n int,
	x *buffer.DeviceStrided[T], incx int, strideX int64,
	y *buffer.DeviceStrided[T], incy int, strideY int64,
	batchCount int) error {

	if err := h.valid(); err != nil {
		return err
	}
	if n <= 0 || batchCount <= 0 {
		return nil
	}
	if x == nil || y == nil {
		return fmt.Errorf("%w: nil block for non-degenerate size", ErrInvalidValue)
	}

	key := "copy_strided_batched_" + elem.Suffix[T]()
	k, err := h.kernel(key, copyStridedBatchedSource[T](), "copyStridedBatched")
	if err != nil {
		return err
	}
	return h.run(k,
		int32(n),
		x.Memory(), int32(incx), strideX,
		y.Memory(), int32(incy), strideY,
		int32(batchCount))
}
