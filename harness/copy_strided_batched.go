package harness

import (
	"fmt"

	"github.com/occablas/occablas/args"
	"github.com/occablas/occablas/buffer"
	"github.com/occablas/occablas/check"
	"github.com/occablas/occablas/devblas"
	"github.com/occablas/occablas/elem"
	"github.com/occablas/occablas/refblas"
)

func init() {
	register(&Driver{
		Name:  "copy_strided_batched",
		Model: []string{"N", "incx", "incy", "stride_scale", "batch_count"},
		Run: func(h *devblas.Handle, a args.Arguments) *Result {
			if err := precisionValid(a); err != nil {
				return newResult("copy_strided_batched", a).fatal(err)
			}
			if a.Precision == "s" {
				return runCopyStridedBatched[float32](h, a)
			}
			return runCopyStridedBatched[float64](h, a)
		},
	})
}

func runCopyStridedBatched[T elem.Float](h *devblas.Handle, a args.Arguments) *Result {
	res := newResult("copy_strided_batched", a)
	n, incx, incy, batch := a.N, a.Incx, a.Incy, a.BatchCount
	strideX, strideY := a.StrideX(), a.StrideY()
	absIncx := incx
	if absIncx < 0 {
		absIncx = -absIncx
	}
	absIncy := incy
	if absIncy < 0 {
		absIncy = -absIncy
	}

	if n <= 0 || batch <= 0 {
		err := devblas.CopyStridedBatched[T](h, n, nil, incx, strideX, nil, incy, strideY, batch)
		return res.finishQuickReturn(err)
	}

	// Zero increments never reach allocation or the oracle, and a stride
	// below the entry length would alias consecutive batch entries.
	if incx == 0 || incy == 0 {
		return res.invalid(fmt.Sprintf("rejected before allocation: incx=%d incy=%d", incx, incy))
	}
	if strideX < int64(n*absIncx) || strideY < int64(n*absIncy) {
		return res.invalid(fmt.Sprintf("stride below entry length: strideX=%d strideY=%d n=%d incx=%d incy=%d",
			strideX, strideY, n, incx, incy))
	}

	hx := buffer.NewHostStrided[T](n, incx, strideX, batch)
	hy := buffer.NewHostStrided[T](n, incy, strideY, batch)
	hyCPU := buffer.NewHostStrided[T](n, incy, strideY, batch)

	filler := NewFiller(a)
	FillStrided(filler, hx, true)
	FillStrided(filler, hy, false)
	hyCPU.CopyFrom(hy)

	dx, err := buffer.NewDeviceStrided[T](h.Device(), n, incx, strideX, batch)
	if err != nil {
		return res.fatal(err)
	}
	defer dx.Free()
	dy, err := buffer.NewDeviceStrided[T](h.Device(), n, incy, strideY, batch)
	if err != nil {
		return res.fatal(err)
	}
	defer dy.Free()

	if err := dx.TransferFrom(hx); err != nil {
		return res.fatal(err)
	}
	if err := dy.TransferFrom(hy); err != nil {
		return res.fatal(err)
	}

	if a.UnitCheck || a.NormCheck {
		if err := devblas.CopyStridedBatched(h, n, dx, incx, strideX, dy, incy, strideY, batch); err != nil {
			return res.fatal(err)
		}
		h.Synchronize()
		if err := dy.TransferTo(hy); err != nil {
			return res.fatal(err)
		}

		for b := 0; b < batch; b++ {
			refblas.Copy(n, hx.Entry(b), incx, hyCPU.Entry(b), incy)
		}

		if a.UnitCheck {
			if err := check.UnitStrided(1, n, absIncy, strideY, batch, hyCPU.Data, hy.Data); err != nil {
				res.recordFailure("host", err)
				attachStrided(res, "x", hx)
				attachStrided(res, "y_got", hy)
				attachStrided(res, "y_expected", hyCPU)
			}
		}
		if a.NormCheck {
			res.ErrorHost = check.NormStridedMax(1, n, absIncy, strideY, batch, hyCPU.Data, hy.Data)
			if a.NormTol > 0 {
				if err := check.NearScalar(res.ErrorHost, a.NormTol); err != nil {
					res.recordFailure("host", err)
				}
			}
		}
	}

	if a.Timing {
		elapsed, err := Time(h, a.ColdIters, a.Iters, func() error {
			return devblas.CopyStridedBatched(h, n, dx, incx, strideX, dy, incy, strideY, batch)
		})
		if err != nil {
			return res.fatal(err)
		}
		res.GPUTime = elapsed
		// A copy moves bytes and performs no flops.
		res.GBps = rate(CopyGbytes[T](n)*float64(batch), elapsed, a.Iters)
	}

	return res
}
