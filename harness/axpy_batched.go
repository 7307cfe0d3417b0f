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
		Name:  "axpy_batched",
		Model: []string{"N", "alpha", "incx", "incy", "batch_count"},
		Run: func(h *devblas.Handle, a args.Arguments) *Result {
			if err := precisionValid(a); err != nil {
				return newResult("axpy_batched", a).fatal(err)
			}
			if a.Precision == "s" {
				return runAxpyBatched[float32](h, a)
			}
			return runAxpyBatched[float64](h, a)
		},
	})
}

// deviceScalar stages one coefficient into a single-element device buffer
// for device-pointer-mode invocations.
func deviceScalar[T elem.Float](h *devblas.Handle, v T) (*buffer.Device[T], error) {
	host := buffer.NewHost[T](1, 1)
	host.Data[0] = v
	d, err := buffer.NewDevice[T](h.Device(), 1, 1)
	if err != nil {
		return nil, err
	}
	if err := d.TransferFrom(host); err != nil {
		d.Free()
		return nil, err
	}
	return d, nil
}

func runAxpyBatched[T elem.Float](h *devblas.Handle, a args.Arguments) *Result {
	res := newResult("axpy_batched", a)
	n, incx, incy, batch := a.N, a.Incx, a.Incy, a.BatchCount
	absIncy := incy
	if absIncy < 0 {
		absIncy = -absIncy
	}

	alpha := elem.From[T](a.Alpha)

	if n <= 0 || batch <= 0 {
		h.SetPointerMode(devblas.PointerModeHost)
		err := devblas.AxpyBatched(h, n, devblas.HostScalar(alpha), nil, incx, nil, incy, batch)
		return res.finishQuickReturn(err)
	}

	// Zero increments never reach allocation or the oracle.
	if incx == 0 || incy == 0 {
		return res.invalid(fmt.Sprintf("rejected before allocation: incx=%d incy=%d", incx, incy))
	}

	hx := buffer.NewHostBatch[T](n, incx, batch)
	hyHost := buffer.NewHostBatch[T](n, incy, batch)
	hyDevice := buffer.NewHostBatch[T](n, incy, batch)
	hyCPU := buffer.NewHostBatch[T](n, incy, batch)

	filler := NewFiller(a)
	FillBatch(filler, hx, true)
	FillBatch(filler, hyHost, false)
	hyDevice.CopyFrom(hyHost)
	hyCPU.CopyFrom(hyHost)

	dx, err := buffer.NewDeviceBatch[T](h.Device(), n, incx, batch)
	if err != nil {
		return res.fatal(err)
	}
	defer dx.Free()
	dyHost, err := buffer.NewDeviceBatch[T](h.Device(), n, incy, batch)
	if err != nil {
		return res.fatal(err)
	}
	defer dyHost.Free()
	dyDevice, err := buffer.NewDeviceBatch[T](h.Device(), n, incy, batch)
	if err != nil {
		return res.fatal(err)
	}
	defer dyDevice.Free()
	dAlpha, err := deviceScalar(h, alpha)
	if err != nil {
		return res.fatal(err)
	}
	defer dAlpha.Free()

	if err := dx.TransferFrom(hx); err != nil {
		return res.fatal(err)
	}
	if err := dyHost.TransferFrom(hyHost); err != nil {
		return res.fatal(err)
	}
	if err := dyDevice.TransferFrom(hyDevice); err != nil {
		return res.fatal(err)
	}

	if a.UnitCheck || a.NormCheck {
		h.SetPointerMode(devblas.PointerModeDevice)
		if err := devblas.AxpyBatched(h, n, devblas.DeviceScalar[T](dAlpha.Memory()),
			dx, incx, dyDevice, incy, batch); err != nil {
			return res.fatal(err)
		}

		h.SetPointerMode(devblas.PointerModeHost)
		if err := devblas.AxpyBatched(h, n, devblas.HostScalar(alpha),
			dx, incx, dyHost, incy, batch); err != nil {
			return res.fatal(err)
		}
		h.Synchronize()

		if err := dyHost.TransferTo(hyHost); err != nil {
			return res.fatal(err)
		}
		if err := dyDevice.TransferTo(hyDevice); err != nil {
			return res.fatal(err)
		}

		for b := 0; b < batch; b++ {
			refblas.Axpy(n, alpha, hx.Vecs[b], incx, hyCPU.Vecs[b], incy)
		}

		if a.UnitCheck {
			if err := check.UnitBatch(1, n, absIncy, hyCPU.Vecs, hyHost.Vecs); err != nil {
				res.recordFailure("host", err)
				attachBatch(res, "y_host", hyHost)
			}
			if err := check.UnitBatch(1, n, absIncy, hyCPU.Vecs, hyDevice.Vecs); err != nil {
				res.recordFailure("device", err)
				attachBatch(res, "y_device", hyDevice)
			}
			if !check.BitwiseEqualBatch(hyHost.Vecs, hyDevice.Vecs) {
				res.recordFailure("device", errModeDivergence)
			}
			if res.Status == StatusFail {
				attachBatch(res, "x", hx)
				attachBatch(res, "y_expected", hyCPU)
			}
		}
		if a.NormCheck {
			res.ErrorHost = check.NormBatchMax(1, n, absIncy, hyCPU.Vecs, hyHost.Vecs)
			res.ErrorDevice = check.NormBatchMax(1, n, absIncy, hyCPU.Vecs, hyDevice.Vecs)
			if a.NormTol > 0 {
				if err := check.NearScalar(res.ErrorHost, a.NormTol); err != nil {
					res.recordFailure("host", err)
				}
				if err := check.NearScalar(res.ErrorDevice, a.NormTol); err != nil {
					res.recordFailure("device", err)
				}
			}
		}
	}

	if a.Timing {
		h.SetPointerMode(devblas.PointerModeDevice)
		elapsed, err := Time(h, a.ColdIters, a.Iters, func() error {
			return devblas.AxpyBatched(h, n, devblas.DeviceScalar[T](dAlpha.Memory()),
				dx, incx, dyDevice, incy, batch)
		})
		if err != nil {
			return res.fatal(err)
		}
		res.GPUTime = elapsed
		res.Gflops = rate(AxpyGflops(n)*float64(batch), elapsed, a.Iters)
		res.GBps = rate(AxpyGbytes[T](n)*float64(batch), elapsed, a.Iters)
	}

	return res
}
