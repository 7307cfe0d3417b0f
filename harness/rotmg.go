package harness

import (
	"github.com/occablas/occablas/args"
	"github.com/occablas/occablas/buffer"
	"github.com/occablas/occablas/check"
	"github.com/occablas/occablas/devblas"
	"github.com/occablas/occablas/elem"
	"github.com/occablas/occablas/refblas"
)

func init() {
	register(&Driver{
		Name:  "rotmg",
		Model: nil, // no model arguments; the case is fully seed-driven
		Run: func(h *devblas.Handle, a args.Arguments) *Result {
			if err := precisionValid(a); err != nil {
				return newResult("rotmg", a).fatal(err)
			}
			if a.Precision == "s" {
				return runRotmg[float32](h, a)
			}
			return runRotmg[float64](h, a)
		},
	})
}

func runRotmg[T elem.Float](h *devblas.Handle, a args.Arguments) *Result {
	res := newResult("rotmg", a)

	// 9-element layout [d1 d2 x1 y1 flag h11 h21 h12 h22].
	hp := buffer.NewHost[T](devblas.RotmgParamLen, 1)
	filler := NewFiller(a)
	FillSlice(filler, hp.Data, true)

	cp := buffer.NewHost[T](devblas.RotmgParamLen, 1)
	hpDev := buffer.NewHost[T](devblas.RotmgParamLen, 1)
	cp.CopyFrom(hp)
	hpDev.CopyFrom(hp)

	dp, err := buffer.NewDevice[T](h.Device(), devblas.RotmgParamLen, 1)
	if err != nil {
		return res.fatal(err)
	}
	defer dp.Free()
	if err := dp.TransferFrom(hp); err != nil {
		return res.fatal(err)
	}

	// Outputs stay within a modest multiple of eps for this construction.
	tol := elem.Epsilon[T]() * 1000

	if a.UnitCheck || a.NormCheck {
		h.SetPointerMode(devblas.PointerModeHost)
		if err := devblas.Rotmg(h, &hp.Data[0], &hp.Data[1], &hp.Data[2], hp.Data[3], hp.Data[4:]); err != nil {
			return res.fatal(err)
		}

		h.SetPointerMode(devblas.PointerModeDevice)
		if err := devblas.RotmgDevice(h, dp); err != nil {
			return res.fatal(err)
		}
		h.Synchronize()
		if err := dp.TransferTo(hpDev); err != nil {
			return res.fatal(err)
		}

		refblas.Rotmg(&cp.Data[0], &cp.Data[1], &cp.Data[2], cp.Data[3], cp.Data[4:])

		if a.UnitCheck {
			if err := check.Near(1, devblas.RotmgParamLen, 1, cp.Data, hp.Data, tol); err != nil {
				res.recordFailure("host", err)
			}
			if err := check.Near(1, devblas.RotmgParamLen, 1, cp.Data, hpDev.Data, tol); err != nil {
				res.recordFailure("device", err)
			}
			if !check.BitwiseEqual(hp.Data, hpDev.Data) {
				res.recordFailure("device", errModeDivergence)
			}
			if res.Status == StatusFail {
				attachSlice(res, "params_host", hp.Data)
				attachSlice(res, "params_device", hpDev.Data)
				attachSlice(res, "params_expected", cp.Data)
			}
		}
		if a.NormCheck {
			res.ErrorHost = check.NormFrobenius(1, devblas.RotmgParamLen, 1, cp.Data, hp.Data)
			res.ErrorDevice = check.NormFrobenius(1, devblas.RotmgParamLen, 1, cp.Data, hpDev.Data)
		}
	}

	if a.Timing {
		h.SetPointerMode(devblas.PointerModeDevice)
		elapsed, err := Time(h, a.ColdIters, a.Iters, func() error {
			return devblas.RotmgDevice(h, dp)
		})
		if err != nil {
			return res.fatal(err)
		}
		// Scalar construction: time only, no meaningful flop or byte rate.
		res.GPUTime = elapsed
	}

	return res
}
