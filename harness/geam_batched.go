package harness

import (
	"fmt"

	"gonum.org/v1/gonum/blas"

	"github.com/occablas/occablas/args"
	"github.com/occablas/occablas/buffer"
	"github.com/occablas/occablas/check"
	"github.com/occablas/occablas/devblas"
	"github.com/occablas/occablas/elem"
	"github.com/occablas/occablas/refblas"
)

func init() {
	register(&Driver{
		Name:  "geam_batched",
		Model: []string{"transA", "transB", "M", "N", "alpha", "lda", "beta", "ldb", "ldc", "batch_count"},
		Run: func(h *devblas.Handle, a args.Arguments) *Result {
			if err := precisionValid(a); err != nil {
				return newResult("geam_batched", a).fatal(err)
			}
			if a.Precision == "s" {
				return runGeamBatched[float32](h, a)
			}
			return runGeamBatched[float64](h, a)
		},
	})
}

func runGeamBatched[T elem.Float](h *devblas.Handle, a args.Arguments) *Result {
	res := newResult("geam_batched", a)

	transA, err := a.BlasTransA()
	if err != nil {
		return res.fatal(err)
	}
	transB, err := a.BlasTransB()
	if err != nil {
		return res.fatal(err)
	}

	m, n := a.M, a.N
	lda, ldb, ldc := a.Lda, a.Ldb, a.Ldc
	batch := a.BatchCount

	aRow, aCol, bRow, bCol := m, n, m, n
	if transA != blas.NoTrans {
		aRow, aCol = n, m
	}
	if transB != blas.NoTrans {
		bRow, bCol = n, m
	}

	// Pre-allocation guard: reject inconsistent dimensions before any
	// buffer exists. Distinct from the degenerate quick return below.
	if m < 0 || n < 0 || lda < max(1, aRow) || ldb < max(1, bRow) || ldc < max(1, m) || batch < 0 {
		return res.invalid(fmt.Sprintf("rejected before allocation: m=%d n=%d lda=%d ldb=%d ldc=%d batch=%d",
			m, n, lda, ldb, ldc, batch))
	}
	if m == 0 || n == 0 || batch == 0 {
		return res.finishQuickReturn(nil)
	}

	sizeA := lda * aCol
	sizeB := ldb * bCol
	sizeC := ldc * n

	alpha := elem.From[T](a.Alpha)
	beta := elem.From[T](a.Beta)

	hA := buffer.NewHostBatch[T](sizeA, 1, batch)
	hB := buffer.NewHostBatch[T](sizeB, 1, batch)
	hC1 := buffer.NewHostBatch[T](sizeC, 1, batch)
	hC2 := buffer.NewHostBatch[T](sizeC, 1, batch)
	hCCPU := buffer.NewHostBatch[T](sizeC, 1, batch)

	filler := NewFiller(a)
	FillBatch(filler, hA, true)
	FillBatch(filler, hB, false)
	FillBatch(filler, hC1, false)
	hC2.CopyFrom(hC1)
	hCCPU.CopyFrom(hC1)

	dA, err := buffer.NewDeviceBatch[T](h.Device(), sizeA, 1, batch)
	if err != nil {
		return res.fatal(err)
	}
	defer dA.Free()
	dB, err := buffer.NewDeviceBatch[T](h.Device(), sizeB, 1, batch)
	if err != nil {
		return res.fatal(err)
	}
	defer dB.Free()
	dC, err := buffer.NewDeviceBatch[T](h.Device(), sizeC, 1, batch)
	if err != nil {
		return res.fatal(err)
	}
	defer dC.Free()
	dAlpha, err := deviceScalar(h, alpha)
	if err != nil {
		return res.fatal(err)
	}
	defer dAlpha.Free()
	dBeta, err := deviceScalar(h, beta)
	if err != nil {
		return res.fatal(err)
	}
	defer dBeta.Free()

	if err := dA.TransferFrom(hA); err != nil {
		return res.fatal(err)
	}
	if err := dB.TransferFrom(hB); err != nil {
		return res.fatal(err)
	}

	if a.UnitCheck || a.NormCheck {
		// Host-pointer mode first, into C1.
		if err := dC.TransferFrom(hC1); err != nil {
			return res.fatal(err)
		}
		h.SetPointerMode(devblas.PointerModeHost)
		if err := devblas.GeamBatched(h, transA, transB, m, n,
			devblas.HostScalar(alpha), dA, lda,
			devblas.HostScalar(beta), dB, ldb,
			dC, ldc, batch); err != nil {
			return res.fatal(err)
		}
		h.Synchronize()
		if err := dC.TransferTo(hC1); err != nil {
			return res.fatal(err)
		}

		// Device-pointer mode, C reset first, into C2.
		if err := dC.TransferFrom(hC2); err != nil {
			return res.fatal(err)
		}
		h.SetPointerMode(devblas.PointerModeDevice)
		if err := devblas.GeamBatched(h, transA, transB, m, n,
			devblas.DeviceScalar[T](dAlpha.Memory()), dA, lda,
			devblas.DeviceScalar[T](dBeta.Memory()), dB, ldb,
			dC, ldc, batch); err != nil {
			return res.fatal(err)
		}
		h.Synchronize()
		if err := dC.TransferTo(hC2); err != nil {
			return res.fatal(err)
		}

		for b := 0; b < batch; b++ {
			refblas.Geam(transA, transB, m, n, alpha, hA.Vecs[b], lda, beta, hB.Vecs[b], ldb, hCCPU.Vecs[b], ldc)
		}

		if a.UnitCheck {
			if err := check.UnitBatch(m, n, ldc, hCCPU.Vecs, hC1.Vecs); err != nil {
				res.recordFailure("host", err)
			}
			if err := check.UnitBatch(m, n, ldc, hCCPU.Vecs, hC2.Vecs); err != nil {
				res.recordFailure("device", err)
			}
			if !check.BitwiseEqualBatch(hC1.Vecs, hC2.Vecs) {
				res.recordFailure("device", errModeDivergence)
			}
			if res.Status == StatusFail {
				attachBatch(res, "A", hA)
				attachBatch(res, "B", hB)
				attachBatch(res, "C_host", hC1)
				attachBatch(res, "C_device", hC2)
				attachBatch(res, "C_expected", hCCPU)
			}
		}
		if a.NormCheck {
			res.ErrorHost = check.NormBatchMax(m, n, ldc, hCCPU.Vecs, hC1.Vecs)
			res.ErrorDevice = check.NormBatchMax(m, n, ldc, hCCPU.Vecs, hC2.Vecs)
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
			return devblas.GeamBatched(h, transA, transB, m, n,
				devblas.DeviceScalar[T](dAlpha.Memory()), dA, lda,
				devblas.DeviceScalar[T](dBeta.Memory()), dB, ldb,
				dC, ldc, batch)
		})
		if err != nil {
			return res.fatal(err)
		}
		res.GPUTime = elapsed
		res.Gflops = rate(GeamGflops(m, n)*float64(batch), elapsed, a.Iters)
		res.GBps = rate(GeamGbytes[T](m, n)*float64(batch), elapsed, a.Iters)
	}

	return res
}
