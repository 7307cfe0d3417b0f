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
		Name:  "tpsv_batched",
		Model: []string{"uplo", "transA", "diag", "N", "incx", "batch_count"},
		Run: func(h *devblas.Handle, a args.Arguments) *Result {
			if err := precisionValid(a); err != nil {
				return newResult("tpsv_batched", a).fatal(err)
			}
			if a.Precision == "s" {
				return runTpsvBatched[float32](h, a)
			}
			return runTpsvBatched[float64](h, a)
		},
	})
}

func runTpsvBatched[T elem.Float](h *devblas.Handle, a args.Arguments) *Result {
	res := newResult("tpsv_batched", a)

	uplo, err := a.BlasUplo()
	if err != nil {
		return res.fatal(err)
	}
	transA, err := a.BlasTransA()
	if err != nil {
		return res.fatal(err)
	}
	diag, err := a.BlasDiag()
	if err != nil {
		return res.fatal(err)
	}

	n, incx, batch := a.N, a.Incx, a.BatchCount
	absIncx := incx
	if absIncx < 0 {
		absIncx = -absIncx
	}

	// The library asserts invalid sizes itself; degenerate sizes succeed
	// trivially. The two must stay distinguishable.
	invalidSize := n < 0 || incx == 0 || batch < 0
	if invalidSize || n == 0 || batch == 0 {
		err := devblas.TpsvBatched[T](h, uplo, transA, diag, n, nil, nil, incx, batch)
		if invalidSize {
			if err == nil {
				res.recordFailure("host", fmt.Errorf("invalid size accepted: n=%d incx=%d batch=%d", n, incx, batch))
				return res
			}
			return res.invalid(err.Error())
		}
		return res.finishQuickReturn(err)
	}

	sizeA := n * n
	sizeAP := n * (n + 1) / 2

	hA := buffer.NewHostBatch[T](sizeA, 1, batch)
	hAP := buffer.NewHostBatch[T](sizeAP, 1, batch)
	aat := buffer.NewHostBatch[T](sizeA, 1, batch)
	hb := buffer.NewHostBatch[T](n, incx, batch)
	hx := buffer.NewHostBatch[T](n, incx, batch)
	hxOrB := buffer.NewHostBatch[T](n, incx, batch)

	filler := NewFiller(a)
	FillBatch(filler, hA, true)
	FillBatch(filler, hx, false)
	hb.CopyFrom(hx)

	for b := 0; b < batch; b++ {
		// A <- A*Aᵀ, then force strict diagonal dominance so A is SPD.
		refblas.Gemm(blas.NoTrans, blas.Trans, n, n, n,
			elem.From[T](1), hA.Vecs[b], n, hA.Vecs[b], n, elem.From[T](0), aat.Vecs[b], n)
		for i := 0; i < n; i++ {
			var t T
			for j := 0; j < n; j++ {
				v := aat.Vecs[b][i+j*n]
				hA.Vecs[b][i+j*n] = v
				t += elem.Abs(v)
			}
			hA.Vecs[b][i+i*n] = t
		}

		if ok := refblas.CholeskyFactor(uplo, n, hA.Vecs[b], n); !ok {
			return res.fatal(fmt.Errorf("cholesky factorization failed for batch %d", b))
		}

		// Unit-diagonal scaling keeps the solve well posed when the
		// routine is told to assume ones on the diagonal.
		if diag == blas.Unit {
			scaleUnitDiagonal(uplo == blas.Lower, hA.Vecs[b], n)
		}

		// b <- op(A)*x, so the known solution is x itself.
		refblas.Trmv(uplo, transA, diag, n, hA.Vecs[b], n, hb.Vecs[b], incx)

		refblas.PackTriangular(uplo == blas.Upper, hA.Vecs[b], n, hAP.Vecs[b])
	}
	hxOrB.CopyFrom(hb)

	dAP, err := buffer.NewDeviceBatch[T](h.Device(), sizeAP, 1, batch)
	if err != nil {
		return res.fatal(err)
	}
	defer dAP.Free()
	dxOrB, err := buffer.NewDeviceBatch[T](h.Device(), n, incx, batch)
	if err != nil {
		return res.fatal(err)
	}
	defer dxOrB.Free()

	if err := dAP.TransferFrom(hAP); err != nil {
		return res.fatal(err)
	}
	if err := dxOrB.TransferFrom(hxOrB); err != nil {
		return res.fatal(err)
	}

	if a.UnitCheck || a.NormCheck {
		if err := devblas.TpsvBatched(h, uplo, transA, diag, n, dAP, dxOrB, incx, batch); err != nil {
			return res.fatal(err)
		}
		h.Synchronize()
		if err := dxOrB.TransferTo(hxOrB); err != nil {
			return res.fatal(err)
		}

		// Per-batch relative error of the recovered solution against the
		// known x; the aggregate reported is the worst entry.
		tol := elem.Epsilon[T]() * 40 * float64(n)
		var worst float64
		for b := 0; b < batch; b++ {
			e := check.VectorNorm1Rel(n, absIncx, hx.Vecs[b], hxOrB.Vecs[b])
			if a.UnitCheck {
				if err := check.NearScalar(e, tol); err != nil {
					res.recordFailure("host", fmt.Errorf("batch %d: %w", b, err))
				}
			}
			if e > worst {
				worst = e
			}
		}
		res.ErrorHost = worst
		if res.Status == StatusFail {
			attachBatch(res, "AP", hAP)
			attachBatch(res, "x_got", hxOrB)
			attachBatch(res, "x_expected", hx)
		}
		if a.NormCheck && a.NormTol > 0 {
			if err := check.NearScalar(worst, a.NormTol); err != nil {
				res.recordFailure("host", err)
			}
		}
	}

	if a.Timing {
		elapsed, err := Time(h, a.ColdIters, a.Iters, func() error {
			return devblas.TpsvBatched(h, uplo, transA, diag, n, dAP, dxOrB, incx, batch)
		})
		if err != nil {
			return res.fatal(err)
		}
		res.GPUTime = elapsed
		res.Gflops = rate(TpsvGflops(n)*float64(batch), elapsed, a.Iters)
		res.GBps = rate(TpsvGbytes[T](n)*float64(batch), elapsed, a.Iters)
	}

	return res
}

// scaleUnitDiagonal divides each triangle column/row by its diagonal so
// the stored factor has an implicit unit diagonal.
func scaleUnitDiagonal[T elem.Float](lower bool, a []T, n int) {
	if lower {
		for i := 0; i < n; i++ {
			d := a[i+i*n]
			for j := 0; j <= i; j++ {
				a[i+j*n] /= d
			}
		}
	} else {
		for j := 0; j < n; j++ {
			d := a[j+j*n]
			for i := 0; i <= j; i++ {
				a[i+j*n] /= d
			}
		}
	}
}
