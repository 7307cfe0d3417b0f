package harness

import (
	"time"

	"github.com/occablas/occablas/devblas"
)

// Time runs cold warm-up invocations, synchronizes, then measures iters
// back-to-back invocations ending on a final synchronization, so the
// clock covers completed device work only. With iters <= 0 nothing is
// measured and the zero duration must not be reported as a rate.
func Time(h *devblas.Handle, cold, iters int, invoke func() error) (time.Duration, error) {
	if iters <= 0 {
		return 0, nil
	}
	for i := 0; i < cold; i++ {
		if err := invoke(); err != nil {
			return 0, err
		}
	}
	h.Synchronize()
	start := time.Now()
	for i := 0; i < iters; i++ {
		if err := invoke(); err != nil {
			return 0, err
		}
	}
	h.Synchronize()
	return time.Since(start), nil
}

// rate converts a per-iteration work count and total elapsed time into a
// per-second figure. Returns 0 for unmeasured cases.
func rate(workPerIter float64, elapsed time.Duration, iters int) float64 {
	if iters <= 0 || elapsed <= 0 {
		return 0
	}
	perIter := elapsed.Seconds() / float64(iters)
	return workPerIter / perIter
}
