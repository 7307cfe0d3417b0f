package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/occablas/occablas/args"
	"github.com/occablas/occablas/devblas"
	"github.com/occablas/occablas/device"
)

func newRunHandle(t *testing.T) *devblas.Handle {
	t.Helper()
	dev := device.OpenForTest(t)
	t.Cleanup(dev.Free)
	h, err := devblas.NewHandle(dev)
	require.NoError(t, err)
	t.Cleanup(h.Close)
	return h
}

func smokeArgs(fn, precision string) args.Arguments {
	a := args.Default()
	a.Function = fn
	a.Precision = precision
	a.M, a.N = 16, 16
	a.Lda, a.Ldb, a.Ldc = 16, 16, 16
	a.BatchCount = 3
	a.NormCheck = true
	return a
}

func TestRunCaseAllDriversPass(t *testing.T) {
	h := newRunHandle(t)

	for _, fn := range Names() {
		for _, precision := range []string{"s", "d"} {
			a := smokeArgs(fn, precision)
			res := RunCase(h, a)
			require.NotNil(t, res)
			assert.Equal(t, StatusPass, res.Status,
				"%s %s: %v %v", fn, precision, res.Messages, res.Err)
		}
	}
}

func TestRunCaseNegativeIncrements(t *testing.T) {
	h := newRunHandle(t)

	a := smokeArgs("axpy_batched", "d")
	a.Incx, a.Incy = -2, -1
	res := RunCase(h, a)
	assert.Equal(t, StatusPass, res.Status, "%v %v", res.Messages, res.Err)

	a = smokeArgs("copy_strided_batched", "s")
	a.Incx = -1
	a.StrideScale = 2.5
	res = RunCase(h, a)
	assert.Equal(t, StatusPass, res.Status, "%v %v", res.Messages, res.Err)
}

func TestRunCaseGeamTransposes(t *testing.T) {
	h := newRunHandle(t)

	for _, ta := range []string{"N", "T"} {
		for _, tb := range []string{"N", "T"} {
			a := smokeArgs("geam_batched", "d")
			a.M, a.N = 5, 9
			a.Lda, a.Ldb, a.Ldc = 11, 12, 13
			if ta == "N" {
				a.Lda = 7
			}
			a.TransA, a.TransB = ta, tb
			a.Alpha, a.Beta = 1.5, -0.5
			res := RunCase(h, a)
			assert.Equal(t, StatusPass, res.Status,
				"transA=%s transB=%s: %v %v", ta, tb, res.Messages, res.Err)
		}
	}
}

func TestRunCaseTpsvVariants(t *testing.T) {
	h := newRunHandle(t)

	for _, uplo := range []string{"U", "L"} {
		for _, trans := range []string{"N", "T"} {
			for _, diag := range []string{"N", "U"} {
				a := smokeArgs("tpsv_batched", "d")
				a.N = 12
				a.Uplo, a.TransA, a.Diag = uplo, trans, diag
				res := RunCase(h, a)
				assert.Equal(t, StatusPass, res.Status,
					"uplo=%s trans=%s diag=%s: %v %v",
					uplo, trans, diag, res.Messages, res.Err)
			}
		}
	}
}

func TestRunCaseDegenerate(t *testing.T) {
	h := newRunHandle(t)

	a := smokeArgs("axpy_batched", "d")
	a.N = 0
	res := RunCase(h, a)
	assert.Equal(t, StatusPass, res.Status)
	assert.Contains(t, res.Messages[0], "quick return")

	a = smokeArgs("geam_batched", "s")
	a.BatchCount = 0
	res = RunCase(h, a)
	assert.Equal(t, StatusPass, res.Status)
}

func TestRunCaseInvalid(t *testing.T) {
	h := newRunHandle(t)

	a := smokeArgs("tpsv_batched", "d")
	a.N = -1
	res := RunCase(h, a)
	assert.Equal(t, StatusInvalid, res.Status)

	a = smokeArgs("geam_batched", "d")
	a.Lda = 2 // below M
	res = RunCase(h, a)
	assert.Equal(t, StatusInvalid, res.Status)
}

func TestRunCaseZeroIncrement(t *testing.T) {
	h := newRunHandle(t)

	a := smokeArgs("axpy_batched", "d")
	a.Incx = 0
	res := RunCase(h, a)
	assert.Equal(t, StatusInvalid, res.Status)

	a = smokeArgs("axpy_batched", "s")
	a.Incy = 0
	res = RunCase(h, a)
	assert.Equal(t, StatusInvalid, res.Status)

	a = smokeArgs("copy_strided_batched", "d")
	a.Incy = 0
	res = RunCase(h, a)
	assert.Equal(t, StatusInvalid, res.Status)

	// Zero size still wins over a zero increment as a quick return.
	a = smokeArgs("copy_strided_batched", "d")
	a.N = 0
	a.Incx = 0
	res = RunCase(h, a)
	assert.Equal(t, StatusPass, res.Status)
}

func TestRunCaseShortStride(t *testing.T) {
	h := newRunHandle(t)

	// stride_scale below one packs entries closer than one vector length.
	a := smokeArgs("copy_strided_batched", "d")
	a.StrideScale = 0.5
	res := RunCase(h, a)
	assert.Equal(t, StatusInvalid, res.Status)

	a = smokeArgs("copy_strided_batched", "s")
	a.Incx = -2
	a.StrideScale = 0.75
	res = RunCase(h, a)
	assert.Equal(t, StatusInvalid, res.Status)
}

func TestRunCaseUnknownFunction(t *testing.T) {
	h := newRunHandle(t)

	a := args.Default()
	a.Function = "gemm_batched"
	a.Precision = "d"
	res := RunCase(h, a)
	assert.Equal(t, StatusError, res.Status)
	assert.Error(t, res.Err)
}

func TestRunCaseBadPrecision(t *testing.T) {
	h := newRunHandle(t)

	a := smokeArgs("axpy_batched", "z")
	res := RunCase(h, a)
	assert.Equal(t, StatusError, res.Status)
}

func TestRunCaseTiming(t *testing.T) {
	h := newRunHandle(t)

	a := smokeArgs("axpy_batched", "d")
	a.N = 1024
	a.Timing = true
	a.Iters = 3
	a.ColdIters = 1
	res := RunCase(h, a)
	require.Equal(t, StatusPass, res.Status, "%v %v", res.Messages, res.Err)
	assert.Greater(t, res.GPUTime.Nanoseconds(), int64(0))
	assert.Greater(t, res.Gflops, 0.0)
	assert.Greater(t, res.GBps, 0.0)

	a = smokeArgs("copy_strided_batched", "d")
	a.N = 1024
	a.Timing = true
	a.Iters = 3
	res = RunCase(h, a)
	require.Equal(t, StatusPass, res.Status, "%v %v", res.Messages, res.Err)
	assert.Zero(t, res.Gflops) // copy moves bytes, no flops
	assert.Greater(t, res.GBps, 0.0)
}

func TestRunCaseRotmgSweep(t *testing.T) {
	h := newRunHandle(t)

	// Distinct seeds drive scaling and flag paths.
	for _, seed := range []uint64{1, 7, 69069, 1234567} {
		a := smokeArgs("rotmg", "d")
		a.Seed = seed
		res := RunCase(h, a)
		assert.Equal(t, StatusPass, res.Status,
			"seed %d: %v %v", seed, res.Messages, res.Err)
	}
}
