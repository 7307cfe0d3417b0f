package harness

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/occablas/occablas/args"
)

func TestCaseName(t *testing.T) {
	a := args.Default()
	a.Function = "axpy_batched"
	a.Precision = "d"
	a.N = 128
	a.Alpha = 2
	a.BatchCount = 5

	assert.Equal(t,
		"daxpy_batched_N_128_alpha_2_incx_1_incy_1_batch_count_5",
		CaseName(a.Function, a))
}

func TestCaseNameNegativeScalar(t *testing.T) {
	a := args.Default()
	a.Function = "axpy_batched"
	a.Precision = "s"
	a.N = 4
	a.Alpha = -0.5

	name := CaseName(a.Function, a)
	assert.NotContains(t, name, "-")
	assert.Contains(t, name, "alpha_n0.5")
}

func TestModelFields(t *testing.T) {
	a := args.Default()
	a.Function = "geam_batched"
	a.Precision = "d"
	a.M, a.N = 3, 7
	a.Lda, a.Ldb, a.Ldc = 3, 3, 3
	a.TransA = "T"

	fields := ModelFields(a.Function, a)
	assert.Equal(t, "T", fields["transA"])
	assert.Equal(t, "3", fields["M"])
	assert.Equal(t, "7", fields["N"])
	assert.Equal(t, "1", fields["batch_count"])
	assert.NotContains(t, fields, "incx")
}

func TestNamesRegistered(t *testing.T) {
	assert.Equal(t, []string{
		"axpy_batched",
		"copy_strided_batched",
		"geam_batched",
		"rotmg",
		"tpsv_batched",
	}, Names())
}

func TestFlopModels(t *testing.T) {
	assert.InDelta(t, 2e-3, AxpyGflops(1_000_000), 1e-12)
	assert.InDelta(t, 24e-3, AxpyGbytes[float64](1_000_000), 1e-12)
	assert.InDelta(t, 3e-3, GeamGflops(1000, 1000), 1e-12)
	assert.InDelta(t, 8e-3, CopyGbytes[float32](1_000_000), 1e-12)
	assert.InDelta(t, 1e-3, TpsvGflops(1000), 1e-12)
	assert.Greater(t, TpsvGbytes[float64](1000), 0.0)
}

func TestTimeNoIterations(t *testing.T) {
	d, err := Time(nil, 0, 0, func() error {
		t.Fatal("invoke must not run")
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestFillerDeterministic(t *testing.T) {
	a := args.Default()
	a.Init = "hpl"
	a.Seed = 1234

	x1 := make([]float64, 16)
	x2 := make([]float64, 16)
	FillSlice(NewFiller(a), x1, true)
	FillSlice(NewFiller(a), x2, true)
	assert.Equal(t, x1, x2)

	a.Seed = 4321
	FillSlice(NewFiller(a), x2, true)
	assert.NotEqual(t, x1, x2)
}

func TestFillerKinds(t *testing.T) {
	a := args.Default()

	xs := make([]float64, 32)
	FillSlice(NewFiller(a), xs, true)
	for _, v := range xs {
		assert.GreaterOrEqual(t, v, 1.0)
		assert.LessOrEqual(t, v, 10.0)
		assert.Equal(t, v, float64(int(v)))
	}

	// Trig split: the second operand continues the index with cosine.
	a.Init = "trig"
	f := NewFiller(a)
	x := make([]float64, 2)
	y := make([]float64, 2)
	FillSlice(f, x, true)
	FillSlice(f, y, false)
	assert.InDelta(t, 0.0, x[0], 1e-15)       // sin(0)
	assert.InDelta(t, -0.9899925, y[0], 1e-6) // cos(3)
}

func TestParseDumpCodec(t *testing.T) {
	for s, want := range map[string]DumpCodec{
		"": DumpRaw, "raw": DumpRaw, "zstd": DumpZstd, "lz4": DumpLZ4,
	} {
		got, err := ParseDumpCodec(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseDumpCodec("gzip")
	assert.Error(t, err)
}

func TestDumpRoundTrip(t *testing.T) {
	sections := []Artifact{
		{Name: "hx", Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{Name: "hy_host", Data: make([]byte, 4096)},
		{Name: "empty", Data: nil},
	}
	for i := range sections[1].Data {
		sections[1].Data[i] = byte(i % 7)
	}

	for _, codec := range []DumpCodec{DumpRaw, DumpZstd, DumpLZ4} {
		path := filepath.Join(t.TempDir(), "case.dump")
		require.NoError(t, WriteDump(path, codec, sections))

		got, err := ReadDump(path)
		require.NoError(t, err, "codec %d", codec)
		require.Len(t, got, len(sections))
		for i := range sections {
			assert.Equal(t, sections[i].Name, got[i].Name)
			assert.True(t, bytes.Equal(sections[i].Data, got[i].Data),
				"codec %d section %s", codec, got[i].Name)
		}
	}
}

func TestDumpRejectsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.dump")
	require.NoError(t, WriteDump(path, DumpRaw, []Artifact{
		{Name: "hx", Data: []byte{9, 9, 9, 9}},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = ReadDump(path)
	assert.ErrorContains(t, err, "digest mismatch")
}

func TestRecorderSummary(t *testing.T) {
	a := args.Default()
	a.Function = "axpy_batched"
	a.Precision = "d"
	a.N = 4

	r := NewRecorder(zerolog.Nop(), RecorderOptions{})
	r.Record(&Result{Function: a.Function, Name: CaseName(a.Function, a), Args: a, Status: StatusPass})
	r.Record(&Result{Function: a.Function, Name: "f1", Args: a, Status: StatusFail, FailedModes: []string{"host"}})
	r.Record(&Result{Function: a.Function, Name: "i1", Args: a, Status: StatusInvalid})
	r.Record(&Result{Function: a.Function, Name: "e1", Args: a, Status: StatusError})
	r.Record(&Result{Function: a.Function, Name: "p2", Args: a, Status: StatusPass})

	s := r.Summary()
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Pass)
	assert.Equal(t, 1, s.Fail)
	assert.Equal(t, 1, s.Invalid)
	assert.Equal(t, 1, s.Errors)
}

func TestRecorderExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r := NewRecorder(zerolog.Nop(), RecorderOptions{JSONPath: path})
	a := args.Default()
	a.Function = "rotmg"
	a.Precision = "d"
	r.Record(&Result{Function: a.Function, Name: "drotmg", Args: a, Status: StatusPass})
	require.NoError(t, r.Export())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"drotmg"`)
	assert.Contains(t, string(data), `"pass"`)
}
