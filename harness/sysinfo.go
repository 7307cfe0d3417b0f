package harness

import (
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sys/cpu"
)

// LogHostInfo emits one host summary line at the start of a run, the way
// benchmark headers do.
func LogHostInfo(log zerolog.Logger) {
	ev := log.Info().
		Str("go", runtime.Version()).
		Str("os", runtime.GOOS).
		Str("arch", runtime.GOARCH).
		Int("cpus", runtime.NumCPU())

	if runtime.GOARCH == "amd64" {
		ev = ev.Bool("avx", cpu.X86.HasAVX).
			Bool("avx2", cpu.X86.HasAVX2).
			Bool("avx512f", cpu.X86.HasAVX512F).
			Bool("fma", cpu.X86.HasFMA).
			Bool("sse42", cpu.X86.HasSSE42)
	}
	if runtime.GOARCH == "arm64" {
		ev = ev.Bool("neon", cpu.ARM64.HasASIMD).
			Bool("sve", cpu.ARM64.HasSVE)
	}
	ev.Msg("host")
}
