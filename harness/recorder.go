package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/occablas/occablas/metrics"
)

// RecorderOptions configure the reporting surface of a run.
type RecorderOptions struct {
	// DumpDir, when set, receives one artifact file per failed case.
	DumpDir   string
	DumpCodec DumpCodec
	// JSONPath, when set, receives the full run report on Export.
	JSONPath string
}

// Recorder accumulates per-case results under one run ID and emits the
// per-case log line keyed by the routine name and its argument values.
type Recorder struct {
	log     zerolog.Logger
	runID   uuid.UUID
	opts    RecorderOptions
	results []*Result
}

// NewRecorder creates a recorder bound to a logger.
func NewRecorder(log zerolog.Logger, opts RecorderOptions) *Recorder {
	return &Recorder{log: log, runID: uuid.New(), opts: opts}
}

// RunID identifies this run in reports and dump file names.
func (r *Recorder) RunID() uuid.UUID {
	return r.runID
}

// Record logs one case result and retains it for the run report.
func (r *Recorder) Record(res *Result) {
	r.results = append(r.results, res)

	var ev *zerolog.Event
	switch res.Status {
	case StatusError:
		ev = r.log.Error().Err(res.Err)
	case StatusFail:
		ev = r.log.Warn()
	default:
		ev = r.log.Info()
	}
	ev = ev.Str("function", res.Function).
		Str("case", res.Name).
		Str("status", string(res.Status))
	for k, v := range ModelFields(res.Function, res.Args) {
		ev = ev.Str(k, v)
	}
	if res.Args.NormCheck {
		ev = ev.Float64("error_host", res.ErrorHost).Float64("error_device", res.ErrorDevice)
	}
	if len(res.FailedModes) > 0 {
		ev = ev.Str("failed_modes", joinModes(res.FailedModes))
		for _, m := range res.Messages {
			r.log.Debug().Str("case", res.Name).Msg(m)
		}
	}
	if res.GPUTime > 0 {
		ev = ev.Dur("gpu_time", res.GPUTime)
		if res.Gflops > 0 {
			ev = ev.Float64("gflops", res.Gflops)
		}
		if res.GBps > 0 {
			ev = ev.Float64("gbps", res.GBps)
		}
		if res.Args.Iters > 0 {
			perIter := res.GPUTime.Seconds() / float64(res.Args.Iters)
			metrics.KernelDuration.WithLabelValues(res.Function).Observe(perIter)
		}
	}
	ev.Msg("case complete")

	if res.Status == StatusFail && r.opts.DumpDir != "" && len(res.Artifacts) > 0 {
		r.writeDump(res)
	}
}

func (r *Recorder) writeDump(res *Result) {
	name := fmt.Sprintf("%s_%s.dump", r.runID, res.Name)
	path := filepath.Join(r.opts.DumpDir, name)
	if err := os.MkdirAll(r.opts.DumpDir, 0o755); err != nil {
		r.log.Error().Err(err).Msg("creating dump directory")
		return
	}
	if err := WriteDump(path, r.opts.DumpCodec, res.Artifacts); err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("writing failure dump")
		return
	}
	r.log.Info().Str("path", path).Msg("failure artifacts dumped")
}

// Summary tallies the run's case dispositions.
type Summary struct {
	Total   int `json:"total"`
	Pass    int `json:"pass"`
	Fail    int `json:"fail"`
	Invalid int `json:"invalid"`
	Errors  int `json:"errors"`
}

// Summary returns the current tallies.
func (r *Recorder) Summary() Summary {
	s := Summary{Total: len(r.results)}
	for _, res := range r.results {
		switch res.Status {
		case StatusPass:
			s.Pass++
		case StatusFail:
			s.Fail++
		case StatusInvalid:
			s.Invalid++
		case StatusError:
			s.Errors++
		}
	}
	return s
}

type runReport struct {
	RunID    string    `json:"run_id"`
	When     time.Time `json:"when"`
	Summary  Summary   `json:"summary"`
	Results  []*Result `json:"results"`
	Failures []string  `json:"failures,omitempty"`
}

// Export writes the accumulated run report as JSON when a path was
// configured.
func (r *Recorder) Export() error {
	if r.opts.JSONPath == "" {
		return nil
	}
	report := runReport{
		RunID:   r.runID.String(),
		When:    time.Now().UTC(),
		Summary: r.Summary(),
		Results: r.results,
	}
	for _, res := range r.results {
		if res.Status == StatusFail {
			report.Failures = append(report.Failures, res.Name)
		}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}
	return os.WriteFile(r.opts.JSONPath, data, 0o644)
}
