// Package harness drives one test case end to end: host buffer setup and
// seeded fill, device allocation and transfer, invocation of the routine
// under test in both pointer modes, oracle evaluation, comparison per
// mode, and optional timing of the device-pointer invocation.
package harness

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/occablas/occablas/args"
	"github.com/occablas/occablas/devblas"
	"github.com/occablas/occablas/metrics"
)

// Status is the final disposition of one test case.
type Status string

const (
	// StatusPass: all requested checks held (or the degenerate case
	// returned success as required).
	StatusPass Status = "pass"
	// StatusFail: a correctness check did not hold. Not a system fault;
	// this is the harness doing its job.
	StatusFail Status = "fail"
	// StatusInvalid: the argument combination is invalid and was rejected
	// as such before any allocation.
	StatusInvalid Status = "invalid"
	// StatusError: a transfer, allocation or invocation failed. Fatal to
	// the case, reported immediately.
	StatusError Status = "error"
)

// Result is the per-case record handed to the reporting surface.
type Result struct {
	Function string         `json:"function"`
	Name     string         `json:"name"`
	Args     args.Arguments `json:"args"`
	Status   Status         `json:"status"`

	// Norm-check errors, one per execution mode.
	ErrorHost   float64 `json:"error_host,omitempty"`
	ErrorDevice float64 `json:"error_device,omitempty"`

	// Modes whose checks failed ("host", "device"), in failure order.
	FailedModes []string `json:"failed_modes,omitempty"`
	Messages    []string `json:"messages,omitempty"`

	// Timing output; zero when timing was off or no iterations ran.
	GPUTime time.Duration `json:"gpu_time_ns,omitempty"`
	Gflops  float64       `json:"gflops,omitempty"`
	GBps    float64       `json:"gbps,omitempty"`

	// Failure artifacts for the dump writer, populated on check failure.
	Artifacts []Artifact `json:"-"`

	Err error `json:"-"`
}

// Artifact is one named host buffer snapshot attached to a failed case.
type Artifact struct {
	Name string
	Data []byte
}

func newResult(fn string, a args.Arguments) *Result {
	return &Result{Function: fn, Name: CaseName(fn, a), Args: a, Status: StatusPass}
}

func (r *Result) fatal(err error) *Result {
	r.Status = StatusError
	r.Err = err
	return r
}

func (r *Result) invalid(msg string) *Result {
	r.Status = StatusInvalid
	r.Messages = append(r.Messages, msg)
	return r
}

// recordFailure marks one execution mode's check as failed without
// aborting the case, so a host-mode failure stays distinguishable from a
// device-mode one.
func (r *Result) recordFailure(mode string, err error) {
	r.Status = StatusFail
	r.FailedModes = append(r.FailedModes, mode)
	r.Messages = append(r.Messages, fmt.Sprintf("%s-pointer mode: %v", mode, err))
}

// finishQuickReturn resolves a degenerate invocation that must succeed
// trivially.
func (r *Result) finishQuickReturn(err error) *Result {
	if err != nil {
		r.recordFailure("host", fmt.Errorf("degenerate case must succeed, got: %w", err))
	} else {
		r.Messages = append(r.Messages, "degenerate size, quick return")
	}
	return r
}

// Driver binds a routine name to its argument model and test body.
type Driver struct {
	Name  string
	Model []string
	Run   func(h *devblas.Handle, a args.Arguments) *Result
}

var drivers = make(map[string]*Driver)

func register(d *Driver) {
	drivers[d.Name] = d
}

// Lookup returns the driver for a routine name.
func Lookup(name string) (*Driver, bool) {
	d, ok := drivers[name]
	return d, ok
}

// Names lists the registered routine names in sorted order.
func Names() []string {
	out := make([]string, 0, len(drivers))
	for n := range drivers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// RunCase executes one argument set against the registered driver,
// recording duration and status metrics.
func RunCase(h *devblas.Handle, a args.Arguments) *Result {
	d, ok := drivers[a.Function]
	if !ok {
		r := newResult(a.Function, a)
		return r.fatal(fmt.Errorf("unknown function %q", a.Function))
	}

	start := time.Now()
	r := d.Run(h, a)
	metrics.CaseDuration.WithLabelValues(d.Name).Observe(time.Since(start).Seconds())
	metrics.CasesTotal.WithLabelValues(d.Name, string(r.Status)).Inc()
	for _, mode := range r.FailedModes {
		metrics.CheckFailures.WithLabelValues(d.Name, mode).Inc()
	}
	return r
}

func precisionValid(a args.Arguments) error {
	switch a.Precision {
	case "s", "d":
		return nil
	}
	return fmt.Errorf("unsupported precision %q", a.Precision)
}

func joinModes(modes []string) string {
	return strings.Join(modes, ",")
}
