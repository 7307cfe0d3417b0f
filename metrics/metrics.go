// Package metrics exposes Prometheus instrumentation for long harness runs.
// Collectors are registered at init and cost nothing unless scraped.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "occablas_cases_total",
		Help: "Test cases executed, by routine and final status",
	}, []string{"function", "status"})

	CheckFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "occablas_check_failures_total",
		Help: "Correctness check failures, by routine and pointer mode",
	}, []string{"function", "mode"})

	CaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "occablas_case_duration_seconds",
		Help:    "Wall-clock duration of one test case end to end",
		Buckets: prometheus.DefBuckets,
	}, []string{"function"})

	KernelDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "occablas_kernel_duration_seconds",
		Help:    "Measured device time per timed invocation",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
	}, []string{"function"})

	DeviceBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "occablas_device_bytes",
		Help: "Current bytes allocated on the device by live buffers",
	})
)

// Serve exposes the /metrics endpoint on addr. The listener starts in the
// background; close the returned server to stop it.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
