// Package metrics exports run counters and durations in the Prometheus
// text format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AndreyAkinshin/devgenie/internal/runner"
)

const namespace = "devgenie"

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeCanceled = "canceled"
)

// Recorder collects metrics for runner results on its own registry. It
// implements runner.Observer.
type Recorder struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	tests    *prometheus.CounterVec
}

var _ runner.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Toolchain runs by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of toolchain runs.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"kind"}),
		tests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tests_total",
			Help:      "Test cases reported by test runs, by result.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(r.runs, r.duration, r.tests)
	return r
}

// Registry returns the registry holding the Recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveBuild records a build result.
func (r *Recorder) ObserveBuild(res runner.BuildResult) {
	r.runs.WithLabelValues("build", outcome(res.Success, res.Canceled)).Inc()
	r.duration.WithLabelValues("build").Observe(res.Duration.Seconds())
}

// ObserveTests records a test result.
func (r *Recorder) ObserveTests(res runner.TestResult) {
	r.runs.WithLabelValues("test", outcome(res.Success, res.Canceled)).Inc()
	r.duration.WithLabelValues("test").Observe(res.Elapsed.Seconds())
	r.tests.WithLabelValues("passed").Add(float64(res.PassedTests))
	r.tests.WithLabelValues("failed").Add(float64(res.FailedTests))
	r.tests.WithLabelValues("skipped").Add(float64(res.SkippedTests))
}

// WriteTextfile writes all metrics to path for the node exporter textfile
// collector. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func outcome(success, canceled bool) string {
	switch {
	case canceled:
		return OutcomeCanceled
	case success:
		return OutcomeSuccess
	default:
		return OutcomeFailure
	}
}
