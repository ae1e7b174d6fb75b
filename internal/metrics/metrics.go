// Package metrics records operational metrics for export runs behind a
// small, backend-agnostic interface.
//
// A global backend defaults to a no-op implementation, so instrumentation is
// always safe to call. Concrete systems (Prometheus Pushgateway, DogStatsD)
// live in subpackages and are installed with SetBackend at startup.
package metrics

import "time"

// Metric names emitted by this package.
const (
	StepTotal           = "bggexport_step_total"
	StepDurationSeconds = "bggexport_step_duration_seconds"
	RowsTotal           = "bggexport_rows_total"
)

// Row kinds accepted by RecordRow.
const (
	RowsRead     = "read"
	RowsAccepted = "accepted"
	RowsRejected = "rejected"
	RowsWritten  = "written"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes buffered metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Reset restores the no-op backend.
func Reset() { backend = nopBackend{} }

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one pipeline step and observes its duration, labelled
// with success or failure.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRow adds delta rows of the given kind (see the Rows* constants).
// Non-positive deltas are ignored.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}
