// Package observability provides the metrics surface for engine operations.
// Deployments choose between a process-local expvar recorder and a
// Prometheus recorder.
package observability

import (
	"context"
	"time"
)

// MetricsRecorder observes the duration and outcome of one engine operation
// (create, read, update, move, delete).
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

// Observe implements MetricsRecorder.
func (NopMetrics) Observe(context.Context, string, bool, time.Duration) {}
