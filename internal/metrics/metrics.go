// Package metrics collects per-run pipeline metrics and writes them in the
// Prometheus text format, for the node_exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Step outcomes used as the status label.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Pipeline holds the metrics of a single run. Each run gets its own
// registry so repeated runs in one process do not accumulate.
type Pipeline struct {
	reg *prometheus.Registry

	// StepsTotal counts steps by outcome.
	StepsTotal *prometheus.CounterVec
	// StepDuration tracks how long executed steps took.
	StepDuration *prometheus.HistogramVec
	// LastCompletion is the unix time the run finished.
	LastCompletion prometheus.Gauge
}

// New registers the run metrics on a fresh registry.
func New() *Pipeline {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Pipeline{
		reg: reg,
		StepsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bioscons",
				Subsystem: "steps",
				Name:      "total",
				Help:      "Number of pipeline steps by outcome",
			},
			[]string{"status"},
		),
		StepDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bioscons",
				Subsystem: "steps",
				Name:      "duration_seconds",
				Help:      "Wall time of executed pipeline steps",
				Buckets:   prometheus.ExponentialBuckets(0.1, 4, 10), // 0.1s to ~7h
			},
			[]string{"job_name", "status"},
		),
		LastCompletion: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "bioscons",
				Subsystem: "run",
				Name:      "last_completion_timestamp_seconds",
				Help:      "Unix time the last pipeline run finished",
			},
		),
	}
}

// RecordStep records one step. Skipped steps have no duration.
func (m *Pipeline) RecordStep(jobName, status string, seconds float64) {
	m.StepsTotal.WithLabelValues(status).Inc()
	if status != StatusSkipped {
		m.StepDuration.WithLabelValues(jobName, status).Observe(seconds)
	}
}

// WriteTextfile marks the run complete and writes every metric to path.
func (m *Pipeline) WriteTextfile(path string) error {
	m.LastCompletion.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.reg)
}
