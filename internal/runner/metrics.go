package runner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/scan-io-git/lint-adapters/pkg/lint"
)

// Invocation outcomes recorded by the invocations counter.
const (
	OutcomeClean    = "clean"
	OutcomeFindings = "findings"
	OutcomeFailed   = "failed"
	OutcomeSkipped  = "skipped"
)

// Metrics holds the counters of one run in a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	findings    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates and registers the run metrics.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	// Count of linter invocations per outcome.
	m.invocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lint_invocations_total",
		Help: "Count of linter invocations by outcome",
	}, []string{"linter", "outcome"})

	// Count of reported findings per severity.
	m.findings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lint_findings_total",
		Help: "Count of findings reported by each linter",
	}, []string{"linter", "severity"})

	// Invocation durations.
	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lint_invocation_duration_seconds",
		Help:    "Durations of individual linter invocations",
		Buckets: prometheus.LinearBuckets(0, 0.25, 40),
	}, []string{"linter"})

	m.registry.MustRegister(m.invocations, m.findings, m.duration)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(linter, outcome string, elapsed time.Duration, findings []lint.Finding) {
	m.invocations.WithLabelValues(linter, outcome).Inc()
	if elapsed > 0 {
		m.duration.WithLabelValues(linter).Observe(elapsed.Seconds())
	}
	for _, f := range findings {
		m.findings.WithLabelValues(linter, f.Severity.String()).Inc()
	}
}

// WriteToTextfile writes the metrics in the text exposition format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
