// Package metrics provides Prometheus metrics for ranking runs.
package metrics

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Manager owns the ranking collectors and a private registry, so a run can be
// exported without the default Go runtime metrics.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         *prometheus.Registry

	candidatesRanked  prometheus.Counter
	rankRuns          prometheus.Counter
	rankDuration      prometheus.Histogram
	classifierCalls   *prometheus.CounterVec
	classifierLatency *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for latency histograms.
// Buckets are sorted and deduplicated; an empty list keeps the defaults.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = slices.Compact(slices.Sorted(slices.Values(buckets)))
		}
	}
}

// WithConstLabels attaches labels such as the run id to every metric.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		for k, v := range labels {
			m.constLabels[k] = v
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "candidate_ranker",
		histogramBuckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.candidatesRanked = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "candidates_ranked_total",
		Help:        "Total number of candidates ranked",
		ConstLabels: m.constLabels,
	})
	m.rankRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "rank_runs_total",
		Help:        "Total number of completed ranking runs",
		ConstLabels: m.constLabels,
	})
	m.rankDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Name:        "rank_duration_seconds",
		Help:        "Duration of ranking runs in seconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
	m.classifierCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "classifier_calls_total",
		Help:        "Total number of semantic classifier calls by operation and outcome",
		ConstLabels: m.constLabels,
	}, []string{"operation", "outcome"})
	m.classifierLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Name:        "classifier_call_duration_seconds",
		Help:        "Latency of semantic classifier calls in seconds by operation",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.registry.MustRegister(
		m.candidatesRanked,
		m.rankRuns,
		m.rankDuration,
		m.classifierCalls,
		m.classifierLatency,
	)

	return m
}

// ClassifierCall records one classifier call.
func (m *Manager) ClassifierCall(operation string, err error, elapsed time.Duration) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}
	m.classifierCalls.WithLabelValues(operation, outcome).Inc()
	m.classifierLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Ranked records a completed ranking run.
func (m *Manager) Ranked(candidates int, elapsed time.Duration) {
	m.rankRuns.Inc()
	m.candidatesRanked.Add(float64(candidates))
	m.rankDuration.Observe(elapsed.Seconds())
}

// Registry exposes the private registry, mainly for tests and exporters.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToFile writes all metrics in the text exposition format, suitable for the
// node_exporter textfile collector. The file is replaced atomically.
func (m *Manager) WriteToFile(path string) error {
	if path == "" {
		return errors.New("metrics file path is empty")
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
