// Package middleware provides observability collaborators for the
// comparison engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-triptych/internal/ports"
)

// Metric names understood by PrometheusMetrics. Other names fall through to
// the generic operation and state vectors.
const (
	MetricCallLatency = "gemini_call_latency_seconds"
	MetricCallsTotal  = "gemini_calls_total"
	MetricTokensTotal = "gemini_tokens_total"
	MetricCallCost    = "gemini_call_cost_usd"
)

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It tracks per-model call latency, outcomes, estimated token usage and
// estimated cost.
type PrometheusMetrics struct {
	registry prometheus.Gatherer

	callLatency      *prometheus.HistogramVec
	callsTotal       *prometheus.CounterVec
	tokensTotal      *prometheus.CounterVec
	callCost         *prometheus.HistogramVec
	operationLatency *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	stateGauges      *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance registered in
// reg. A nil reg uses a fresh private registry, so repeated construction
// never collides.
func NewPrometheusMetrics(reg *prometheus.Registry) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		registry: reg,

		callLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricCallLatency,
				Help:    "Wall-clock duration of Gemini generateContent calls.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"model", "status"},
		),
		callsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCallsTotal,
				Help: "Total number of Gemini calls by model and outcome.",
			},
			[]string{"model", "status"},
		),
		tokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricTokensTotal,
				Help: "Estimated tokens sent and received, by model.",
			},
			[]string{"model", "token_type"},
		),
		callCost: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricCallCost,
				Help:    "Estimated USD cost per call.",
				Buckets: prometheus.ExponentialBuckets(0.000001, 10, 7),
			},
			[]string{"model"},
		),

		operationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "triptych_operation_duration_seconds",
				Help:    "Execution time of comparison operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triptych_events_total",
				Help: "Total number of other recorded events.",
			},
			[]string{"metric", "status"},
		),
		stateGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "triptych_state",
				Help: "Current values of comparison state gauges.",
			},
			[]string{"metric", "model"},
		),
	}
}

// Gatherer returns the registry the metrics were registered in.
func (pm *PrometheusMetrics) Gatherer() prometheus.Gatherer { return pm.registry }

// WriteTextfile writes the current metric values to path in the text
// exposition format, for node_exporter's textfile collector.
func (pm *PrometheusMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, pm.registry)
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	if operation == MetricCallLatency {
		pm.callLatency.WithLabelValues(label(labels, "model"), label(labels, "status")).Observe(duration.Seconds())
		return
	}
	pm.operationLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case MetricCallsTotal:
		pm.callsTotal.WithLabelValues(label(labels, "model"), label(labels, "status")).Add(value)
	case MetricTokensTotal:
		pm.tokensTotal.WithLabelValues(label(labels, "model"), label(labels, "token_type")).Add(value)
	default:
		status, ok := labels["status"]
		if !ok || status == "" {
			status = "success"
		}
		pm.operationCounter.WithLabelValues(metric, status).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.stateGauges.WithLabelValues(metric, label(labels, "model")).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case MetricCallLatency:
		pm.callLatency.WithLabelValues(label(labels, "model"), label(labels, "status")).Observe(value)
	case MetricCallCost:
		pm.callCost.WithLabelValues(label(labels, "model")).Observe(value)
	default:
		pm.operationLatency.WithLabelValues(metric).Observe(value)
	}
}

// label returns labels[key], or "unknown" when it is missing or empty.
func label(labels map[string]string, key string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return "unknown"
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
