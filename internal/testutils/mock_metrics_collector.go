package testutils

import (
	"sync"
	"time"

	"github.com/ahrav/go-triptych/internal/ports"
)

var _ ports.MetricsCollector = (*MockMetricsCollector)(nil)

// MockMetricsCollector accumulates recorded values keyed by
// "metric:model" (or just "metric" when no model label is present).
type MockMetricsCollector struct {
	mu         sync.Mutex
	Counters   map[string]float64
	Gauges     map[string]float64
	Histograms map[string][]float64
	Latencies  map[string][]time.Duration
	Labels     map[string][]map[string]string
}

// NewMockMetricsCollector creates an empty collector.
func NewMockMetricsCollector() *MockMetricsCollector {
	return &MockMetricsCollector{
		Counters:   make(map[string]float64),
		Gauges:     make(map[string]float64),
		Histograms: make(map[string][]float64),
		Latencies:  make(map[string][]time.Duration),
		Labels:     make(map[string][]map[string]string),
	}
}

func metricKey(metric string, labels map[string]string) string {
	if model, ok := labels["model"]; ok {
		return metric + ":" + model
	}
	return metric
}

func (m *MockMetricsCollector) track(metric string, labels map[string]string) string {
	copied := make(map[string]string, len(labels))
	for k, v := range labels {
		copied[k] = v
	}
	m.Labels[metric] = append(m.Labels[metric], copied)
	return metricKey(metric, labels)
}

// RecordLatency implements ports.MetricsCollector.
func (m *MockMetricsCollector) RecordLatency(operation string, d time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := m.track(operation, labels)
	m.Latencies[key] = append(m.Latencies[key], d)
}

// RecordCounter implements ports.MetricsCollector.
func (m *MockMetricsCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counters[m.track(metric, labels)] += value
}

// RecordGauge implements ports.MetricsCollector.
func (m *MockMetricsCollector) RecordGauge(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gauges[m.track(metric, labels)] = value
}

// RecordHistogram implements ports.MetricsCollector.
func (m *MockMetricsCollector) RecordHistogram(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := m.track(metric, labels)
	m.Histograms[key] = append(m.Histograms[key], value)
}

// Counter returns the accumulated value for key.
func (m *MockMetricsCollector) Counter(key string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Counters[key]
}

// LabelsFor returns the label sets recorded for metric, in call order.
func (m *MockMetricsCollector) LabelsFor(metric string) []map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]map[string]string(nil), m.Labels[metric]...)
}
