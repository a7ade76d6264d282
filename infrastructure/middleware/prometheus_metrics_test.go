package middleware

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-triptych/internal/ports"
)

// TestNewPrometheusMetrics verifies that a new PrometheusMetrics instance is
// created with all its internal metrics properly initialized.
func TestNewPrometheusMetrics(t *testing.T) {
	pm := NewPrometheusMetrics(nil)

	assert.NotNil(t, pm.callLatency)
	assert.NotNil(t, pm.callsTotal)
	assert.NotNil(t, pm.tokensTotal)
	assert.NotNil(t, pm.callCost)
	assert.NotNil(t, pm.operationLatency)
	assert.NotNil(t, pm.operationCounter)
	assert.NotNil(t, pm.stateGauges)

	var _ ports.MetricsCollector = pm

	// A second instance must not collide with the first.
	assert.NotPanics(t, func() { NewPrometheusMetrics(nil) })
}

func TestNewPrometheusMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusMetrics(reg)
	assert.Panics(t, func() { NewPrometheusMetrics(reg) })
}

func TestPrometheusMetrics_RecordCounter(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		value  float64
		labels map[string]string
		read   func(pm *PrometheusMetrics) float64
	}{
		{
			name:   "calls total by model and status",
			metric: MetricCallsTotal,
			value:  1,
			labels: map[string]string{"model": "gemini-2.5-flash", "status": "success"},
			read: func(pm *PrometheusMetrics) float64 {
				return testutil.ToFloat64(pm.callsTotal.WithLabelValues("gemini-2.5-flash", "success"))
			},
		},
		{
			name:   "tokens by type",
			metric: MetricTokensTotal,
			value:  42,
			labels: map[string]string{"model": "gemini-2.5-pro", "token_type": "output"},
			read: func(pm *PrometheusMetrics) float64 {
				return testutil.ToFloat64(pm.tokensTotal.WithLabelValues("gemini-2.5-pro", "output"))
			},
		},
		{
			name:   "missing labels become unknown",
			metric: MetricCallsTotal,
			value:  3,
			labels: map[string]string{},
			read: func(pm *PrometheusMetrics) float64 {
				return testutil.ToFloat64(pm.callsTotal.WithLabelValues("unknown", "unknown"))
			},
		},
		{
			name:   "other metrics go to the event counter",
			metric: "batches_total",
			value:  2,
			labels: nil,
			read: func(pm *PrometheusMetrics) float64 {
				return testutil.ToFloat64(pm.operationCounter.WithLabelValues("batches_total", "success"))
			},
		},
		{
			name:   "event counter keeps status",
			metric: "batches_total",
			value:  1,
			labels: map[string]string{"status": "all_failed"},
			read: func(pm *PrometheusMetrics) float64 {
				return testutil.ToFloat64(pm.operationCounter.WithLabelValues("batches_total", "all_failed"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewPrometheusMetrics(nil)
			pm.RecordCounter(tt.metric, tt.value, tt.labels)
			pm.RecordCounter(tt.metric, tt.value, tt.labels)
			assert.InDelta(t, 2*tt.value, tt.read(pm), 1e-9)
		})
	}
}

func TestPrometheusMetrics_RecordGauge(t *testing.T) {
	pm := NewPrometheusMetrics(nil)

	pm.RecordGauge("batch_success_ratio", 0.5, nil)
	pm.RecordGauge("batch_success_ratio", 0.75, nil)
	pm.RecordGauge("last_response_time_ms", 1200, map[string]string{"model": "gemini-2.0-flash"})

	assert.InDelta(t, 0.75, testutil.ToFloat64(pm.stateGauges.WithLabelValues("batch_success_ratio", "unknown")), 1e-9)
	assert.InDelta(t, 1200, testutil.ToFloat64(pm.stateGauges.WithLabelValues("last_response_time_ms", "gemini-2.0-flash")), 1e-9)
}

func TestPrometheusMetrics_Histograms(t *testing.T) {
	pm := NewPrometheusMetrics(nil)
	labels := map[string]string{"model": "gemini-2.5-flash", "status": "success"}

	pm.RecordHistogram(MetricCallLatency, 0.4, labels)
	pm.RecordLatency(MetricCallLatency, 600*time.Millisecond, labels)
	pm.RecordHistogram(MetricCallCost, 0.0001, map[string]string{"model": "gemini-2.5-flash"})
	pm.RecordLatency("batch", time.Second, nil)
	pm.RecordHistogram("prompt_length", 120, nil)

	assert.Equal(t, 1, testutil.CollectAndCount(pm.callLatency))
	assert.Equal(t, 1, testutil.CollectAndCount(pm.callCost))
	assert.Equal(t, 2, testutil.CollectAndCount(pm.operationLatency))

	families, err := pm.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != MetricCallLatency {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		h := mf.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(2), h.GetSampleCount())
		assert.InDelta(t, 1.0, h.GetSampleSum(), 1e-9)
	}
}

func TestPrometheusMetrics_WriteTextfile(t *testing.T) {
	pm := NewPrometheusMetrics(nil)
	pm.RecordCounter(MetricCallsTotal, 1, map[string]string{"model": "gemini-2.5-flash", "status": "success"})

	path := filepath.Join(t.TempDir(), "triptych.prom")
	require.NoError(t, pm.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `gemini_calls_total{model="gemini-2.5-flash",status="success"} 1`)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "x", label(map[string]string{"k": "x"}, "k"))
	assert.Equal(t, "unknown", label(map[string]string{"k": ""}, "k"))
	assert.Equal(t, "unknown", label(nil, "k"))
}
