package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-triptych/internal/domain"
)

// mockKeyValueStore implements KeyValueStore over a map.
type mockKeyValueStore struct{ data map[string][]byte }

func newMockKeyValueStore() *mockKeyValueStore {
	return &mockKeyValueStore{data: make(map[string][]byte)}
}

func (m *mockKeyValueStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockKeyValueStore) Put(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *mockKeyValueStore) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// mockMetricsCollector implements MetricsCollector interface
type mockMetricsCollector struct {
	latencies  []time.Duration
	counters   map[string]float64
	gauges     map[string]float64
	histograms map[string][]float64
}

func newMockMetricsCollector() *mockMetricsCollector {
	return &mockMetricsCollector{
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

func (m *mockMetricsCollector) RecordLatency(_ string, duration time.Duration, _ map[string]string) {
	m.latencies = append(m.latencies, duration)
}

func (m *mockMetricsCollector) RecordCounter(metric string, value float64, _ map[string]string) {
	m.counters[metric] += value
}

func (m *mockMetricsCollector) RecordGauge(metric string, value float64, _ map[string]string) {
	m.gauges[metric] = value
}

func (m *mockMetricsCollector) RecordHistogram(metric string, value float64, _ map[string]string) {
	m.histograms[metric] = append(m.histograms[metric], value)
}

type historyFunc func(ctx context.Context, prompt string) error

func (f historyFunc) AddToHistory(ctx context.Context, prompt string) error { return f(ctx, prompt) }

func TestInterfaces_Implementation(t *testing.T) {
	var _ KeyValueStore = (*mockKeyValueStore)(nil)
	var _ MetricsCollector = (*mockMetricsCollector)(nil)
	var _ Executor = ExecutorFunc(nil)
	var _ PromptHistory = historyFunc(nil)
}

func TestExecutorFunc(t *testing.T) {
	var gotModel domain.ModelID
	var gotPrompt string
	exec := ExecutorFunc(func(_ context.Context, model domain.ModelID, prompt string, _ domain.GenerationOptions) (*domain.CallResult, error) {
		gotModel, gotPrompt = model, prompt
		if model == "broken" {
			return nil, domain.NewAPIError(model, 500, "boom", nil)
		}
		return &domain.CallResult{Text: "ok", ModelID: model}, nil
	})

	result, err := exec.Execute(context.Background(), "gemini-2.5-pro", "hello", domain.GenerationOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
	assert.Equal(t, domain.ModelID("gemini-2.5-pro"), gotModel)
	assert.Equal(t, "hello", gotPrompt)

	_, err = exec.Execute(context.Background(), "broken", "hello", domain.GenerationOptions{})
	var apiErr *domain.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestKeyValueStore_Operations(t *testing.T) {
	ctx := context.Background()
	kv := newMockKeyValueStore()

	_, found, err := kv.Get(ctx, "gemini-api-key")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Put(ctx, "gemini-api-key", []byte("AIza")))
	v, found, err := kv.Get(ctx, "gemini-api-key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("AIza"), v)

	require.NoError(t, kv.Delete(ctx, "gemini-api-key"))
	require.NoError(t, kv.Delete(ctx, "gemini-api-key"), "deleting a missing key is not an error")
	_, found, _ = kv.Get(ctx, "gemini-api-key")
	assert.False(t, found)
}

func TestMetricsCollector_Recording(t *testing.T) {
	collector := newMockMetricsCollector()

	collector.RecordLatency("batch", 150*time.Millisecond, nil)
	collector.RecordCounter("gemini_calls_total", 1, map[string]string{"status": "success"})
	collector.RecordCounter("gemini_calls_total", 2, map[string]string{"status": "success"})
	collector.RecordGauge("batch_success_ratio", 0.5, nil)
	collector.RecordGauge("batch_success_ratio", 1, nil)
	collector.RecordHistogram("gemini_call_cost_usd", 0.001, nil)

	assert.Equal(t, []time.Duration{150 * time.Millisecond}, collector.latencies)
	assert.Equal(t, 3.0, collector.counters["gemini_calls_total"])
	assert.Equal(t, 1.0, collector.gauges["batch_success_ratio"])
	assert.Equal(t, []float64{0.001}, collector.histograms["gemini_call_cost_usd"])
}

func TestPromptHistory_Errors(t *testing.T) {
	failing := historyFunc(func(context.Context, string) error { return errors.New("store offline") })
	assert.EqualError(t, failing.AddToHistory(context.Background(), "p"), "store offline")
}
