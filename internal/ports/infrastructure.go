package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-triptych/internal/domain"
)

// Executor performs one model call and derives its metrics.
// Implementations must never return an untyped error: every failure is a
// *domain.APIError, *domain.NetworkError or *domain.ValidationError.
type Executor interface {
	// Execute sends prompt to model with the given generation options.
	// It returns a fully populated CallResult on success.
	//
	// Parameters:
	//   - ctx: Context for cancellation and deadline propagation
	//   - model: The catalog identifier of the model to call
	//   - prompt: The user prompt, sent verbatim
	//   - opts: Generation options; unset fields take their defaults
	Execute(
		ctx context.Context,
		model domain.ModelID,
		prompt string,
		opts domain.GenerationOptions,
	) (*domain.CallResult, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, model domain.ModelID, prompt string, opts domain.GenerationOptions) (*domain.CallResult, error)

// Execute calls f.
func (f ExecutorFunc) Execute(
	ctx context.Context,
	model domain.ModelID,
	prompt string,
	opts domain.GenerationOptions,
) (*domain.CallResult, error) {
	return f(ctx, model, prompt, opts)
}

// ModelCatalog is a read-only lookup of model descriptions.
type ModelCatalog interface {
	// Lookup returns the entry for id and whether it exists.
	Lookup(id domain.ModelID) (domain.ModelInfo, bool)

	// DisplayName returns the human-readable name for id, falling back to
	// the raw identifier for unknown models.
	DisplayName(id domain.ModelID) string

	// All returns every entry in a stable order.
	All() []domain.ModelInfo
}

// KeyValueStore is the opaque persistence contract used for credentials,
// templates, history and UI state.
// Implementations could use BoltDB, a browser store, or memory.
type KeyValueStore interface {
	// Get returns the value stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. It returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}

// PromptHistory records submitted prompts.
type PromptHistory interface {
	// AddToHistory records prompt as the most recent entry.
	AddToHistory(ctx context.Context, prompt string) error
}

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus,
// OpenTelemetry, or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like successes, errors, tokens.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// This is useful for tracking distributions like response sizes
	// or estimated cost.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
