package gemini

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/ports"
)

// metricsExecutor records call outcomes through a MetricsCollector.
type metricsExecutor struct {
	next      ports.Executor
	collector ports.MetricsCollector
}

// MetricsMiddleware records latency, request counts, estimated tokens and
// estimated cost for every call.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next ports.Executor) ports.Executor {
		return &metricsExecutor{next: next, collector: collector}
	}
}

// Execute forwards the call and records its outcome.
func (m *metricsExecutor) Execute(
	ctx context.Context,
	model domain.ModelID,
	prompt string,
	opts domain.GenerationOptions,
) (*domain.CallResult, error) {
	start := time.Now()
	result, err := m.next.Execute(ctx, model, prompt, opts)

	if m.collector == nil {
		return result, err
	}

	labels := map[string]string{
		"model":  string(model),
		"status": callStatus(err),
	}
	m.collector.RecordHistogram("gemini_call_latency_seconds", time.Since(start).Seconds(), labels)
	m.collector.RecordCounter("gemini_calls_total", 1, labels)

	if err == nil && result != nil {
		usage := result.Performance.TokenUsage
		m.collector.RecordCounter("gemini_tokens_total", float64(usage.Input),
			map[string]string{"model": string(model), "token_type": "input"})
		m.collector.RecordCounter("gemini_tokens_total", float64(usage.Output),
			map[string]string{"model": string(model), "token_type": "output"})
		m.collector.RecordHistogram("gemini_call_cost_usd", result.Performance.EstimatedCost,
			map[string]string{"model": string(model)})
	}

	return result, err
}

// callStatus returns a low-cardinality label for err.
func callStatus(err error) string {
	if err == nil {
		return "success"
	}
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return "timeout"
		}
		return "network_error"
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind.String()
	}
	return "error"
}
