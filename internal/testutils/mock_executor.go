package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/metrics"
	"github.com/ahrav/go-triptych/internal/ports"
)

var _ ports.Executor = (*MockExecutor)(nil)

// MockExecutor implements ports.Executor with deterministic, per-model
// outcomes. Successful calls produce a CallResult with real metrics so
// downstream code sees realistic records.
type MockExecutor struct {
	mu sync.Mutex

	// Responses maps a model to the text it returns. Models without an
	// entry return DefaultResponse.
	Responses       map[domain.ModelID]string
	DefaultResponse string

	// Errors maps a model to the error it returns.
	Errors map[domain.ModelID]error

	// Panics lists models whose calls panic.
	Panics map[domain.ModelID]any

	// Delays maps a model to an artificial latency.
	Delays map[domain.ModelID]time.Duration

	// NilResult lists models that return neither a result nor an error.
	NilResult map[domain.ModelID]bool

	calc *metrics.Calculator

	// Tracking
	CallCount   int
	LastPrompt  string
	LastOptions domain.GenerationOptions
	Calls       []domain.ModelID
}

// NewMockExecutor creates an executor that answers every model with a
// fixed response.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Responses:       make(map[domain.ModelID]string),
		DefaultResponse: "This is a standard response for testing purposes.",
		Errors:          make(map[domain.ModelID]error),
		Panics:          make(map[domain.ModelID]any),
		Delays:          make(map[domain.ModelID]time.Duration),
		NilResult:       make(map[domain.ModelID]bool),
		calc:            metrics.NewCalculator(nil),
	}
}

// Execute implements ports.Executor.
func (m *MockExecutor) Execute(
	ctx context.Context,
	model domain.ModelID,
	prompt string,
	opts domain.GenerationOptions,
) (*domain.CallResult, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastPrompt = prompt
	m.LastOptions = opts
	m.Calls = append(m.Calls, model)
	delay := m.Delays[model]
	panicValue, shouldPanic := m.Panics[model]
	err := m.Errors[model]
	nilResult := m.NilResult[model]
	text, ok := m.Responses[model]
	if !ok {
		text = m.DefaultResponse
	}
	m.mu.Unlock()

	start := time.Now()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, domain.NewNetworkError(model, ctx.Err())
		}
	}

	if shouldPanic {
		panic(panicValue)
	}
	if err != nil {
		return nil, err
	}
	if nilResult {
		return nil, nil
	}

	end := time.Now()
	in := metrics.Input{
		Prompt:         prompt,
		Response:       text,
		ModelID:        model,
		StartTime:      start,
		EndTime:        end,
		RequestSize:    len(prompt),
		ResponseSize:   len(text),
		APIVersion:     "v1beta",
		RequestConfig:  opts.Resolve(),
		FinishReason:   "STOP",
		CandidateCount: 1,
	}
	perf, quality, tech := m.calc.Calculate(in)
	return &domain.CallResult{
		Text:         text,
		ModelID:      model,
		Timestamp:    end,
		StartTime:    start,
		EndTime:      end,
		ResponseTime: in.ResponseTimeMs(),
		Performance:  perf,
		Quality:      quality,
		Technical:    tech,
	}, nil
}

// GetCallCount returns the number of calls so far.
func (m *MockExecutor) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}
