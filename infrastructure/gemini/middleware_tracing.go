package gemini

import (
	"context"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/ports"
)

// tracedExecutor wraps each call in an OpenTelemetry span.
type tracedExecutor struct {
	next   ports.Executor
	tracer trace.Tracer
}

// TracingMiddleware creates a span per call using the global tracer
// provider.
func TracingMiddleware(serviceName string) Middleware {
	return func(next ports.Executor) ports.Executor {
		return &tracedExecutor{next: next, tracer: otel.Tracer(serviceName)}
	}
}

// Execute runs the call inside a "gemini.generate_content" span.
func (t *tracedExecutor) Execute(
	ctx context.Context,
	model domain.ModelID,
	prompt string,
	opts domain.GenerationOptions,
) (*domain.CallResult, error) {
	ctx, span := t.tracer.Start(ctx, "gemini.generate_content",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(callAttributes(model, prompt)...),
	)
	defer span.End()

	result, err := t.next.Execute(ctx, model, prompt, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("gemini.status", callStatus(err)))
		return result, err
	}

	if result != nil {
		span.SetAttributes(
			attribute.Int("gemini.tokens.input", result.Performance.TokenUsage.Input),
			attribute.Int("gemini.tokens.output", result.Performance.TokenUsage.Output),
			attribute.Int64("gemini.response_time_ms", result.ResponseTime),
			attribute.String("gemini.finish_reason", result.Quality.FinishReason),
		)
	}
	span.SetStatus(codes.Ok, "")
	return result, err
}

// callAttributes describes a call before it is sent. The prompt length is
// counted in characters.
func callAttributes(model domain.ModelID, prompt string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("gemini.model", string(model)),
		attribute.Int("gemini.prompt.length", utf8.RuneCountInString(prompt)),
	}
}
