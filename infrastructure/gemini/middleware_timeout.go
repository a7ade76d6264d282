package gemini

import (
	"context"
	"time"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/ports"
)

// timeoutExecutor bounds each call with a deadline.
type timeoutExecutor struct {
	next    ports.Executor
	timeout time.Duration
}

// TimeoutMiddleware enforces a per-call deadline. A non-positive timeout
// leaves calls unbounded. An expired deadline surfaces as a NetworkError.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next ports.Executor) ports.Executor {
		if timeout <= 0 {
			return next
		}
		return &timeoutExecutor{next: next, timeout: timeout}
	}
}

// Execute runs the call under a context with the configured timeout.
func (t *timeoutExecutor) Execute(
	ctx context.Context,
	model domain.ModelID,
	prompt string,
	opts domain.GenerationOptions,
) (*domain.CallResult, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Execute(ctx, model, prompt, opts)
}
