package gemini

import "github.com/ahrav/go-triptych/internal/ports"

// Middleware wraps an Executor to add cross-cutting behavior without
// touching the call itself.
type Middleware func(ports.Executor) ports.Executor

// Chain applies middleware so that the first one listed is the outermost.
func Chain(exec ports.Executor, middleware ...Middleware) ports.Executor {
	for i := len(middleware) - 1; i >= 0; i-- {
		if middleware[i] != nil {
			exec = middleware[i](exec)
		}
	}
	return exec
}
