// Package application wires the comparison engine together: it fans one
// prompt out to several models, collects per-slot outcomes, summarizes them
// and loads the application configuration.
package application

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/logging"
	"github.com/ahrav/go-triptych/internal/ports"
)

// Orchestrator runs one prompt against several model slots concurrently.
// A failure in one slot never affects the others.
type Orchestrator struct {
	executor ports.Executor
	slots    map[domain.SlotID]domain.ModelID
	options  domain.GenerationOptions
	history  ports.PromptHistory
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithSlots sets the slot mapping used by SubmitPrompt.
func WithSlots(slots map[domain.SlotID]domain.ModelID) OrchestratorOption {
	return func(o *Orchestrator) { o.slots = copySlots(slots) }
}

// WithGenerationOptions sets the options used by SubmitPrompt.
func WithGenerationOptions(opts domain.GenerationOptions) OrchestratorOption {
	return func(o *Orchestrator) { o.options = opts }
}

// WithHistory records submitted prompts in h.
func WithHistory(h ports.PromptHistory) OrchestratorOption {
	return func(o *Orchestrator) { o.history = h }
}

// NewOrchestrator creates an Orchestrator around executor.
func NewOrchestrator(executor ports.Executor, opts ...OrchestratorOption) (*Orchestrator, error) {
	if executor == nil {
		return nil, fmt.Errorf("%w: executor is required", domain.ErrInvalidConfiguration)
	}
	o := &Orchestrator{executor: executor}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Slots returns a copy of the configured slot mapping.
func (o *Orchestrator) Slots() map[domain.SlotID]domain.ModelID { return copySlots(o.slots) }

// ExecuteBatch calls the executor once per slot, all at the same time, and
// waits for every call to finish. Each requested slot lands in exactly one
// of the result maps. The prompt is not validated here.
func (o *Orchestrator) ExecuteBatch(
	ctx context.Context,
	slots map[domain.SlotID]domain.ModelID,
	prompt string,
	opts domain.GenerationOptions,
) *domain.BatchResult {
	batch := domain.NewBatchResult()
	if len(slots) == 0 {
		return batch
	}

	outcomes := make(chan domain.SlotOutcome, len(slots))

	// No WithContext: one slot failing must not cancel its siblings.
	var g errgroup.Group
	for slot, model := range slots {
		g.Go(func() error {
			outcomes <- o.runSlot(ctx, slot, model, prompt, copyOptions(opts))
			return nil
		})
	}
	_ = g.Wait()
	close(outcomes)

	for outcome := range outcomes {
		batch.Record(outcome)
	}
	return batch
}

// runSlot performs one call and converts every possible failure, including
// panics, into an outcome for slot.
func (o *Orchestrator) runSlot(
	ctx context.Context,
	slot domain.SlotID,
	model domain.ModelID,
	prompt string,
	opts domain.GenerationOptions,
) (outcome domain.SlotOutcome) {
	outcome = domain.SlotOutcome{Slot: slot, ModelID: model}
	log := logging.Logger.WithFields(logrus.Fields{"slot": slot, "model": model})
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.WithField("stack", string(debug.Stack())).Errorf("executor panicked: %v", r)
			outcome.Result = nil
			outcome.Err = &domain.SlotError{Slot: slot, ModelID: model, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	result, err := o.executor.Execute(ctx, model, prompt, opts)
	switch {
	case err != nil && !domain.IsTyped(err):
		outcome.Err = &domain.SlotError{Slot: slot, ModelID: model, Err: err}
	case err != nil:
		outcome.Err = err
	default:
		outcome.Result = result
	}

	fields := logrus.Fields{"elapsed_ms": time.Since(start).Milliseconds()}
	if outcome.Err != nil {
		log.WithFields(fields).WithError(outcome.Err).Warn("slot failed")
	} else if result != nil {
		fields["response_time_ms"] = result.ResponseTime
		fields["tokens"] = result.Performance.TokenUsage.Total
		log.WithFields(fields).Debug("slot succeeded")
	}
	return outcome
}

// SubmitPrompt validates prompt, runs it against the configured slots and
// records it in history. A history failure is logged, not returned.
func (o *Orchestrator) SubmitPrompt(ctx context.Context, prompt string) (*domain.BatchResult, error) {
	if err := domain.ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	if err := domain.ValidateSlots(o.slots); err != nil {
		return nil, err
	}

	batch := o.ExecuteBatch(ctx, o.slots, prompt, o.options)

	if o.history != nil {
		if err := o.history.AddToHistory(ctx, prompt); err != nil {
			logging.Logger.WithError(err).Warn("failed to record prompt history")
		}
	}

	logging.Logger.WithFields(logrus.Fields{
		"slots":     len(o.slots),
		"succeeded": len(batch.Results),
		"failed":    len(batch.Errors),
	}).Info("batch complete")
	return batch, nil
}

// AllFailed reports whether a batch produced no successful result.
func AllFailed(batch *domain.BatchResult) bool {
	return batch != nil && len(batch.Results) == 0 && len(batch.Errors) > 0
}

// FirstError returns the error of the lowest-sorted failed slot, or nil.
func FirstError(batch *domain.BatchResult) error {
	if batch == nil {
		return nil
	}
	for _, slot := range domain.SortedSlots(batch.Errors) {
		return batch.Errors[slot]
	}
	return nil
}

// IsValidation reports whether err is a pre-flight validation failure.
func IsValidation(err error) bool {
	var verr *domain.ValidationError
	return errors.As(err, &verr)
}

func copySlots(slots map[domain.SlotID]domain.ModelID) map[domain.SlotID]domain.ModelID {
	if slots == nil {
		return nil
	}
	out := make(map[domain.SlotID]domain.ModelID, len(slots))
	for k, v := range slots {
		out[k] = v
	}
	return out
}

// copyOptions gives each call its own copy of opts so no two in-flight
// calls share memory.
func copyOptions(opts domain.GenerationOptions) domain.GenerationOptions {
	out := domain.GenerationOptions{
		Temperature:     copyPtr(opts.Temperature),
		TopK:            copyPtr(opts.TopK),
		TopP:            copyPtr(opts.TopP),
		MaxOutputTokens: copyPtr(opts.MaxOutputTokens),
	}
	if opts.StopSequences != nil {
		out.StopSequences = append([]string(nil), opts.StopSequences...)
	}
	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
