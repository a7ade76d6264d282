package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/testutils"
)

var threeSlots = map[domain.SlotID]domain.ModelID{
	domain.SlotColumn1: "gemini-2.5-flash",
	domain.SlotColumn2: "gemini-2.5-pro",
	domain.SlotColumn3: "gemini-2.0-flash",
}

type recordingHistory struct {
	mu      sync.Mutex
	prompts []string
	err     error
}

func (h *recordingHistory) AddToHistory(_ context.Context, prompt string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.prompts = append(h.prompts, prompt)
	return nil
}

// withoutTiming copies r with every wall-clock derived field zeroed so
// results from separate runs can be compared.
func withoutTiming(r *domain.CallResult) domain.CallResult {
	c := *r
	c.Timestamp, c.StartTime, c.EndTime = time.Time{}, time.Time{}, time.Time{}
	c.ResponseTime = 0
	c.Performance.StartTime, c.Performance.EndTime = time.Time{}, time.Time{}
	c.Performance.ResponseTime = 0
	c.Performance.Throughput = 0
	return c
}

func TestNewOrchestrator(t *testing.T) {
	t.Run("nil executor", func(t *testing.T) {
		o, err := NewOrchestrator(nil)
		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("slots are copied", func(t *testing.T) {
		slots := map[domain.SlotID]domain.ModelID{domain.SlotColumn1: "gemini-2.5-flash"}
		o, err := NewOrchestrator(testutils.NewMockExecutor(), WithSlots(slots))
		require.NoError(t, err)

		slots[domain.SlotColumn1] = "changed"
		got := o.Slots()
		assert.Equal(t, domain.ModelID("gemini-2.5-flash"), got[domain.SlotColumn1])

		got[domain.SlotColumn2] = "added"
		assert.Len(t, o.Slots(), 1)
	})
}

// TestOrchestrator_ExecuteBatch verifies that every requested slot lands in
// exactly one of the result maps and that failures stay isolated.
func TestOrchestrator_ExecuteBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("all slots succeed", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		exec.Responses["gemini-2.5-pro"] = "Pro answer."
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		batch := o.ExecuteBatch(ctx, threeSlots, "Hello", domain.GenerationOptions{})

		assert.Len(t, batch.Results, 3)
		assert.Empty(t, batch.Errors)
		assert.Equal(t, 3, exec.GetCallCount())
		for slot, model := range threeSlots {
			require.Contains(t, batch.Results, slot)
			assert.Equal(t, model, batch.Results[slot].ModelID)
		}
		assert.Equal(t, "Pro answer.", batch.Results[domain.SlotColumn2].Text)
	})

	t.Run("one slot fails with a network error", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		exec.Errors["gemini-2.5-pro"] = domain.NewNetworkError("gemini-2.5-pro", errors.New("connection refused"))
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		batch := o.ExecuteBatch(ctx, threeSlots, "Hello", domain.GenerationOptions{})

		assert.Len(t, batch.Results, 2)
		require.Len(t, batch.Errors, 1)
		assert.Contains(t, batch.Results, domain.SlotColumn1)
		assert.Contains(t, batch.Results, domain.SlotColumn3)

		var netErr *domain.NetworkError
		require.ErrorAs(t, batch.Errors[domain.SlotColumn2], &netErr)
		assert.Equal(t, domain.ModelID("gemini-2.5-pro"), netErr.ModelID)
		assert.False(t, AllFailed(batch))
	})

	t.Run("failing sibling leaves other results unchanged", func(t *testing.T) {
		responses := map[domain.ModelID]string{
			"gemini-2.5-flash": "Flash answer with a few words.",
			"gemini-2.0-flash": "Second answer? It lists Step 1. and more.",
		}
		newExec := func() *testutils.MockExecutor {
			exec := testutils.NewMockExecutor()
			for m, text := range responses {
				exec.Responses[m] = text
			}
			return exec
		}
		opts := domain.GenerationOptions{Temperature: domain.Ptr(0.3)}

		failing := newExec()
		failing.Errors["gemini-2.5-pro"] = domain.NewNetworkError("gemini-2.5-pro", errors.New("connection refused"))
		o, err := NewOrchestrator(failing)
		require.NoError(t, err)
		batch := o.ExecuteBatch(ctx, threeSlots, "Hello", opts)
		require.Len(t, batch.Results, 2)

		for _, slot := range []domain.SlotID{domain.SlotColumn1, domain.SlotColumn3} {
			solo, err := NewOrchestrator(newExec())
			require.NoError(t, err)
			alone := solo.ExecuteBatch(ctx, map[domain.SlotID]domain.ModelID{slot: threeSlots[slot]}, "Hello", opts)
			require.Contains(t, alone.Results, slot)
			require.Contains(t, batch.Results, slot)

			assert.Equal(t, withoutTiming(alone.Results[slot]), withoutTiming(batch.Results[slot]),
				"slot %s differs from its solo run", slot)
		}
	})

	t.Run("typed api error passes through", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		apiErr := domain.NewAPIError("gemini-2.0-flash", 429, "API request failed: 429 Too Many Requests.", nil)
		exec.Errors["gemini-2.0-flash"] = apiErr
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		batch := o.ExecuteBatch(ctx, threeSlots, "Hello", domain.GenerationOptions{})

		assert.Same(t, apiErr, batch.Errors[domain.SlotColumn3])
	})

	t.Run("untyped error is wrapped", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		boom := errors.New("boom")
		exec.Errors["gemini-2.5-flash"] = boom
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		batch := o.ExecuteBatch(ctx, threeSlots, "Hello", domain.GenerationOptions{})

		var slotErr *domain.SlotError
		require.ErrorAs(t, batch.Errors[domain.SlotColumn1], &slotErr)
		assert.Equal(t, domain.SlotColumn1, slotErr.Slot)
		assert.Equal(t, domain.ModelID("gemini-2.5-flash"), slotErr.ModelID)
		assert.ErrorIs(t, slotErr, boom)
		assert.Len(t, batch.Results, 2)
	})

	t.Run("panic becomes a slot error", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		exec.Panics["gemini-2.5-pro"] = "executor exploded"
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		batch := o.ExecuteBatch(ctx, threeSlots, "Hello", domain.GenerationOptions{})

		var slotErr *domain.SlotError
		require.ErrorAs(t, batch.Errors[domain.SlotColumn2], &slotErr)
		assert.Contains(t, slotErr.Error(), "executor exploded")
		assert.Len(t, batch.Results, 2)
	})

	t.Run("nil result without error", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		exec.NilResult["gemini-2.0-flash"] = true
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		batch := o.ExecuteBatch(ctx, threeSlots, "Hello", domain.GenerationOptions{})

		assert.ErrorIs(t, batch.Errors[domain.SlotColumn3], domain.ErrMissingResult)
		assert.Equal(t, 3, batch.Len())
	})

	t.Run("all slots fail", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		for _, model := range threeSlots {
			exec.Errors[model] = domain.NewAPIError(model, 500, "down", nil)
		}
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		batch := o.ExecuteBatch(ctx, threeSlots, "Hello", domain.GenerationOptions{})

		assert.Empty(t, batch.Results)
		assert.Len(t, batch.Errors, 3)
		assert.True(t, AllFailed(batch))
		assert.Equal(t, domain.ModelID("gemini-2.5-flash"), domain.ModelOf(FirstError(batch)))
	})

	t.Run("empty slot map", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		batch := o.ExecuteBatch(ctx, nil, "Hello", domain.GenerationOptions{})

		require.NotNil(t, batch)
		assert.Zero(t, batch.Len())
		assert.Zero(t, exec.GetCallCount())
		assert.False(t, AllFailed(batch))
		assert.NoError(t, FirstError(batch))
	})

	t.Run("same model in several slots", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		slots := map[domain.SlotID]domain.ModelID{
			domain.SlotColumn1: "gemini-2.5-flash",
			domain.SlotColumn2: "gemini-2.5-flash",
		}
		batch := o.ExecuteBatch(ctx, slots, "Hello", domain.GenerationOptions{})

		assert.Len(t, batch.Results, 2)
		assert.NotSame(t, batch.Results[domain.SlotColumn1], batch.Results[domain.SlotColumn2])
	})

	t.Run("calls run concurrently", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		for _, model := range threeSlots {
			exec.Delays[model] = 100 * time.Millisecond
		}
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		start := time.Now()
		batch := o.ExecuteBatch(ctx, threeSlots, "Hello", domain.GenerationOptions{})
		elapsed := time.Since(start)

		assert.Len(t, batch.Results, 3)
		assert.Less(t, elapsed, 250*time.Millisecond)
	})

	t.Run("slow slot does not block siblings from succeeding", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		exec.Delays["gemini-2.5-pro"] = time.Second
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		batch := o.ExecuteBatch(cctx, threeSlots, "Hello", domain.GenerationOptions{})

		assert.Len(t, batch.Results, 2)
		var netErr *domain.NetworkError
		require.ErrorAs(t, batch.Errors[domain.SlotColumn2], &netErr)
		assert.ErrorIs(t, netErr, context.DeadlineExceeded)
	})

	t.Run("options are passed through", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		opts := domain.GenerationOptions{Temperature: domain.Ptr(0.1), StopSequences: []string{"END"}}
		batch := o.ExecuteBatch(ctx, map[domain.SlotID]domain.ModelID{domain.SlotColumn1: "gemini-2.5-flash"}, "Hello", opts)

		require.Contains(t, batch.Results, domain.SlotColumn1)
		cfg := batch.Results[domain.SlotColumn1].Technical.RequestConfig
		assert.InDelta(t, 0.1, cfg.Temperature, 1e-9)
		assert.Equal(t, []string{"END"}, cfg.StopSequences)
		assert.Equal(t, domain.DefaultTopK, cfg.TopK)
	})
}

func TestOrchestrator_SubmitPrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("validates prompt before calling", func(t *testing.T) {
		tests := []struct {
			name     string
			prompt   string
			sentinel error
		}{
			{name: "empty", prompt: "", sentinel: domain.ErrEmptyPrompt},
			{name: "whitespace", prompt: " \n\t ", sentinel: domain.ErrEmptyPrompt},
			{name: "too long", prompt: strings.Repeat("a", domain.MaxPromptLength+1), sentinel: domain.ErrPromptTooLong},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				exec := testutils.NewMockExecutor()
				o, err := NewOrchestrator(exec, WithSlots(threeSlots))
				require.NoError(t, err)

				batch, err := o.SubmitPrompt(ctx, tt.prompt)
				require.Error(t, err)
				assert.Nil(t, batch)
				assert.ErrorIs(t, err, tt.sentinel)
				assert.True(t, IsValidation(err))
				assert.Zero(t, exec.GetCallCount())
			})
		}
	})

	t.Run("prompt at the limit is accepted", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		o, err := NewOrchestrator(exec, WithSlots(threeSlots))
		require.NoError(t, err)

		batch, err := o.SubmitPrompt(ctx, strings.Repeat("a", domain.MaxPromptLength))
		require.NoError(t, err)
		assert.Len(t, batch.Results, 3)
	})

	t.Run("requires slots", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		o, err := NewOrchestrator(exec)
		require.NoError(t, err)

		_, err = o.SubmitPrompt(ctx, "Hello")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		assert.Zero(t, exec.GetCallCount())
	})

	t.Run("records history and uses configured options", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		history := &recordingHistory{}
		o, err := NewOrchestrator(exec,
			WithSlots(threeSlots),
			WithGenerationOptions(domain.GenerationOptions{MaxOutputTokens: domain.Ptr(64)}),
			WithHistory(history),
		)
		require.NoError(t, err)

		batch, err := o.SubmitPrompt(ctx, "Explain DNS")
		require.NoError(t, err)
		assert.Len(t, batch.Results, 3)
		assert.Equal(t, []string{"Explain DNS"}, history.prompts)
		assert.Equal(t, "Explain DNS", exec.LastPrompt)
		require.NotNil(t, exec.LastOptions.MaxOutputTokens)
		assert.Equal(t, 64, *exec.LastOptions.MaxOutputTokens)
	})

	t.Run("history failure is not fatal", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		history := &recordingHistory{err: errors.New("disk full")}
		o, err := NewOrchestrator(exec, WithSlots(threeSlots), WithHistory(history))
		require.NoError(t, err)

		batch, err := o.SubmitPrompt(ctx, "Hello")
		require.NoError(t, err)
		assert.Len(t, batch.Results, 3)
	})

	t.Run("failed slots still return a batch", func(t *testing.T) {
		exec := testutils.NewMockExecutor()
		exec.Errors["gemini-2.5-pro"] = domain.NewNetworkError("gemini-2.5-pro", errors.New("dial tcp: refused"))
		o, err := NewOrchestrator(exec, WithSlots(threeSlots))
		require.NoError(t, err)

		batch, err := o.SubmitPrompt(ctx, "Hello")
		require.NoError(t, err)
		assert.Len(t, batch.Results, 2)
		assert.Len(t, batch.Errors, 1)
	})
}

func TestCopyOptions(t *testing.T) {
	orig := domain.GenerationOptions{
		Temperature:     domain.Ptr(0.3),
		TopK:            domain.Ptr(5),
		TopP:            domain.Ptr(0.8),
		MaxOutputTokens: domain.Ptr(10),
		StopSequences:   []string{"a"},
	}
	cp := copyOptions(orig)

	*cp.Temperature = 1
	*cp.TopK = 1
	*cp.TopP = 0.1
	*cp.MaxOutputTokens = 1
	cp.StopSequences[0] = "b"

	assert.InDelta(t, 0.3, *orig.Temperature, 1e-9)
	assert.Equal(t, 5, *orig.TopK)
	assert.InDelta(t, 0.8, *orig.TopP, 1e-9)
	assert.Equal(t, 10, *orig.MaxOutputTokens)
	assert.Equal(t, []string{"a"}, orig.StopSequences)

	assert.Equal(t, domain.GenerationOptions{}, copyOptions(domain.GenerationOptions{}))
}
