package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		entity  string
		errors  []string
		wantMsg string
	}{
		{
			name:    "single validation error",
			entity:  "prompt",
			errors:  []string{"Prompt cannot be empty"},
			wantMsg: "validation error for prompt: Prompt cannot be empty",
		},
		{
			name:    "multiple validation errors",
			entity:  "slots",
			errors:  []string{"slot name cannot be empty", "slot column2 has no model"},
			wantMsg: "validation errors for slots: slot name cannot be empty; slot column2 has no model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.entity)
			assert.False(t, err.HasErrors())
			for _, msg := range tt.errors {
				err.AddError(msg)
			}

			assert.True(t, err.HasErrors())
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.errors, err.Errors)
		})
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	err := NewValidationError("prompt")
	assert.Nil(t, errors.Unwrap(err))

	err.Err = ErrPromptTooLong
	assert.ErrorIs(t, err, ErrPromptTooLong)
	assert.NotErrorIs(t, err, ErrEmptyPrompt)
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name    string
		model   ModelID
		status  int
		message string
		wantMsg string
		status2 bool
	}{
		{
			name:    "with status",
			model:   "gemini-2.5-pro",
			status:  429,
			message: "Resource has been exhausted",
			wantMsg: "api error for gemini-2.5-pro (HTTP 429): Resource has been exhausted",
			status2: true,
		},
		{
			name:    "without status",
			model:   "gemini-2.5-flash",
			message: "No candidates returned from API",
			wantMsg: "api error for gemini-2.5-flash: No candidates returned from API",
		},
		{
			name:    "empty message defaults",
			status:  500,
			wantMsg: "api error (HTTP 500): Unknown error",
			status2: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError(tt.model, tt.status, tt.message, nil)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.status2, err.HasStatus())
			assert.Equal(t, APIErrorUnknown, err.Kind)
		})
	}
}

func TestAPIErrorKind_String(t *testing.T) {
	tests := map[APIErrorKind]string{
		APIErrorUnknown:           "unknown",
		APIErrorAuthentication:    "authentication",
		APIErrorRateLimit:         "rate_limit",
		APIErrorBadRequest:        "bad_request",
		APIErrorNotFound:          "not_found",
		APIErrorServer:            "server_error",
		APIErrorContentPolicy:     "content_policy",
		APIErrorMalformedResponse: "malformed_response",
		APIErrorKind(99):          "unknown",
	}
	for kind, want := range tests {
		assert.Equal(t, want, kind.String())
	}
}

func TestNetworkError(t *testing.T) {
	err := NewNetworkError("gemini-1.5-pro", context.DeadlineExceeded)

	assert.Equal(t, ModelID("gemini-1.5-pro"), err.ModelID)
	assert.Equal(t, "network error for gemini-1.5-pro: Network error while calling gemini-1.5-pro: context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	bare := &NetworkError{ModelID: "m", Message: "offline"}
	assert.Equal(t, "network error for m: offline", bare.Error())
}

func TestSlotError(t *testing.T) {
	cause := errors.New("boom")
	err := &SlotError{Slot: SlotColumn2, ModelID: "gemini-2.0-flash", Err: cause}

	assert.Equal(t, "slot column2 (gemini-2.0-flash) failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsTyped(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "api error", err: NewAPIError("m", 400, "bad", nil), want: true},
		{name: "network error", err: NewNetworkError("m", errors.New("refused")), want: true},
		{name: "validation error", err: NewValidationError("prompt"), want: true},
		{name: "wrapped api error", err: fmt.Errorf("outer: %w", NewAPIError("m", 500, "", nil)), want: true},
		{name: "slot error", err: &SlotError{Err: errors.New("x")}, want: false},
		{name: "plain error", err: errors.New("plain"), want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTyped(tt.err))
		})
	}
}

func TestModelOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ModelID
	}{
		{name: "api error", err: NewAPIError("a", 401, "", nil), want: "a"},
		{name: "network error", err: NewNetworkError("b", nil), want: "b"},
		{name: "slot error", err: &SlotError{ModelID: "c", Err: errors.New("x")}, want: "c"},
		{name: "wrapped", err: fmt.Errorf("ctx: %w", NewAPIError("d", 0, "", nil)), want: "d"},
		{name: "validation error", err: NewValidationError("prompt"), want: ""},
		{name: "plain", err: errors.New("plain"), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModelOf(tt.err))
		})
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrEmptyPrompt,
		ErrPromptTooLong,
		ErrNoCandidates,
		ErrNoContent,
		ErrEmptyResponse,
		ErrMissingResult,
		ErrInvalidConfiguration,
	}
	for i, a := range sentinels {
		require.NotEmpty(t, a.Error())
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
