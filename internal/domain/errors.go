package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by the typed errors below so callers can match
// them with errors.Is.
var (
	// ErrEmptyPrompt indicates a prompt that is empty or whitespace only.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrPromptTooLong indicates a prompt over MaxPromptLength characters.
	ErrPromptTooLong = errors.New("prompt is too long")

	// ErrNoCandidates indicates a successful response without candidates.
	ErrNoCandidates = errors.New("no candidates returned from API")

	// ErrNoContent indicates that the first candidate carried no parts.
	ErrNoContent = errors.New("no content in API response")

	// ErrEmptyResponse indicates that the first candidate's text was blank.
	ErrEmptyResponse = errors.New("empty response from API")

	// ErrMissingResult indicates an executor that returned neither a result
	// nor an error.
	ErrMissingResult = errors.New("executor returned no result")

	// ErrInvalidConfiguration indicates that configuration is invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ValidationError reports malformed caller input detected before any call
// is made. It can carry several failures for the same entity.
type ValidationError struct {
	// Entity is the name of the thing that failed validation.
	Entity string

	// Errors contains the validation failure messages.
	Errors []string

	// Err optionally links the failure to a sentinel.
	Err error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %s", e.Entity, strings.Join(e.Errors, "; "))
}

// Unwrap returns the linked sentinel, if any.
func (e *ValidationError) Unwrap() error { return e.Err }

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}

// APIErrorKind classifies an APIError for display. It never drives retries.
type APIErrorKind int

const (
	// APIErrorUnknown is an error of undetermined category.
	APIErrorUnknown APIErrorKind = iota
	// APIErrorAuthentication indicates a rejected credential.
	APIErrorAuthentication
	// APIErrorRateLimit indicates the upstream throttled the call.
	APIErrorRateLimit
	// APIErrorBadRequest indicates malformed parameters.
	APIErrorBadRequest
	// APIErrorNotFound indicates an unknown model or endpoint.
	APIErrorNotFound
	// APIErrorServer indicates a failure on the upstream side.
	APIErrorServer
	// APIErrorContentPolicy indicates the request was blocked by safety filters.
	APIErrorContentPolicy
	// APIErrorMalformedResponse indicates a 2xx response that could not be used.
	APIErrorMalformedResponse
)

// String returns the snake_case name of the kind.
func (k APIErrorKind) String() string {
	switch k {
	case APIErrorAuthentication:
		return "authentication"
	case APIErrorRateLimit:
		return "rate_limit"
	case APIErrorBadRequest:
		return "bad_request"
	case APIErrorNotFound:
		return "not_found"
	case APIErrorServer:
		return "server_error"
	case APIErrorContentPolicy:
		return "content_policy"
	case APIErrorMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// APIError reports an upstream failure for one model: either a non-success
// status or a structurally unusable success response. StatusCode is zero
// when no HTTP status applies.
type APIError struct {
	ModelID    ModelID
	StatusCode int
	Kind       APIErrorKind
	Message    string
	Err        error
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("api error")
	if e.ModelID != "" {
		fmt.Fprintf(&b, " for %s", e.ModelID)
	}
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *APIError) Unwrap() error { return e.Err }

// HasStatus reports whether the error carries an upstream HTTP status.
func (e *APIError) HasStatus() bool { return e.StatusCode > 0 }

// NewAPIError creates an APIError. A zero status means no HTTP status.
func NewAPIError(model ModelID, status int, message string, err error) *APIError {
	if message == "" {
		message = "Unknown error"
	}
	return &APIError{
		ModelID:    model,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

// NetworkError reports a transport failure before any response was received.
// It never carries an HTTP status.
type NetworkError struct {
	ModelID ModelID
	Message string
	Err     error
}

// Error implements the error interface for NetworkError.
func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error for %s: %s: %v", e.ModelID, e.Message, e.Err)
	}
	return fmt.Sprintf("network error for %s: %s", e.ModelID, e.Message)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error { return e.Err }

// NewNetworkError creates a NetworkError for the given model.
func NewNetworkError(model ModelID, err error) *NetworkError {
	return &NetworkError{
		ModelID: model,
		Message: fmt.Sprintf("Network error while calling %s", model),
		Err:     err,
	}
}

// SlotError is the generic error recorded for a slot whose executor failed
// in an unexpected, untyped way (including panics).
type SlotError struct {
	Slot    SlotID
	ModelID ModelID
	Err     error
}

// Error implements the error interface for SlotError.
func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %s (%s) failed: %v", e.Slot, e.ModelID, e.Err)
}

// Unwrap returns the underlying error.
func (e *SlotError) Unwrap() error { return e.Err }

// IsTyped reports whether err is one of the typed call errors
// (APIError, NetworkError or ValidationError).
func IsTyped(err error) bool {
	var apiErr *APIError
	var netErr *NetworkError
	var valErr *ValidationError
	return errors.As(err, &apiErr) || errors.As(err, &netErr) || errors.As(err, &valErr)
}

// ModelOf extracts the model attributed to a typed call error. It returns
// the empty string when none is attached.
func ModelOf(err error) ModelID {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ModelID
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.ModelID
	}
	var slotErr *SlotError
	if errors.As(err, &slotErr) {
		return slotErr.ModelID
	}
	return ""
}
