package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ahrav/go-triptych/internal/domain"
)

// ErrorClassifier turns transport outcomes into the domain error taxonomy.
// The kind it assigns is informational; nothing retries on it.
type ErrorClassifier struct{}

// upstreamError is the JSON error envelope returned by the API.
type upstreamError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ClassifyHTTPError builds an APIError for a non-2xx reply. The message
// carries the status code, its reason phrase and the upstream body.
func (ec *ErrorClassifier) ClassifyHTTPError(model domain.ModelID, statusCode int, status string, body []byte) *domain.APIError {
	if status == "" {
		status = http.StatusText(statusCode)
	}
	text := strings.TrimSpace(string(body))
	message := fmt.Sprintf("API request failed: %d %s. %s", statusCode, status, text)

	apiErr := domain.NewAPIError(model, statusCode, strings.TrimSpace(message), nil)
	apiErr.Kind = ec.kindForStatus(statusCode, body)
	return apiErr
}

func (ec *ErrorClassifier) kindForStatus(statusCode int, body []byte) domain.APIErrorKind {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.APIErrorAuthentication
	case http.StatusTooManyRequests:
		return domain.APIErrorRateLimit
	case http.StatusBadRequest:
		if containsContentPolicyError(body) {
			return domain.APIErrorContentPolicy
		}
		return domain.APIErrorBadRequest
	case http.StatusNotFound:
		return domain.APIErrorNotFound
	}
	switch {
	case statusCode >= 400 && statusCode < 500:
		return domain.APIErrorBadRequest
	case statusCode >= 500:
		return domain.APIErrorServer
	default:
		return domain.APIErrorUnknown
	}
}

// ClassifyTransportError maps a failure to obtain any response. Errors that
// are already typed pass through unchanged.
func (ec *ErrorClassifier) ClassifyTransportError(model domain.ModelID, err error) error {
	if domain.IsTyped(err) {
		return err
	}
	netErr := domain.NewNetworkError(model, err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		netErr.Message += ": deadline exceeded"
	case errors.Is(err, context.Canceled):
		netErr.Message += ": request canceled"
	}
	return netErr
}

// MalformedResponse builds a status-less APIError for a 2xx reply that
// cannot be used.
func (ec *ErrorClassifier) MalformedResponse(model domain.ModelID, sentinel error, message string) *domain.APIError {
	apiErr := domain.NewAPIError(model, 0, message, sentinel)
	apiErr.Kind = domain.APIErrorMalformedResponse
	return apiErr
}

// Unexpected wraps any other failure, keeping its message.
func (ec *ErrorClassifier) Unexpected(model domain.ModelID, err error) *domain.APIError {
	msg := ""
	if err != nil {
		msg = "Unexpected error: " + err.Error()
	}
	return domain.NewAPIError(model, 0, msg, err)
}

// containsContentPolicyError reports whether an error body points at the
// safety filters.
func containsContentPolicyError(body []byte) bool {
	var env upstreamError
	text := string(body)
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		text = env.Error.Message
	}
	lower := strings.ToLower(text)
	return strings.Contains(lower, "safety") ||
		strings.Contains(lower, "policy") ||
		strings.Contains(lower, "blocked")
}
