package testutils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/ports"
)

var _ ports.Transport = (*MockTransport)(nil)

// MockTransport replays scripted replies per model and records every
// request body it receives. It is safe for concurrent use.
type MockTransport struct {
	mu sync.Mutex

	// Replies maps a model to its scripted reply. Models without an entry
	// receive Default.
	Replies map[domain.ModelID]MockReply
	Default MockReply
	Version string

	// Tracking
	CallCount int
	Bodies    map[domain.ModelID][]byte
}

// MockReply is one scripted outcome: either a response or an error. A
// non-nil Panic value makes Send panic with it.
type MockReply struct {
	StatusCode int
	Body       []byte
	Err        error
	Panic      any
}

// NewMockTransport creates a transport that answers every model with a
// single "Hi there!" candidate.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		Replies: make(map[domain.ModelID]MockReply),
		Default: MockReply{StatusCode: http.StatusOK, Body: CandidateBody("Hi there!")},
		Version: "v1beta",
		Bodies:  make(map[domain.ModelID][]byte),
	}
}

// Reply scripts the outcome for model and returns the transport for
// chaining.
func (m *MockTransport) Reply(model domain.ModelID, reply MockReply) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Replies[model] = reply
	return m
}

// Send implements ports.Transport.
func (m *MockTransport) Send(ctx context.Context, model domain.ModelID, body []byte) (*ports.RawResponse, error) {
	m.mu.Lock()
	m.CallCount++
	m.Bodies[model] = append([]byte(nil), body...)
	reply, ok := m.Replies[model]
	if !ok {
		reply = m.Default
	}
	m.mu.Unlock()

	if reply.Panic != nil {
		panic(reply.Panic)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return &ports.RawResponse{
		StatusCode: reply.StatusCode,
		Status:     http.StatusText(reply.StatusCode),
		Body:       append([]byte(nil), reply.Body...),
	}, nil
}

// APIVersion implements ports.Transport.
func (m *MockTransport) APIVersion() string { return m.Version }

// GetCallCount returns the number of Send calls so far.
func (m *MockTransport) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// LastBody returns the most recent request body sent for model.
func (m *MockTransport) LastBody(model domain.ModelID) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Bodies[model]
}

// CandidateBody renders a minimal successful generateContent reply with one
// candidate holding text, a STOP finish reason and negligible safety
// ratings.
func CandidateBody(text string) []byte {
	return mustJSON(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
				"index":        0,
				"safetyRatings": []any{
					map[string]any{"category": "HARM_CATEGORY_HARASSMENT", "probability": "NEGLIGIBLE"},
					map[string]any{"category": "HARM_CATEGORY_HATE_SPEECH", "probability": "NEGLIGIBLE"},
				},
			},
		},
		"modelVersion": "gemini-test-001",
	})
}

// ErrorBody renders the API's JSON error envelope.
func ErrorBody(code int, status, message string) []byte {
	return mustJSON(map[string]any{
		"error": map[string]any{"code": code, "message": message, "status": status},
	})
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutils: marshal fixture: %v", err))
	}
	return data
}
