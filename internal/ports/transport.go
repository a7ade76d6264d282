package ports

import (
	"context"

	"github.com/ahrav/go-triptych/internal/domain"
)

// RawResponse is an upstream reply as received on the wire. Body holds the
// exact bytes so callers can measure them.
type RawResponse struct {
	StatusCode int
	// Status is the reason phrase, e.g. "Internal Server Error". It may be
	// empty when the transport does not expose one.
	Status string
	Body   []byte
}

// Transport carries one serialized generateContent request to the upstream.
// A non-nil error means no HTTP response was received at all; non-2xx
// replies are returned as a RawResponse with a nil error.
type Transport interface {
	// Send posts body for model and returns the upstream reply.
	Send(ctx context.Context, model domain.ModelID, body []byte) (*RawResponse, error)

	// APIVersion reports the API version segment the transport targets.
	APIVersion() string
}
