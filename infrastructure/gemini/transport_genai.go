package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/ports"
)

var _ ports.Transport = (*GenAITransport)(nil)

// GenAITransport sends requests through the official Gemini SDK. Upstream
// API errors are mapped back onto status responses so the executor treats
// both transports the same way.
type GenAITransport struct {
	client     *genai.Client
	apiVersion string
}

// NewGenAITransport creates an SDK-backed transport for the Gemini API
// backend. baseURL may carry a version segment, which is passed to the SDK
// separately.
func NewGenAITransport(ctx context.Context, baseURL, apiKey string, httpClient *http.Client) (*GenAITransport, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", domain.ErrInvalidConfiguration)
	}
	root, version := SplitBaseURL(baseURL)

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if root != "" {
		cc.HTTPOptions.BaseURL = root + "/"
	}
	if version != "" {
		cc.HTTPOptions.APIVersion = version
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GenAITransport{client: client, apiVersion: version}, nil
}

// APIVersion returns the version the SDK client targets.
func (t *GenAITransport) APIVersion() string { return t.apiVersion }

// Send decodes body back into a request, issues it through the SDK and
// re-serializes the reply so sizes stay comparable with the REST transport.
func (t *GenAITransport) Send(ctx context.Context, model domain.ModelID, body []byte) (*ports.RawResponse, error) {
	var req GenerateContentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}

	resp, err := t.client.Models.GenerateContent(ctx, string(model), req.Contents, req.toSDKConfig())
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code > 0 {
			return apiErrorResponse(apiErr), nil
		}
		return nil, err
	}

	// The SDK keeps the raw HTTP response; it is not part of the wire reply.
	resp.SDKHTTPResponse = nil
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return &ports.RawResponse{StatusCode: http.StatusOK, Status: http.StatusText(http.StatusOK), Body: data}, nil
}

// apiErrorResponse renders an SDK error as the error envelope the REST
// endpoint would have returned.
func apiErrorResponse(apiErr genai.APIError) *ports.RawResponse {
	data, err := json.Marshal(struct {
		Error genai.APIError `json:"error"`
	}{Error: apiErr})
	if err != nil {
		data = []byte(apiErr.Message)
	}
	return &ports.RawResponse{
		StatusCode: apiErr.Code,
		Status:     http.StatusText(apiErr.Code),
		Body:       data,
	}
}
