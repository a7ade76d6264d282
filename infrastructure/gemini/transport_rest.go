package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/ports"
)

// DefaultBaseURL is the public Gemini API root including its version
// segment.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var _ ports.Transport = (*RESTTransport)(nil)

// RESTTransport posts generateContent requests over plain HTTPS with the
// credential passed as the key query parameter.
type RESTTransport struct {
	baseURL    string
	apiKey     string
	apiVersion string
	client     *http.Client
}

// NewRESTTransport creates a REST transport. A nil client uses a client
// without a timeout; deadlines come from the request context.
func NewRESTTransport(baseURL, apiKey string, client *http.Client) *RESTTransport {
	if client == nil {
		client = &http.Client{}
	}
	base := strings.TrimRight(baseURL, "/")
	_, version := SplitBaseURL(base)
	return &RESTTransport{
		baseURL:    base,
		apiKey:     apiKey,
		apiVersion: version,
		client:     client,
	}
}

// Endpoint returns the generateContent URL for model.
func (t *RESTTransport) Endpoint(model domain.ModelID) string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		t.baseURL, url.PathEscape(string(model)), url.QueryEscape(t.apiKey))
}

// APIVersion returns the version segment of the base URL.
func (t *RESTTransport) APIVersion() string { return t.apiVersion }

// Send performs exactly one POST. Any status is returned as a RawResponse;
// only failures to obtain a response are returned as errors.
func (t *RESTTransport) Send(ctx context.Context, model domain.ModelID, body []byte) (*ports.RawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint(model), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, t.redact(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &ports.RawResponse{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Body:       data,
	}, nil
}

// redactedKey replaces the credential in URLs carried by errors.
const redactedKey = "REDACTED"

// redact strips the API key from the request URL that net/http embeds in
// its *url.Error, so the key never reaches logs, spans or exports.
func (t *RESTTransport) redact(err error) error {
	if t.apiKey == "" {
		return err
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = strings.ReplaceAll(uerr.URL, "key="+url.QueryEscape(t.apiKey), "key="+redactedKey)
		uerr.URL = strings.ReplaceAll(uerr.URL, t.apiKey, redactedKey)
	}
	return err
}

// SplitBaseURL separates a base URL such as
// https://host/v1beta into its root and trailing version segment. The
// version is empty when the last segment does not look like one.
func SplitBaseURL(baseURL string) (root, version string) {
	base := strings.TrimRight(baseURL, "/")
	idx := strings.LastIndex(base, "/")
	if idx < 0 {
		return base, ""
	}
	last := base[idx+1:]
	if len(last) < 2 || last[0] != 'v' || last[1] < '0' || last[1] > '9' {
		return base, ""
	}
	return base[:idx], last
}
