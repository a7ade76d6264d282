package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/metrics"
	"github.com/ahrav/go-triptych/internal/ports"
)

// Connection check parameters.
const (
	ConnectionTestModel     domain.ModelID = "gemini-1.5-flash"
	ConnectionTestPrompt                   = "Hello"
	ConnectionTestMaxTokens                = 10
)

// availableModels are the model IDs commonly served by the public API.
var availableModels = []domain.ModelID{
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
	"gemini-1.0-pro",
}

// Config holds the settings for NewExecutor.
type Config struct {
	// APIKey is the credential sent with every call. Required.
	APIKey string

	// BaseURL is the API root including its version segment. Required.
	BaseURL string

	// Transport overrides the wire transport. When nil a RESTTransport is
	// built from BaseURL, APIKey and HTTPClient.
	Transport ports.Transport

	// HTTPClient is used by the default REST transport.
	HTTPClient *http.Client

	// Calculator derives metrics. Nil uses the default price table.
	Calculator *metrics.Calculator

	// Catalog resolves display names for technical metadata. Optional.
	Catalog ports.ModelCatalog

	// Clock returns the current time. Nil uses time.Now.
	Clock func() time.Time
}

// Validate reports missing required settings.
func (c Config) Validate() error {
	verr := domain.NewValidationError("executor config")
	verr.Err = domain.ErrInvalidConfiguration
	if strings.TrimSpace(c.APIKey) == "" {
		verr.AddError("API key is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		verr.AddError("Base URL is required")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

var _ ports.Executor = (*Executor)(nil)

// Executor performs single model calls. It holds no per-call state and is
// safe for concurrent use.
type Executor struct {
	transport  ports.Transport
	calc       *metrics.Calculator
	catalog    ports.ModelCatalog
	classifier *ErrorClassifier
	now        func() time.Time
}

// NewExecutor validates cfg and returns a ready Executor.
func NewExecutor(cfg Config) (*Executor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := cfg.Transport
	if transport == nil {
		transport = NewRESTTransport(cfg.BaseURL, cfg.APIKey, cfg.HTTPClient)
	}
	calc := cfg.Calculator
	if calc == nil {
		calc = metrics.NewCalculator(nil)
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &Executor{
		transport:  transport,
		calc:       calc,
		catalog:    cfg.Catalog,
		classifier: &ErrorClassifier{},
		now:        now,
	}, nil
}

// Execute sends one request to model and returns the measured result.
// Every failure is returned as a *domain.APIError or *domain.NetworkError
// carrying model. No retries are attempted.
func (e *Executor) Execute(
	ctx context.Context,
	model domain.ModelID,
	prompt string,
	opts domain.GenerationOptions,
) (result *domain.CallResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = e.classifier.Unexpected(model, fmt.Errorf("panic: %v", r))
		}
	}()

	start := e.now()

	req := BuildRequest(prompt, opts)
	body, err := json.Marshal(req)
	if err != nil {
		return nil, e.classifier.Unexpected(model, err)
	}

	raw, err := e.transport.Send(ctx, model, body)
	if err != nil {
		return nil, e.classifier.ClassifyTransportError(model, err)
	}
	if raw == nil {
		return nil, e.classifier.Unexpected(model, fmt.Errorf("transport returned no response"))
	}
	if raw.StatusCode < 200 || raw.StatusCode > 299 {
		return nil, e.classifier.ClassifyHTTPError(model, raw.StatusCode, raw.Status, raw.Body)
	}

	var resp genai.GenerateContentResponse
	if err := json.Unmarshal(raw.Body, &resp); err != nil {
		return nil, e.classifier.Unexpected(model, fmt.Errorf("invalid response body: %w", err))
	}
	end := e.now()

	text, candidate, err := e.extractText(model, &resp)
	if err != nil {
		return nil, err
	}

	in := metrics.Input{
		Prompt:         prompt,
		Response:       text,
		ModelID:        model,
		ModelName:      e.displayName(model),
		StartTime:      start,
		EndTime:        end,
		RequestSize:    len(body),
		ResponseSize:   len(raw.Body),
		APIVersion:     e.transport.APIVersion(),
		ModelVersion:   resp.ModelVersion,
		RequestConfig:  opts.Resolve(),
		SafetySettings: safetySettingsToDomain(req.SafetySettings),
		SafetyRatings:  safetyRatingsToDomain(candidate.SafetyRatings),
		FinishReason:   string(candidate.FinishReason),
		PromptFeedback: promptFeedbackToDomain(resp.PromptFeedback),
		CandidateCount: len(resp.Candidates),
	}
	perf, quality, tech := e.calc.Calculate(in)

	return &domain.CallResult{
		Text:         text,
		ModelID:      model,
		Timestamp:    end,
		StartTime:    start,
		EndTime:      end,
		ResponseTime: in.ResponseTimeMs(),
		Performance:  perf,
		Quality:      quality,
		Technical:    tech,
	}, nil
}

// extractText takes the first candidate's parts, joins their text and trims
// it. Later candidates are ignored.
func (e *Executor) extractText(model domain.ModelID, resp *genai.GenerateContentResponse) (string, *genai.Candidate, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		apiErr := e.classifier.MalformedResponse(model, domain.ErrNoCandidates, "No candidates returned from API")
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			apiErr.Kind = domain.APIErrorContentPolicy
		}
		return "", nil, apiErr
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", nil, e.classifier.MalformedResponse(model, domain.ErrNoContent, "No content in API response")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", nil, e.classifier.MalformedResponse(model, domain.ErrEmptyResponse, "Empty response from API")
	}
	return text, candidate, nil
}

func (e *Executor) displayName(model domain.ModelID) string {
	if e.catalog == nil {
		return string(model)
	}
	return e.catalog.DisplayName(model)
}

// TestConnection sends a minimal request and reports whether it succeeded.
func (e *Executor) TestConnection(ctx context.Context) (bool, error) {
	_, err := e.Execute(ctx, ConnectionTestModel, ConnectionTestPrompt, domain.GenerationOptions{
		MaxOutputTokens: domain.Ptr(ConnectionTestMaxTokens),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// AvailableModels returns the model IDs commonly available on the API.
func (e *Executor) AvailableModels() []domain.ModelID {
	return append([]domain.ModelID(nil), availableModels...)
}
