// Package gemini talks to the Gemini generateContent endpoint. It builds the
// request payload, sends it through a pluggable transport, classifies
// upstream failures into the domain error taxonomy, and turns successful
// replies into fully measured CallResults.
//
// The executor is the only place that performs I/O in the comparison
// engine. Cross-cutting concerns such as deadlines, metrics and tracing are
// layered on with executor middleware:
//
//	exec, err := gemini.NewExecutor(gemini.Config{
//	    APIKey:  os.Getenv("GEMINI_API_KEY"),
//	    BaseURL: gemini.DefaultBaseURL,
//	})
//	wrapped := gemini.Chain(exec,
//	    gemini.TracingMiddleware("triptych"),
//	    gemini.MetricsMiddleware(collector),
//	)
//	result, err := wrapped.Execute(ctx, "gemini-2.5-flash", "Hello", domain.GenerationOptions{})
package gemini

import (
	"math"

	"google.golang.org/genai"

	"github.com/ahrav/go-triptych/internal/domain"
)

// GenerateContentRequest is the JSON body of a generateContent call.
type GenerateContentRequest struct {
	Contents         []*genai.Content        `json:"contents"`
	GenerationConfig *genai.GenerationConfig `json:"generationConfig"`
	SafetySettings   []*genai.SafetySetting  `json:"safetySettings"`
}

// SafetyThreshold is the blocking threshold applied to every harm category.
const SafetyThreshold = genai.HarmBlockThresholdBlockMediumAndAbove

// safetyCategories are the harm categories sent with every request, in
// wire order.
var safetyCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

// SafetySettings returns a fresh copy of the fixed safety posture.
func SafetySettings() []*genai.SafetySetting {
	settings := make([]*genai.SafetySetting, 0, len(safetyCategories))
	for _, c := range safetyCategories {
		settings = append(settings, &genai.SafetySetting{Category: c, Threshold: SafetyThreshold})
	}
	return settings
}

// BuildRequest assembles the payload for one call: a single user turn
// holding prompt verbatim, the resolved generation config and the fixed
// safety settings. An empty prompt still yields a payload. It is pure.
func BuildRequest(prompt string, opts domain.GenerationOptions) *GenerateContentRequest {
	return &GenerateContentRequest{
		Contents:         []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		GenerationConfig: buildGenerationConfig(opts.Resolve()),
		SafetySettings:   SafetySettings(),
	}
}

func buildGenerationConfig(cfg domain.RequestConfig) *genai.GenerationConfig {
	gc := &genai.GenerationConfig{
		Temperature:     genai.Ptr(float32(cfg.Temperature)),
		TopK:            genai.Ptr(float32(cfg.TopK)),
		TopP:            genai.Ptr(float32(cfg.TopP)),
		MaxOutputTokens: toInt32(cfg.MaxOutputTokens),
	}
	if len(cfg.StopSequences) > 0 {
		gc.StopSequences = append([]string(nil), cfg.StopSequences...)
	}
	return gc
}

// toSDKConfig converts a wire request into the SDK's per-call config.
func (r *GenerateContentRequest) toSDKConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{SafetySettings: r.SafetySettings}
	if gc := r.GenerationConfig; gc != nil {
		cfg.Temperature = gc.Temperature
		cfg.TopK = gc.TopK
		cfg.TopP = gc.TopP
		cfg.MaxOutputTokens = gc.MaxOutputTokens
		cfg.StopSequences = gc.StopSequences
	}
	return cfg
}

func toInt32(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < math.MinInt32 {
		return math.MinInt32
	}
	return int32(n)
}

// safetySettingsToDomain flattens the wire safety settings for metadata.
func safetySettingsToDomain(settings []*genai.SafetySetting) []domain.SafetySetting {
	out := make([]domain.SafetySetting, 0, len(settings))
	for _, s := range settings {
		if s == nil {
			continue
		}
		out = append(out, domain.SafetySetting{Category: string(s.Category), Threshold: string(s.Threshold)})
	}
	return out
}

func safetyRatingsToDomain(ratings []*genai.SafetyRating) []domain.SafetyRating {
	out := make([]domain.SafetyRating, 0, len(ratings))
	for _, r := range ratings {
		if r == nil {
			continue
		}
		out = append(out, domain.SafetyRating{Category: string(r.Category), Probability: string(r.Probability)})
	}
	return out
}

func promptFeedbackToDomain(fb *genai.GenerateContentResponsePromptFeedback) *domain.PromptFeedback {
	if fb == nil {
		return nil
	}
	return &domain.PromptFeedback{
		BlockReason:   string(fb.BlockReason),
		SafetyRatings: safetyRatingsToDomain(fb.SafetyRatings),
	}
}
