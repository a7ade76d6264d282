package metrics

import (
	"time"

	"github.com/ahrav/go-triptych/internal/domain"
)

// Input is everything the calculator needs from one completed call.
type Input struct {
	Prompt    string
	Response  string
	ModelID   domain.ModelID
	ModelName string

	StartTime time.Time
	EndTime   time.Time

	RequestSize  int
	ResponseSize int

	APIVersion     string
	ModelVersion   string
	RequestConfig  domain.RequestConfig
	SafetySettings []domain.SafetySetting
	SafetyRatings  []domain.SafetyRating
	FinishReason   string
	PromptFeedback *domain.PromptFeedback
	CandidateCount int
}

// ResponseTimeMs returns EndTime-StartTime in whole milliseconds.
func (in Input) ResponseTimeMs() int64 { return in.EndTime.Sub(in.StartTime).Milliseconds() }

// Calculator derives metric records using a fixed price table.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	prices PriceTable
}

// NewCalculator creates a Calculator. A nil table uses DefaultPriceTable.
func NewCalculator(prices PriceTable) *Calculator {
	if prices == nil {
		prices = DefaultPriceTable()
	}
	return &Calculator{prices: prices}
}

// Prices returns the calculator's price table.
func (c *Calculator) Prices() PriceTable { return c.prices }

// Calculate builds the three metric records for one call.
func (c *Calculator) Calculate(in Input) (domain.PerformanceMetrics, domain.QualityMetrics, domain.TechnicalMetadata) {
	return c.Performance(in), Quality(in), Technical(in)
}

// Performance computes timing, token and cost figures.
func (c *Calculator) Performance(in Input) domain.PerformanceMetrics {
	inputTokens := EstimateTokens(in.Prompt)
	outputTokens := EstimateTokens(in.Response)
	total := inputTokens + outputTokens
	rt := in.ResponseTimeMs()

	return domain.PerformanceMetrics{
		ResponseTime: rt,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		TokenUsage: domain.TokenUsage{
			Input:  inputTokens,
			Output: outputTokens,
			Total:  total,
		},
		EstimatedCost: c.prices.EstimateCost(in.ModelID, inputTokens, outputTokens),
		Throughput:    Throughput(total, rt),
		RequestSize:   in.RequestSize,
		ResponseSize:  in.ResponseSize,
	}
}

// Quality computes the heuristic text signals of the response.
func Quality(in Input) domain.QualityMetrics {
	return domain.QualityMetrics{
		ResponseLength:        AnalyzeLength(in.Response),
		EstimatedReadingLevel: ReadingLevel(in.Response),
		SafetyScore:           SafetyScore(in.SafetyRatings),
		FinishReason:          in.FinishReason,
		ContentCategories:     Categorize(in.Response),
		LanguageDetected:      DetectLanguage(in.Response),
	}
}

// Technical echoes the request configuration and passes through upstream
// metadata. Slices are copied so the record owns its data.
func Technical(in Input) domain.TechnicalMetadata {
	name := in.ModelName
	if name == "" {
		name = string(in.ModelID)
	}
	version := in.ModelVersion
	if version == "" {
		version = string(in.ModelID)
	}
	cfg := in.RequestConfig
	if cfg.StopSequences != nil {
		cfg.StopSequences = append([]string(nil), cfg.StopSequences...)
	}

	var feedback *domain.PromptFeedback
	if in.PromptFeedback != nil {
		feedback = &domain.PromptFeedback{
			BlockReason:   in.PromptFeedback.BlockReason,
			SafetyRatings: append([]domain.SafetyRating(nil), in.PromptFeedback.SafetyRatings...),
		}
	}

	return domain.TechnicalMetadata{
		ModelVersion:   version,
		ModelName:      name,
		APIVersion:     in.APIVersion,
		RequestConfig:  cfg,
		SafetySettings: append([]domain.SafetySetting(nil), in.SafetySettings...),
		SafetyRatings:  append([]domain.SafetyRating{}, in.SafetyRatings...),
		PromptFeedback: feedback,
		CandidateCount: in.CandidateCount,
	}
}
