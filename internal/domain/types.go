package domain

import (
	"sort"
	"time"
)

// ModelID is an opaque key into the model catalog. The core only requires it
// to be non-empty.
type ModelID string

// SlotID names one of the parallel output positions a model is bound to.
type SlotID string

// The three canonical slots used by the side-by-side view.
const (
	SlotColumn1 SlotID = "column1"
	SlotColumn2 SlotID = "column2"
	SlotColumn3 SlotID = "column3"
)

// DefaultSlots lists the canonical slots in display order.
var DefaultSlots = []SlotID{SlotColumn1, SlotColumn2, SlotColumn3}

// SortedSlots returns the keys of m in lexical order so callers iterate
// slots deterministically.
func SortedSlots[V any](m map[SlotID]V) []SlotID {
	slots := make([]SlotID, 0, len(m))
	for s := range m {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

// SafetySetting is a harm category paired with the blocking threshold sent
// upstream.
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// SafetyRating is an upstream risk classification for one harm category.
type SafetyRating struct {
	Category    string `json:"category"`
	Probability string `json:"probability"`
}

// PromptFeedback carries the upstream's safety assessment of the prompt.
type PromptFeedback struct {
	BlockReason   string         `json:"blockReason,omitempty"`
	SafetyRatings []SafetyRating `json:"safetyRatings"`
}

// TokenUsage holds estimated token counts. These are character-based
// approximations and will not match a real tokenizer.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// PerformanceMetrics describes the timing, size and cost profile of one call.
type PerformanceMetrics struct {
	// ResponseTime is EndTime-StartTime in milliseconds.
	ResponseTime int64      `json:"responseTime"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      time.Time  `json:"endTime"`
	TokenUsage   TokenUsage `json:"tokenUsage"`
	// EstimatedCost is in USD, derived from the static price table.
	EstimatedCost float64 `json:"estimatedCost"`
	// Throughput is estimated total tokens per second.
	Throughput   float64 `json:"throughput"`
	RequestSize  int     `json:"requestSize"`
	ResponseSize int     `json:"responseSize"`
}

// ResponseLength breaks a response down into simple size counts.
type ResponseLength struct {
	Characters      int `json:"characters"`
	Words           int `json:"words"`
	Sentences       int `json:"sentences"`
	Paragraphs      int `json:"paragraphs"`
	EstimatedTokens int `json:"estimatedTokens"`
}

// QualityMetrics holds heuristic quality signals derived from response text.
type QualityMetrics struct {
	ResponseLength        ResponseLength `json:"responseLength"`
	EstimatedReadingLevel string         `json:"estimatedReadingLevel"`
	SafetyScore           string         `json:"safetyScore"`
	FinishReason          string         `json:"finishReason"`
	ContentCategories     []string       `json:"contentCategories"`
	LanguageDetected      string         `json:"languageDetected"`
}

// TechnicalMetadata echoes what was sent and passes through what the
// upstream reported about the call.
type TechnicalMetadata struct {
	ModelVersion   string          `json:"modelVersion"`
	ModelName      string          `json:"modelName"`
	APIVersion     string          `json:"apiVersion"`
	RequestConfig  RequestConfig   `json:"requestConfig"`
	SafetySettings []SafetySetting `json:"safetySettings"`
	SafetyRatings  []SafetyRating  `json:"safetyRatings"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	CandidateCount int             `json:"candidateCount"`
}

// CallResult is the outcome of one successful model call. It is built once
// by the executor and never mutated afterwards.
type CallResult struct {
	Text         string    `json:"text"`
	ModelID      ModelID   `json:"modelId"`
	Timestamp    time.Time `json:"timestamp"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	ResponseTime int64     `json:"responseTime"`

	Performance PerformanceMetrics `json:"performanceMetrics"`
	Quality     QualityMetrics     `json:"qualityMetrics"`
	Technical   TechnicalMetadata  `json:"technicalMetadata"`
}

// SlotOutcome is the tagged result of one slot in a batch: exactly one of
// Result or Err is set.
type SlotOutcome struct {
	Slot    SlotID
	ModelID ModelID
	Result  *CallResult
	Err     error
}

// OK reports whether the outcome is a success.
func (o SlotOutcome) OK() bool { return o.Err == nil && o.Result != nil }

// BatchResult collects per-slot outcomes of a batch. A requested slot appears
// in exactly one of the two maps.
type BatchResult struct {
	Results map[SlotID]*CallResult `json:"results"`
	Errors  map[SlotID]error       `json:"-"`
}

// NewBatchResult returns an empty BatchResult with both maps allocated.
func NewBatchResult() *BatchResult {
	return &BatchResult{
		Results: make(map[SlotID]*CallResult),
		Errors:  make(map[SlotID]error),
	}
}

// Record routes an outcome into exactly one of the two maps. A nil result
// without an error is recorded as ErrMissingResult.
func (b *BatchResult) Record(o SlotOutcome) {
	switch {
	case o.Err != nil:
		b.Errors[o.Slot] = o.Err
	case o.Result != nil:
		b.Results[o.Slot] = o.Result
	default:
		b.Errors[o.Slot] = NewAPIError(o.ModelID, 0, ErrMissingResult.Error(), ErrMissingResult)
	}
}

// Len returns the number of slots accounted for.
func (b *BatchResult) Len() int { return len(b.Results) + len(b.Errors) }

// ModelInfo is a catalog entry describing one model.
type ModelInfo struct {
	ID            ModelID  `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ContextWindow string   `json:"contextWindow"`
	Generation    string   `json:"generation"`
	Category      string   `json:"category"`
	Features      []string `json:"features"`
}
