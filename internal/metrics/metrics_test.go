package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahrav/go-triptych/internal/domain"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "empty", text: "", expected: 0},
		{name: "exact multiple", text: "abcd", expected: 1},
		{name: "rounds up", text: "abcde", expected: 2},
		{name: "single char", text: "a", expected: 1},
		{name: "multibyte counted as code points", text: "héllo", expected: 2},
		{name: "greeting", text: "Hi there!", expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateTokens(tt.text))
		})
	}
}

func TestEstimateTokens_Monotonic(t *testing.T) {
	prev := 0
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteByte('x')
		got := EstimateTokens(b.String())
		assert.GreaterOrEqual(t, got, prev, "estimate should never shrink as text grows")
		prev = got
	}
}

func TestThroughput(t *testing.T) {
	tests := []struct {
		name     string
		tokens   int
		rtMs     int64
		expected float64
	}{
		{name: "one second", tokens: 10, rtMs: 1000, expected: 10},
		{name: "quarter second", tokens: 5, rtMs: 250, expected: 20},
		{name: "zero duration clamps to 1ms", tokens: 10, rtMs: 0, expected: 10000},
		{name: "negative duration clamps to 1ms", tokens: 1, rtMs: -5, expected: 1000},
		{name: "no tokens", tokens: 0, rtMs: 500, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Throughput(tt.tokens, tt.rtMs), 1e-9)
		})
	}
}

func TestPriceTable_EstimateCost(t *testing.T) {
	table := DefaultPriceTable()

	tests := []struct {
		name     string
		model    domain.ModelID
		in, out  int
		expected float64
	}{
		{name: "known model", model: "gemini-2.5-pro", in: 1000, out: 1000, expected: 0.01125},
		{name: "cheap model", model: "gemini-1.5-flash-8b", in: 2000, out: 0, expected: 0.000075},
		{name: "unknown model uses default", model: "made-up-model", in: 1000, out: 1000, expected: 0.002},
		{name: "zero tokens", model: "gemini-2.5-flash", in: 0, out: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, table.EstimateCost(tt.model, tt.in, tt.out), 1e-12)
		})
	}
}

func TestDefaultPriceTable_ReturnsCopy(t *testing.T) {
	a := DefaultPriceTable()
	a["gemini-2.5-pro"] = Pricing{InputPer1K: 99, OutputPer1K: 99}

	b := DefaultPriceTable()
	assert.InDelta(t, 0.00125, b["gemini-2.5-pro"].InputPer1K, 1e-12)
}

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word     string
		expected int
	}{
		{word: "", expected: 1},
		{word: "cat", expected: 1},
		{word: "Hi!", expected: 1},
		{word: "hello", expected: 2},
		{word: "make", expected: 1},
		{word: "reading", expected: 2},
		{word: "yellow", expected: 2},
		{word: "rhythm", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountSyllables(tt.word))
		})
	}
}

func TestReadingLevel(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "empty text", text: "", expected: ReadingNotAvailable},
		{name: "punctuation only", text: "...!?", expected: ReadingNotAvailable},
		{name: "short simple sentence", text: "The cat sat.", expected: ReadingVeryEasy},
		{
			name:     "long polysyllabic sentence",
			text:     "Institutional considerations necessitate comprehensive organizational restructuring immediately.",
			expected: ReadingVeryDifficult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReadingLevel(tt.text))
		})
	}
}

func TestReadingBand_Boundaries(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{score: 100, expected: ReadingVeryEasy},
		{score: 90, expected: ReadingVeryEasy},
		{score: 89.9, expected: ReadingEasy},
		{score: 80, expected: ReadingEasy},
		{score: 70, expected: ReadingFairlyEasy},
		{score: 60, expected: ReadingStandard},
		{score: 50, expected: ReadingFairlyDifficult},
		{score: 30, expected: ReadingDifficult},
		{score: 29.9, expected: ReadingVeryDifficult},
		{score: -40, expected: ReadingVeryDifficult},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, readingBand(tt.score), "score %v", tt.score)
	}
}

func TestAnalyzeLength(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected domain.ResponseLength
	}{
		{
			name:     "empty",
			text:     "",
			expected: domain.ResponseLength{},
		},
		{
			name: "greeting",
			text: "Hi there!",
			expected: domain.ResponseLength{
				Characters: 9, Words: 2, Sentences: 1, Paragraphs: 1, EstimatedTokens: 3,
			},
		},
		{
			name: "two paragraphs",
			text: "One.\n\nTwo.",
			expected: domain.ResponseLength{
				Characters: 10, Words: 2, Sentences: 2, Paragraphs: 2, EstimatedTokens: 3,
			},
		},
		{
			name: "blank line with spaces separates paragraphs",
			text: "a b\n   \nc",
			expected: domain.ResponseLength{
				Characters: 9, Words: 3, Sentences: 1, Paragraphs: 2, EstimatedTokens: 3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnalyzeLength(tt.text))
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{name: "plain", text: "Hi there!", expected: []string{CategoryGeneral}},
		{name: "fenced code", text: "```go\nfmt.Println()\n```", expected: []string{CategoryCode}},
		{name: "questions", text: "Why? How? What?", expected: []string{CategoryQA}},
		{name: "single question is not Q&A", text: "Why?", expected: []string{CategoryGeneral}},
		{name: "steps", text: "Step one: open it", expected: []string{CategoryInstructions}},
		{name: "long", text: strings.Repeat("z", LongFormThreshold+1), expected: []string{CategoryLongForm}},
		{name: "exactly threshold is not long", text: strings.Repeat("z", LongFormThreshold), expected: []string{CategoryGeneral}},
		{
			name:     "several tags in order",
			text:     "A function? Or a class? 1. Decide",
			expected: []string{CategoryCode, CategoryQA, CategoryInstructions},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.text))
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "empty", text: "", expected: LanguageOther},
		{name: "short greeting", text: "Hi there!", expected: LanguageOther},
		{name: "english sentence", text: "The cat is in the hat and it sat with a dog", expected: LanguageEnglish},
		{name: "case insensitive", text: "THE CAT IS IN THE HAT AND IT SAT", expected: LanguageEnglish},
		{name: "german", text: "Guten Morgen, wie geht es dir heute?", expected: LanguageOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectLanguage(tt.text))
		})
	}
}

func TestSafetyScore(t *testing.T) {
	tests := []struct {
		name     string
		ratings  []domain.SafetyRating
		expected string
	}{
		{name: "no ratings", ratings: nil, expected: SafetyNotAvailable},
		{
			name: "all negligible",
			ratings: []domain.SafetyRating{
				{Category: "HARM_CATEGORY_HARASSMENT", Probability: "NEGLIGIBLE"},
				{Category: "HARM_CATEGORY_HATE_SPEECH", Probability: "LOW"},
			},
			expected: SafetySafe,
		},
		{
			name: "one medium",
			ratings: []domain.SafetyRating{
				{Category: "HARM_CATEGORY_HARASSMENT", Probability: "NEGLIGIBLE"},
				{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Probability: "MEDIUM"},
			},
			expected: SafetyCaution,
		},
		{
			name:     "one high",
			ratings:  []domain.SafetyRating{{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Probability: "HIGH"}},
			expected: SafetyCaution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafetyScore(tt.ratings))
		})
	}
}
