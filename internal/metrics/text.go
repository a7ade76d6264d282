package metrics

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ahrav/go-triptych/internal/domain"
)

var (
	sentenceSplit  = regexp.MustCompile(`[.!?]+`)
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
)

// Content category tags.
const (
	CategoryCode         = "Code"
	CategoryQA           = "Q&A"
	CategoryInstructions = "Instructions"
	CategoryLongForm     = "Long-form"
	CategoryGeneral      = "General"
)

// Language labels.
const (
	LanguageEnglish = "English"
	LanguageOther   = "Other/Mixed"
)

// LongFormThreshold is the character count above which text is tagged
// Long-form.
const LongFormThreshold = 500

// commonEnglishWords are matched by substring containment, not as whole
// words.
var commonEnglishWords = []string{"the", "and", "is", "in", "to", "of", "a", "that", "it", "with"}

// Words splits text on whitespace, discarding empty tokens.
func Words(text string) []string { return strings.Fields(text) }

// CountSentences splits on runs of '.', '!' and '?' and counts the
// fragments that are not blank.
func CountSentences(text string) int {
	return countNonBlank(sentenceSplit.Split(text, -1))
}

// CountParagraphs splits on blank-line runs and counts the fragments that
// are not blank.
func CountParagraphs(text string) int {
	return countNonBlank(paragraphSplit.Split(text, -1))
}

func countNonBlank(parts []string) int {
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// AnalyzeLength computes the size breakdown of text.
func AnalyzeLength(text string) domain.ResponseLength {
	return domain.ResponseLength{
		Characters:      CharacterCount(text),
		Words:           len(Words(text)),
		Sentences:       CountSentences(text),
		Paragraphs:      CountParagraphs(text),
		EstimatedTokens: EstimateTokens(text),
	}
}

// Categorize assigns heuristic content tags. Several tags may apply; General
// is returned only when none of the others do.
func Categorize(text string) []string {
	var tags []string
	if strings.Contains(text, "```") || strings.Contains(text, "function") || strings.Contains(text, "class") {
		tags = append(tags, CategoryCode)
	}
	if strings.Count(text, "?") > 1 {
		tags = append(tags, CategoryQA)
	}
	if strings.Contains(text, "Step") || strings.Contains(text, "1.") || strings.Contains(text, "2.") {
		tags = append(tags, CategoryInstructions)
	}
	if CharacterCount(text) > LongFormThreshold {
		tags = append(tags, CategoryLongForm)
	}
	if len(tags) == 0 {
		tags = append(tags, CategoryGeneral)
	}
	return tags
}

// DetectLanguage reports English when more than three of the common English
// function words occur anywhere in text, ignoring case. It is a coarse
// heuristic, not language identification.
func DetectLanguage(text string) string {
	folded := cases.Fold().String(text)
	matches := 0
	for _, w := range commonEnglishWords {
		if strings.Contains(folded, w) {
			matches++
		}
	}
	if matches > 3 {
		return LanguageEnglish
	}
	return LanguageOther
}
