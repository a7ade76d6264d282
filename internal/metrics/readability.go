package metrics

import (
	"regexp"
	"strings"
	"unicode"
)

// Reading level bands, ordered from easiest to hardest.
const (
	ReadingVeryEasy        = "Very Easy"
	ReadingEasy            = "Easy"
	ReadingFairlyEasy      = "Fairly Easy"
	ReadingStandard        = "Standard"
	ReadingFairlyDifficult = "Fairly Difficult"
	ReadingDifficult       = "Difficult"
	ReadingVeryDifficult   = "Very Difficult"
	ReadingNotAvailable    = "N/A"
)

var (
	silentSuffix = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	leadingY     = regexp.MustCompile(`^y`)
	vowelGroup   = regexp.MustCompile(`[aeiouy]{1,2}`)
)

// CountSyllables estimates the syllables in a single word. Non-letters are
// ignored, words of three letters or fewer count as one, and the result is
// never below one.
func CountSyllables(word string) int {
	w := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, word)
	if len([]rune(w)) <= 3 {
		return 1
	}
	w = silentSuffix.ReplaceAllString(w, "")
	w = leadingY.ReplaceAllString(w, "")
	if n := len(vowelGroup.FindAllString(w, -1)); n > 0 {
		return n
	}
	return 1
}

// FleschScore computes the simplified Flesch Reading Ease score and reports
// false when there are no words or no sentences to score.
func FleschScore(text string) (float64, bool) {
	words := Words(text)
	sentences := CountSentences(text)
	if sentences == 0 || len(words) == 0 {
		return 0, false
	}
	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w)
	}
	wps := float64(len(words)) / float64(sentences)
	spw := float64(syllables) / float64(len(words))
	return 206.835 - 1.015*wps - 84.6*spw, true
}

// ReadingLevel maps the Flesch score of text onto seven ordinal bands, or
// N/A when the text has no sentences.
func ReadingLevel(text string) string {
	score, ok := FleschScore(text)
	if !ok {
		return ReadingNotAvailable
	}
	return readingBand(score)
}

func readingBand(score float64) string {
	switch {
	case score >= 90:
		return ReadingVeryEasy
	case score >= 80:
		return ReadingEasy
	case score >= 70:
		return ReadingFairlyEasy
	case score >= 60:
		return ReadingStandard
	case score >= 50:
		return ReadingFairlyDifficult
	case score >= 30:
		return ReadingDifficult
	default:
		return ReadingVeryDifficult
	}
}
