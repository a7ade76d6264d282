// Package metrics derives performance, quality and technical metadata
// records from a completed model call. Every function here is pure and
// deterministic: the same inputs always yield the same outputs, and nothing
// performs I/O.
//
// Most of the signals are coarse heuristics: character-based token counts,
// a simplified Flesch score, keyword categorization and language detection.
// They will not match a real tokenizer or language identifier.
//
// Usage:
//
//	calc := metrics.NewCalculator(metrics.DefaultPriceTable())
//	perf, quality, tech := calc.Calculate(metrics.Input{
//	    Prompt:   "Hello",
//	    Response: "Hi there!",
//	    ModelID:  "gemini-2.5-flash",
//	    ...
//	})
package metrics

import "unicode/utf8"

// CharactersPerToken is the fixed ratio used for token estimation.
const CharactersPerToken = 4

// EstimateTokens approximates the token count of text as
// ceil(characters / 4). Characters are Unicode code points. The result is an
// estimate and will not match the upstream tokenizer.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + CharactersPerToken - 1) / CharactersPerToken
}

// CharacterCount returns the number of Unicode code points in text.
func CharacterCount(text string) int { return utf8.RuneCountInString(text) }

// Throughput returns estimated tokens per second for a call that took
// responseTimeMs milliseconds. Response times under one millisecond are
// treated as one millisecond so the result is always finite.
func Throughput(totalTokens int, responseTimeMs int64) float64 {
	if responseTimeMs < 1 {
		responseTimeMs = 1
	}
	return float64(totalTokens) / (float64(responseTimeMs) / 1000)
}
