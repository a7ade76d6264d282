package metrics

import "github.com/ahrav/go-triptych/internal/domain"

// Pricing holds USD rates per 1000 tokens.
type Pricing struct {
	InputPer1K  float64
	OutputPer1K float64
}

// Cost returns (in/1000)*InputPer1K + (out/1000)*OutputPer1K.
func (p Pricing) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)/1000)*p.InputPer1K + (float64(outputTokens)/1000)*p.OutputPer1K
}

// DefaultPricing is applied to models missing from the price table.
var DefaultPricing = Pricing{InputPer1K: 0.0005, OutputPer1K: 0.0015}

// PriceTable maps model identifiers to their rates. It is treated as
// immutable once built.
type PriceTable map[domain.ModelID]Pricing

// DefaultPriceTable returns a fresh copy of the built-in rates.
func DefaultPriceTable() PriceTable {
	return PriceTable{
		"gemini-2.5-pro":                      {InputPer1K: 0.00125, OutputPer1K: 0.01},
		"gemini-2.5-flash":                    {InputPer1K: 0.0003, OutputPer1K: 0.0025},
		"gemini-2.5-flash-lite-preview-06-17": {InputPer1K: 0.0001, OutputPer1K: 0.0004},
		"gemini-2.0-flash":                    {InputPer1K: 0.0001, OutputPer1K: 0.0004},
		"gemini-2.0-flash-lite":               {InputPer1K: 0.000075, OutputPer1K: 0.0003},
		"gemini-2.0-flash-thinking":           {InputPer1K: 0.0001, OutputPer1K: 0.0004},
		"gemini-2.0-pro":                      {InputPer1K: 0.00125, OutputPer1K: 0.005},
		"gemini-1.5-pro":                      {InputPer1K: 0.00125, OutputPer1K: 0.005},
		"gemini-1.5-flash":                    {InputPer1K: 0.000075, OutputPer1K: 0.0003},
		"gemini-1.5-flash-8b":                 {InputPer1K: 0.0000375, OutputPer1K: 0.00015},
		"gemini-1.0-pro":                      {InputPer1K: 0.0005, OutputPer1K: 0.0015},
	}
}

// Lookup returns the rates for model, falling back to DefaultPricing.
func (t PriceTable) Lookup(model domain.ModelID) Pricing {
	if p, ok := t[model]; ok {
		return p
	}
	return DefaultPricing
}

// EstimateCost prices a call to model with the given token counts.
func (t PriceTable) EstimateCost(model domain.ModelID, inputTokens, outputTokens int) float64 {
	return t.Lookup(model).Cost(inputTokens, outputTokens)
}
