package domain

// Generation defaults applied when an option is left unset.
const (
	DefaultTemperature     = 0.7
	DefaultTopK            = 40
	DefaultTopP            = 0.95
	DefaultMaxOutputTokens = 2048
)

// GenerationOptions configures one model call. Every field is optional and
// defaulted independently by Resolve.
type GenerationOptions struct {
	// Temperature in [0, 2].
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" validate:"omitempty,min=0,max=2"`
	TopK        *int     `json:"topK,omitempty" yaml:"top_k,omitempty" validate:"omitempty,min=1"`
	// TopP in [0, 1].
	TopP            *float64 `json:"topP,omitempty" yaml:"top_p,omitempty" validate:"omitempty,min=0,max=1"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty" yaml:"max_output_tokens,omitempty" validate:"omitempty,min=1"`
	StopSequences   []string `json:"stopSequences,omitempty" yaml:"stop_sequences,omitempty"`
}

// RequestConfig is GenerationOptions with defaults applied.
type RequestConfig struct {
	Temperature     float64  `json:"temperature"`
	TopK            int      `json:"topK"`
	TopP            float64  `json:"topP"`
	MaxOutputTokens int      `json:"maxOutputTokens"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

// Resolve applies defaults to every unset option. The returned config shares
// no memory with o.
func (o GenerationOptions) Resolve() RequestConfig {
	cfg := RequestConfig{
		Temperature:     DefaultTemperature,
		TopK:            DefaultTopK,
		TopP:            DefaultTopP,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
	if o.Temperature != nil {
		cfg.Temperature = *o.Temperature
	}
	if o.TopK != nil {
		cfg.TopK = *o.TopK
	}
	if o.TopP != nil {
		cfg.TopP = *o.TopP
	}
	if o.MaxOutputTokens != nil {
		cfg.MaxOutputTokens = *o.MaxOutputTokens
	}
	if len(o.StopSequences) > 0 {
		cfg.StopSequences = append([]string(nil), o.StopSequences...)
	}
	return cfg
}

// Ptr returns a pointer to v. It keeps option literals short.
func Ptr[T any](v T) *T { return &v }
