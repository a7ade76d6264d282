package catalog

import "github.com/ahrav/go-triptych/internal/domain"

var geminiModels = []domain.ModelInfo{
	// 2.5 series
	{
		ID:            "gemini-2.5-pro",
		Name:          "Gemini 2.5 Pro",
		Description:   "Most intelligent thinking model with enhanced reasoning and coding capabilities",
		ContextWindow: "1M tokens",
		Generation:    "2.5",
		Category:      CategoryFlagship,
		Features:      []string{"thinking", "reasoning", "coding", "multimodal", "audio", "video", "pdf"},
	},
	{
		ID:            "gemini-2.5-flash",
		Name:          "Gemini 2.5 Flash",
		Description:   "Best price-performance model with adaptive thinking capabilities",
		ContextWindow: "1M tokens",
		Generation:    "2.5",
		Category:      CategoryBalanced,
		Features:      []string{"thinking", "fast", "cost-effective", "multimodal", "audio", "video"},
	},
	{
		ID:            "gemini-2.5-flash-lite-preview-06-17",
		Name:          "Gemini 2.5 Flash Lite",
		Description:   "Most cost-efficient model optimized for high throughput",
		ContextWindow: "1M tokens",
		Generation:    "2.5",
		Category:      CategoryLite,
		Features:      []string{"cost-effective", "high-throughput", "multimodal"},
	},
	{
		ID:            "gemini-2.5-flash-preview-tts",
		Name:          "Gemini 2.5 Flash TTS",
		Description:   "Text-to-speech model for audio generation",
		ContextWindow: "8K tokens",
		Generation:    "2.5",
		Category:      CategorySpecialized,
		Features:      []string{"text-to-speech", "audio-generation"},
	},
	{
		ID:            "gemini-2.5-pro-preview-tts",
		Name:          "Gemini 2.5 Pro TTS",
		Description:   "Advanced text-to-speech with premium quality",
		ContextWindow: "8K tokens",
		Generation:    "2.5",
		Category:      CategorySpecialized,
		Features:      []string{"text-to-speech", "premium-audio"},
	},

	// 2.0 series
	{
		ID:            "gemini-2.0-flash",
		Name:          "Gemini 2.0 Flash",
		Description:   "Next-gen features with improved speed and native tool use",
		ContextWindow: "1M tokens",
		Generation:    "2.0",
		Category:      CategoryFast,
		Features:      []string{"fast", "tool-use", "multimodal", "realtime-streaming"},
	},
	{
		ID:            "gemini-2.0-flash-thinking",
		Name:          "Gemini 2.0 Flash Thinking",
		Description:   "Experimental model that exposes reasoning process",
		ContextWindow: "1M tokens",
		Generation:    "2.0",
		Category:      CategoryExperimental,
		Features:      []string{"thinking", "reasoning-visibility", "experimental"},
	},
	{
		ID:            "gemini-2.0-flash-lite",
		Name:          "Gemini 2.0 Flash Lite",
		Description:   "Cost-efficient version optimized for low latency",
		ContextWindow: "1M tokens",
		Generation:    "2.0",
		Category:      CategoryLite,
		Features:      []string{"cost-effective", "low-latency", "multimodal"},
	},
	{
		ID:            "gemini-2.0-pro",
		Name:          "Gemini 2.0 Pro",
		Description:   "Advanced capabilities with enhanced performance",
		ContextWindow: "1M tokens",
		Generation:    "2.0",
		Category:      CategoryPro,
		Features:      []string{"advanced", "multimodal", "enhanced-performance"},
	},
	{
		ID:            "gemini-2.0-flash-preview-image-generation",
		Name:          "Gemini 2.0 Flash Image Gen",
		Description:   "Conversational image generation and editing",
		ContextWindow: "32K tokens",
		Generation:    "2.0",
		Category:      CategorySpecialized,
		Features:      []string{"image-generation", "conversational", "image-editing"},
	},

	// 1.5 series
	{
		ID:            "gemini-1.5-pro",
		Name:          "Gemini 1.5 Pro",
		Description:   "Mid-size multimodal model optimized for complex reasoning",
		ContextWindow: "2M tokens",
		Generation:    "1.5",
		Category:      CategoryPro,
		Features:      []string{"complex-reasoning", "multimodal", "long-context"},
	},
	{
		ID:            "gemini-1.5-flash",
		Name:          "Gemini 1.5 Flash",
		Description:   "Fast and versatile performance across diverse tasks",
		ContextWindow: "1M tokens",
		Generation:    "1.5",
		Category:      CategoryBalanced,
		Features:      []string{"versatile", "fast", "multimodal"},
	},
	{
		ID:            "gemini-1.5-flash-8b",
		Name:          "Gemini 1.5 Flash 8B",
		Description:   "Smaller model for high volume and lower intelligence tasks",
		ContextWindow: "1M tokens",
		Generation:    "1.5",
		Category:      CategoryLite,
		Features:      []string{"high-volume", "cost-effective", "multimodal"},
	},

	// 1.0 series
	{
		ID:            "gemini-1.0-pro",
		Name:          "Gemini 1.0 Pro",
		Description:   "Legacy model maintained for compatibility",
		ContextWindow: "32K tokens",
		Generation:    "1.0",
		Category:      CategoryLegacy,
		Features:      []string{"legacy", "compatibility"},
	},
	{
		ID:            "gemini-1.0-ultra",
		Name:          "Gemini 1.0 Ultra",
		Description:   "Legacy ultra model for complex tasks",
		ContextWindow: "32K tokens",
		Generation:    "1.0",
		Category:      CategoryLegacy,
		Features:      []string{"legacy", "complex-tasks"},
	},

	// Live API
	{
		ID:            "gemini-2.5-flash-live",
		Name:          "Gemini 2.5 Flash Live",
		Description:   "Low-latency bidirectional voice and video interactions",
		ContextWindow: "1M tokens",
		Generation:    "2.5",
		Category:      CategoryLive,
		Features:      []string{"live-api", "voice", "video", "real-time"},
	},
	{
		ID:            "gemini-2.0-flash-live",
		Name:          "Gemini 2.0 Flash Live",
		Description:   "Real-time audio and video processing",
		ContextWindow: "1M tokens",
		Generation:    "2.0",
		Category:      CategoryLive,
		Features:      []string{"live-api", "audio", "video", "real-time"},
	},

	// Embeddings
	{
		ID:            "gemini-embedding",
		Name:          "Gemini Embedding",
		Description:   "State-of-the-art text embeddings for semantic understanding",
		ContextWindow: "8K tokens",
		Generation:    "embedding",
		Category:      CategorySpecialized,
		Features:      []string{"embeddings", "semantic-search", "retrieval"},
	},
	{
		ID:            "text-embedding-004",
		Name:          "Text Embedding 004",
		Description:   "High-performance text embeddings with 768 dimensions",
		ContextWindow: "2K tokens",
		Generation:    "embedding",
		Category:      CategorySpecialized,
		Features:      []string{"embeddings", "text-only", "retrieval"},
	},
}
