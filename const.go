package planact

// =============================================================================
// OpenAI Models
// https://platform.openai.com/docs/models/
// =============================================================================

const (
	ModelOpenAIGPT41     = "gpt-4.1"
	ModelOpenAIGPT41Mini = "gpt-4.1-mini"
	ModelOpenAIGPT4o     = "gpt-4o"
	ModelOpenAIGPT4oMini = "gpt-4o-mini"
)

// =============================================================================
// Anthropic Claude Models
// https://docs.anthropic.com/en/docs/about-claude/models/overview
// =============================================================================

const (
	ModelAnthropicClaude45Sonnet = "claude-sonnet-4-5-20250929"
	ModelAnthropicClaude45Haiku  = "claude-haiku-4-5-20251001"
)

// =============================================================================
// Google Gemini Models
// https://ai.google.dev/gemini-api/docs/models
// =============================================================================

const (
	ModelGoogleGemini25Flash = "gemini-2.5-flash"
)

// =============================================================================
// Gateway defaults
// =============================================================================

const (
	// DefaultModel is used when neither the request nor the configuration names a model.
	DefaultModel = ModelOpenAIGPT4oMini

	// DefaultTemperature is the sampling temperature used when none is configured.
	DefaultTemperature = 0.1

	// DefaultMaxTokens is the response token limit used when none is configured.
	DefaultMaxTokens = 4096
)
