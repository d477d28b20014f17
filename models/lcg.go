package models

import (
	"context"
	"fmt"

	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/internal/metrics"
	"github.com/tmc/langchaingo/llms"
)

// LCG wraps an llms.Model and implements planact.Model.
//
// Example usage:
//
//	llm, _ := openai.New(openai.WithToken(apiKey))
//	model := models.NewLCG(llm).WithModelName("gpt-4o-mini")
//
//	text, err := model.Call(ctx, planact.Request{Prompt: "Hello"})
type LCG struct {
	defaults
	model llms.Model
}

// NewLCG creates a new LCG wrapping the given llms.Model.
func NewLCG(model llms.Model) *LCG {
	return &LCG{
		defaults: newDefaults(""),
		model:    model,
	}
}

// WithModelName sets the model used when a request does not name one. When empty, the
// option is omitted and the wrapped client's own model applies.
func (m *LCG) WithModelName(name string) *LCG {
	m.modelName = name
	return m
}

// WithMaxTokens sets the default response token limit.
func (m *LCG) WithMaxTokens(n int) *LCG {
	m.maxTokens = n
	return m
}

// WithTemperature sets the default sampling temperature.
func (m *LCG) WithTemperature(t float64) *LCG {
	m.temperature = t
	return m
}

// WithMetrics records reported token usage.
func (m *LCG) WithMetrics(mt *metrics.Metrics) *LCG {
	m.metrics = mt
	return m
}

// Unwrap returns the underlying llms.Model.
func (m *LCG) Unwrap() llms.Model {
	return m.model
}

// Call implements planact.Model. It returns the content of the first choice.
func (m *LCG) Call(ctx context.Context, req planact.Request) (string, error) {
	r, err := m.resolve(req)
	if err != nil {
		return "", err
	}

	options := []llms.CallOption{
		llms.WithMaxTokens(r.maxTokens),
		llms.WithTemperature(r.temperature),
	}
	if r.model != "" {
		options = append(options, llms.WithModel(r.model))
	}

	response, err := m.model.GenerateContent(ctx, toLCGMessages(r.messages), options...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", planact.ErrModelCall, err)
	}
	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", planact.ErrModelCall)
	}

	choice := response.Choices[0]
	if choice.GenerationInfo != nil {
		m.record(r.model, Usage{
			InputTokens:  extractInputTokens(choice.GenerationInfo),
			OutputTokens: extractOutputTokens(choice.GenerationInfo),
		})
	}
	return choice.Content, nil
}

// toLCGMessages converts conversation messages to langchaingo message content.
func toLCGMessages(messages []planact.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		out = append(out, llms.TextParts(toLCGRole(msg.Role), msg.Content))
	}
	return out
}

func toLCGRole(role planact.Role) llms.ChatMessageType {
	switch role {
	case planact.RoleSystem:
		return llms.ChatMessageTypeSystem
	case planact.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// extractInputTokens extracts input/prompt token count from GenerationInfo.
// Handles different key names used by different providers.
func extractInputTokens(info map[string]any) int {
	for _, key := range []string{
		"PromptTokens", // OpenAI / Ollama
		"InputTokens",  // Anthropic
		"input_tokens", // Google / Bedrock
	} {
		if v := getIntFromMap(info, key); v > 0 {
			return v
		}
	}
	return 0
}

// extractOutputTokens extracts output/completion token count from GenerationInfo.
func extractOutputTokens(info map[string]any) int {
	for _, key := range []string{
		"CompletionTokens", // OpenAI / Ollama
		"OutputTokens",     // Anthropic
		"output_tokens",    // Google / Bedrock
	} {
		if v := getIntFromMap(info, key); v > 0 {
			return v
		}
	}
	return 0
}

// getIntFromMap extracts an int value from a map, handling various numeric types.
func getIntFromMap(m map[string]any, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}

// Compile-time check that LCG implements planact.Model.
var _ planact.Model = (*LCG)(nil)
