package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/internal/metrics"
)

// AnthropicMessages is a gateway over the Anthropic Messages API using the official SDK.
//
// System messages anywhere in the conversation are joined and sent as the system prompt,
// since the API takes it out of band. Consecutive messages with the same role are merged.
type AnthropicMessages struct {
	defaults
	client *anthropic.Client
}

// NewAnthropicMessages creates a gateway authenticated with apiKey. Extra request options
// are applied after the defaults.
func NewAnthropicMessages(apiKey string, opts ...option.RequestOption) *AnthropicMessages {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	client := anthropic.NewClient(append(base, opts...)...)
	return &AnthropicMessages{
		defaults: newDefaults(planact.ModelAnthropicClaude45Haiku),
		client:   &client,
	}
}

// WithModelName sets the model used when a request does not name one.
func (m *AnthropicMessages) WithModelName(name string) *AnthropicMessages {
	m.modelName = name
	return m
}

// WithMaxTokens sets the default response token limit.
func (m *AnthropicMessages) WithMaxTokens(n int) *AnthropicMessages {
	m.maxTokens = n
	return m
}

// WithTemperature sets the default sampling temperature.
func (m *AnthropicMessages) WithTemperature(t float64) *AnthropicMessages {
	m.temperature = t
	return m
}

// WithMetrics records reported token usage.
func (m *AnthropicMessages) WithMetrics(mt *metrics.Metrics) *AnthropicMessages {
	m.metrics = mt
	return m
}

// Call implements planact.Model.
func (m *AnthropicMessages) Call(ctx context.Context, req planact.Request) (string, error) {
	r, err := m.resolve(req)
	if err != nil {
		return "", err
	}

	system, rest := splitSystem(r.messages)
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(r.model),
		MaxTokens:   int64(r.maxTokens),
		Messages:    toAnthropicMessages(rest),
		Temperature: anthropic.Float(r.temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: %w", planact.ErrModelCall, err)
	}
	if msg == nil || len(msg.Content) == 0 {
		return "", fmt.Errorf("%w: anthropic: empty response", planact.ErrModelCall)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(b.Text)
		}
	}

	m.record(r.model, Usage{
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	})
	return sb.String(), nil
}

// toAnthropicMessages converts non-system messages, merging consecutive same-role turns
// because the API requires alternation.
func toAnthropicMessages(messages []planact.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	var lastRole planact.Role
	var pending []string

	flush := func() {
		if len(pending) == 0 {
			return
		}
		block := anthropic.NewTextBlock(strings.Join(pending, "\n\n"))
		if lastRole == planact.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
		} else {
			out = append(out, anthropic.NewUserMessage(block))
		}
		pending = nil
	}

	for _, msg := range messages {
		role := msg.Role
		if role != planact.RoleAssistant {
			role = planact.RoleUser
		}
		if role != lastRole {
			flush()
			lastRole = role
		}
		pending = append(pending, msg.Content)
	}
	flush()
	return out
}

// Compile-time check that AnthropicMessages implements planact.Model.
var _ planact.Model = (*AnthropicMessages)(nil)
