package models

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/internal/metrics"
)

// OpenAIResponses is a gateway over the OpenAI Responses API using the official SDK.
//
//	model := models.NewOpenAIResponses(apiKey).WithModelName("gpt-4o-mini")
//
// The SDK's automatic retries are disabled; a failed call is reported once.
type OpenAIResponses struct {
	defaults
	client *openai.Client
}

// NewOpenAIResponses creates a gateway authenticated with apiKey. Extra request options
// are applied after the defaults.
func NewOpenAIResponses(apiKey string, opts ...option.RequestOption) *OpenAIResponses {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	client := openai.NewClient(append(base, opts...)...)
	return &OpenAIResponses{
		defaults: newDefaults(planact.DefaultModel),
		client:   &client,
	}
}

// WithModelName sets the model used when a request does not name one.
func (m *OpenAIResponses) WithModelName(name string) *OpenAIResponses {
	m.modelName = name
	return m
}

// WithMaxTokens sets the default response token limit.
func (m *OpenAIResponses) WithMaxTokens(n int) *OpenAIResponses {
	m.maxTokens = n
	return m
}

// WithTemperature sets the default sampling temperature.
func (m *OpenAIResponses) WithTemperature(t float64) *OpenAIResponses {
	m.temperature = t
	return m
}

// WithMetrics records reported token usage.
func (m *OpenAIResponses) WithMetrics(mt *metrics.Metrics) *OpenAIResponses {
	m.metrics = mt
	return m
}

// Call implements planact.Model.
func (m *OpenAIResponses) Call(ctx context.Context, req planact.Request) (string, error) {
	r, err := m.resolve(req)
	if err != nil {
		return "", err
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(r.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: toResponseItems(r.messages),
		},
		MaxOutputTokens: openai.Int(int64(r.maxTokens)),
		Temperature:     openai.Float(r.temperature),
	}

	result, err := m.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: openai: %w", planact.ErrModelCall, err)
	}
	if result == nil || len(result.Output) == 0 {
		return "", fmt.Errorf("%w: openai: empty response", planact.ErrModelCall)
	}

	m.record(r.model, Usage{
		InputTokens:  int(result.Usage.InputTokens),
		OutputTokens: int(result.Usage.OutputTokens),
	})
	return result.OutputText(), nil
}

func toResponseItems(messages []planact.Message) responses.ResponseInputParam {
	items := make(responses.ResponseInputParam, 0, len(messages))
	for _, msg := range messages {
		var role responses.EasyInputMessageRole
		switch msg.Role {
		case planact.RoleSystem:
			role = responses.EasyInputMessageRoleSystem
		case planact.RoleAssistant:
			role = responses.EasyInputMessageRoleAssistant
		default:
			role = responses.EasyInputMessageRoleUser
		}
		items = append(items, responses.ResponseInputItemParamOfMessage(msg.Content, role))
	}
	return items
}

// Compile-time check that OpenAIResponses implements planact.Model.
var _ planact.Model = (*OpenAIResponses)(nil)
