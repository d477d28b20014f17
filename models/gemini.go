package models

import (
	"context"
	"fmt"

	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/internal/metrics"
	"google.golang.org/genai"
)

// Gemini is a gateway over the Gemini API using the Google Gen AI SDK.
//
// System messages are joined and sent as the system instruction.
type Gemini struct {
	defaults
	client *genai.Client
}

// NewGemini creates a Gemini gateway. A non-empty baseURL overrides the API endpoint.
func NewGemini(ctx context.Context, apiKey, baseURL string) (*Gemini, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{
		defaults: newDefaults(planact.ModelGoogleGemini25Flash),
		client:   client,
	}, nil
}

// WithModelName sets the model used when a request does not name one.
func (m *Gemini) WithModelName(name string) *Gemini {
	m.modelName = name
	return m
}

// WithMaxTokens sets the default response token limit.
func (m *Gemini) WithMaxTokens(n int) *Gemini {
	m.maxTokens = n
	return m
}

// WithTemperature sets the default sampling temperature.
func (m *Gemini) WithTemperature(t float64) *Gemini {
	m.temperature = t
	return m
}

// WithMetrics records reported token usage.
func (m *Gemini) WithMetrics(mt *metrics.Metrics) *Gemini {
	m.metrics = mt
	return m
}

// Call implements planact.Model.
func (m *Gemini) Call(ctx context.Context, req planact.Request) (string, error) {
	r, err := m.resolve(req)
	if err != nil {
		return "", err
	}

	system, rest := splitSystem(r.messages)
	contents := make([]*genai.Content, 0, len(rest))
	for _, msg := range rest {
		role := genai.Role(genai.RoleUser)
		if msg.Role == planact.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(r.temperature)),
		MaxOutputTokens: int32(r.maxTokens),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := m.client.Models.GenerateContent(ctx, r.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %w", planact.ErrModelCall, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini: no candidates in response", planact.ErrModelCall)
	}

	if resp.UsageMetadata != nil {
		m.record(r.model, Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		})
	}
	return resp.Text(), nil
}

// Compile-time check that Gemini implements planact.Model.
var _ planact.Model = (*Gemini)(nil)
