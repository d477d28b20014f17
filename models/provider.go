package models

import (
	"context"
	"fmt"
	"strings"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/option"
	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/config"
	"github.com/rickchristie/planact/internal/metrics"
	lcganthropic "github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider names accepted in llm.provider.
const (
	ProviderOpenAI          = "openai"
	ProviderOpenAIResponses = "openai-responses"
	ProviderAnthropic       = "anthropic"
	ProviderAnthropicSDK    = "anthropic-sdk"
	ProviderGemini          = "gemini"
	ProviderOllama          = "ollama"
	ProviderGitHub          = "github"
)

// Providers lists every provider New accepts.
var Providers = []string{
	ProviderOpenAI,
	ProviderOpenAIResponses,
	ProviderAnthropic,
	ProviderAnthropicSDK,
	ProviderGemini,
	ProviderOllama,
	ProviderGitHub,
}

// New builds the gateway selected by cfg.Provider, configured with the model name and
// numeric defaults from cfg. mt may be nil.
func New(ctx context.Context, cfg config.LLMConfig, mt *metrics.Metrics) (planact.Model, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return configureLCG(NewLCG(llm), cfg, mt), nil

	case ProviderAnthropic:
		opts := []lcganthropic.Option{lcganthropic.WithToken(cfg.APIKey), lcganthropic.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, lcganthropic.WithBaseURL(cfg.BaseURL))
		}
		llm, err := lcganthropic.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create Anthropic client: %w", err)
		}
		return configureLCG(NewLCG(llm), cfg, mt), nil

	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		llm, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return configureLCG(NewLCG(llm), cfg, mt), nil

	case ProviderGitHub:
		model := cfg.Model
		if model != "" && !strings.Contains(model, "/") {
			model = "openai/" + model
		}
		var opts []openai.Option
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		gh, err := NewGitHub(model, cfg.APIKey, opts...)
		if err != nil {
			return nil, err
		}
		return gh.WithMaxTokens(cfg.MaxTokens).
			WithTemperature(cfg.Temperature).
			WithMetrics(mt), nil

	case ProviderOpenAIResponses:
		var opts []option.RequestOption
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		m := NewOpenAIResponses(cfg.APIKey, opts...).
			WithMaxTokens(cfg.MaxTokens).
			WithTemperature(cfg.Temperature).
			WithMetrics(mt)
		if cfg.Model != "" {
			m.WithModelName(cfg.Model)
		}
		return m, nil

	case ProviderAnthropicSDK:
		var opts []anthropicoption.RequestOption
		if cfg.BaseURL != "" {
			opts = append(opts, anthropicoption.WithBaseURL(cfg.BaseURL))
		}
		m := NewAnthropicMessages(cfg.APIKey, opts...).
			WithMaxTokens(cfg.MaxTokens).
			WithTemperature(cfg.Temperature).
			WithMetrics(mt)
		if cfg.Model != "" {
			m.WithModelName(cfg.Model)
		}
		return m, nil

	case ProviderGemini:
		g, err := NewGemini(ctx, cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		g.WithMaxTokens(cfg.MaxTokens).
			WithTemperature(cfg.Temperature).
			WithMetrics(mt)
		if cfg.Model != "" {
			g.WithModelName(cfg.Model)
		}
		return g, nil

	default:
		return nil, fmt.Errorf("%w: %q (known: %s)",
			planact.ErrUnknownProvider, cfg.Provider, strings.Join(Providers, ", "))
	}
}

func configureLCG(m *LCG, cfg config.LLMConfig, mt *metrics.Metrics) *LCG {
	return m.WithModelName(cfg.Model).
		WithMaxTokens(cfg.MaxTokens).
		WithTemperature(cfg.Temperature).
		WithMetrics(mt)
}
