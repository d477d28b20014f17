package models

import (
	"strings"

	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/internal/metrics"
)

// Usage is the token accounting reported by a backend, normalized across providers.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// defaults holds the numeric parameters and model name a gateway falls back to when a
// Request leaves them unset. Every gateway embeds one.
type defaults struct {
	modelName   string
	maxTokens   int
	temperature float64
	metrics     *metrics.Metrics
}

func newDefaults(modelName string) defaults {
	return defaults{
		modelName:   modelName,
		maxTokens:   planact.DefaultMaxTokens,
		temperature: planact.DefaultTemperature,
	}
}

// resolved is a Request with every default applied.
type resolved struct {
	model       string
	maxTokens   int
	temperature float64
	messages    []planact.Message
}

func (d *defaults) resolve(req planact.Request) (resolved, error) {
	messages, err := req.Conversation()
	if err != nil {
		return resolved{}, err
	}

	r := resolved{
		model:       d.modelName,
		maxTokens:   d.maxTokens,
		temperature: d.temperature,
		messages:    messages,
	}
	if req.Model != "" {
		r.model = req.Model
	}
	if req.MaxTokens > 0 {
		r.maxTokens = req.MaxTokens
	}
	if r.maxTokens <= 0 {
		r.maxTokens = planact.DefaultMaxTokens
	}
	if req.Temperature != nil {
		r.temperature = *req.Temperature
	}
	return r, nil
}

func (d *defaults) record(model string, usage Usage) {
	d.metrics.Tokens(model, usage.InputTokens, usage.OutputTokens)
}

// splitSystem separates leading and interleaved system messages from the rest, for
// backends that take the system prompt out of band. System contents are joined with a
// blank line.
func splitSystem(messages []planact.Message) (system string, rest []planact.Message) {
	var parts []string
	rest = make([]planact.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == planact.RoleSystem {
			parts = append(parts, msg.Content)
			continue
		}
		rest = append(rest, msg)
	}
	return strings.Join(parts, "\n\n"), rest
}
