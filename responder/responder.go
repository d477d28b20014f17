// Package responder produces the user-facing reply from the whole conversation.
//
// Tool results reach the responder as assistant messages wrapped in
// <agent_answer></agent_answer>. The system prompt rendered by SystemPrompt tells the model
// to treat those results as authoritative.
package responder

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/internal/logging"
	"github.com/rickchristie/planact/internal/metrics"
	"github.com/rickchristie/planact/toolchain"
)

//go:embed responder.tmpl
var responderTemplateContent string

// DefaultSystemTemplate is the responder system prompt. It receives TemplateData.
var DefaultSystemTemplate = template.Must(
	template.New("responder_system").Parse(responderTemplateContent),
)

// TemplateData is passed to the responder system template.
type TemplateData struct {
	// Catalog is the terse tool catalog.
	Catalog string
}

// SystemPrompt renders the default responder system prompt for registry.
func SystemPrompt(registry *toolchain.Registry) (string, error) {
	return RenderSystemPrompt(DefaultSystemTemplate, registry)
}

// RenderSystemPrompt renders tmpl with registry's terse catalog.
func RenderSystemPrompt(tmpl *template.Template, registry *toolchain.Registry) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, TemplateData{Catalog: registry.Catalog()}); err != nil {
		return "", fmt.Errorf("render responder prompt: %w", err)
	}
	return buf.String(), nil
}

// Responder sends a conversation to the model and returns its reply verbatim.
type Responder struct {
	model     planact.Model
	modelName string
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New creates a Responder backed by model.
func New(model planact.Model) *Responder {
	return &Responder{
		model:  model,
		logger: logging.Discard(),
	}
}

// WithModelName sets the model requested from the gateway. Empty means the gateway default.
func (r *Responder) WithModelName(name string) *Responder {
	r.modelName = name
	return r
}

// WithLogger sets the logger. Nil discards.
func (r *Responder) WithLogger(l *slog.Logger) *Responder {
	r.logger = logging.OrDiscard(l)
	return r
}

// WithMetrics records model calls.
func (r *Responder) WithMetrics(m *metrics.Metrics) *Responder {
	r.metrics = m
	return r
}

// Respond returns the model's reply to conversation. The conversation is not modified.
func (r *Responder) Respond(ctx context.Context, conversation []planact.Message) (string, error) {
	start := time.Now()
	reply, err := r.model.Call(ctx, planact.Request{
		Messages: planact.CloneMessages(conversation),
		Model:    r.modelName,
	})
	r.metrics.ModelCall("responder", time.Since(start), err)
	if err != nil {
		if !errors.Is(err, planact.ErrModelCall) {
			err = fmt.Errorf("%w: %w", planact.ErrModelCall, err)
		}
		return "", err
	}
	r.logger.Debug("response", "messages", len(conversation), "reply", reply)
	return reply, nil
}
