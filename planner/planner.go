// Package planner asks the model for a free-text plan naming the tools needed to answer a
// question.
//
// The model answers with a <plan>...</plan> region. An empty region means no tool is
// needed. The planner never calls tools.
package planner

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
	"github.com/rickchristie/planact/format"
	"github.com/rickchristie/planact/internal/logging"
	"github.com/rickchristie/planact/internal/metrics"
	"github.com/rickchristie/planact/toolchain"
)

//go:embed planner.tmpl
var plannerTemplateContent string

// DefaultTemplate is the planner prompt. It receives TemplateData.
var DefaultTemplate = template.Must(template.New("planner").Parse(plannerTemplateContent))

// TemplateData is passed to the planner template.
type TemplateData struct {
	// Question is the user's question, verbatim.
	Question string

	// Catalog is the terse tool catalog.
	Catalog string
}

// Status classifies a planning result.
type Status int

const (
	// StatusNoPlan means no tool is needed: the plan region was empty or absent.
	StatusNoPlan Status = iota

	// StatusPlanned means Result.Text holds a non-empty plan.
	StatusPlanned

	// StatusExtractionFailed means the output opened a plan region without closing it.
	// Callers treat it like StatusNoPlan.
	StatusExtractionFailed
)

func (s Status) String() string {
	switch s {
	case StatusNoPlan:
		return "no_plan"
	case StatusPlanned:
		return "planned"
	case StatusExtractionFailed:
		return "extraction_failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome of Plan.
type Result struct {
	Status Status

	// Text is the trimmed plan. Empty unless Status is StatusPlanned.
	Text string

	// Raw is the model output the result was extracted from.
	Raw string
}

// HasPlan reports whether the executor should run.
func (r Result) HasPlan() bool {
	return r.Status == StatusPlanned
}

// Planner produces a plan for a question.
type Planner struct {
	model     planact.Model
	registry  *toolchain.Registry
	format    *format.XML
	template  *template.Template
	modelName string
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New creates a Planner that describes registry's tools to model.
func New(model planact.Model, registry *toolchain.Registry) *Planner {
	return &Planner{
		model:    model,
		registry: registry,
		format:   format.NewXML(),
		template: DefaultTemplate,
		logger:   logging.Discard(),
	}
}

// WithModelName sets the model requested from the gateway. Empty means the gateway default.
func (p *Planner) WithModelName(name string) *Planner {
	p.modelName = name
	return p
}

// WithTemplate replaces the planner prompt template.
func (p *Planner) WithTemplate(tmpl *template.Template) *Planner {
	p.template = tmpl
	return p
}

// WithLogger sets the logger. Nil discards.
func (p *Planner) WithLogger(l *slog.Logger) *Planner {
	p.logger = logging.OrDiscard(l)
	return p
}

// WithMetrics records model calls and plan outcomes.
func (p *Planner) WithMetrics(m *metrics.Metrics) *Planner {
	p.metrics = m
	return p
}

// Prompt renders the planner prompt for question.
func (p *Planner) Prompt(question string) (string, error) {
	var buf bytes.Buffer
	err := p.template.Execute(&buf, TemplateData{
		Question: question,
		Catalog:  p.registry.Catalog(),
	})
	if err != nil {
		return "", fmt.Errorf("render planner prompt: %w", err)
	}
	return buf.String(), nil
}

// Plan asks the model for a plan. The only error returned is a gateway failure, or a
// template failure with a custom template.
func (p *Planner) Plan(ctx context.Context, question string) (Result, error) {
	prompt, err := p.Prompt(question)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	output, err := p.model.Call(ctx, planact.Request{Prompt: prompt, Model: p.modelName})
	p.metrics.ModelCall("planner", time.Since(start), err)
	if err != nil {
		if !errors.Is(err, planact.ErrModelCall) {
			err = fmt.Errorf("%w: %w", planact.ErrModelCall, err)
		}
		return Result{}, err
	}

	result := p.extract(output)
	p.metrics.Plan(result.Status.String())
	p.logger.Debug("plan", "status", result.Status.String(), "plan", result.Text)
	return result, nil
}

func (p *Planner) extract(output string) Result {
	text, found, err := p.format.Extract(output, planact.TagPlan)
	switch {
	case err != nil:
		return Result{Status: StatusExtractionFailed, Raw: output}
	case !found || text == "":
		return Result{Status: StatusNoPlan, Raw: output}
	default:
		return Result{Status: StatusPlanned, Text: text, Raw: output}
	}
}
