// Package executor runs a plan through a bounded Thought / Action / PAUSE / Observation
// loop against a tool Registry.
//
// # Loop
//
// The transcript starts with a system prompt listing the tools in detail, followed by
//
//	Question: <question>
//	Plan: <plan>
//
// Each turn sends the whole transcript to the model. When the reply contains an action line
//
//	Action: {"tool": "CalculateTool", "parameters": {"expression": "15 * 45"}}
//
// the first such line is dispatched and its output becomes the next prompt:
//
//	Observation: {"result": 675}
//
// A reply without an action line is the answer and is returned verbatim. Running out of
// turns returns planact.ErrTurnBudgetExceeded.
//
// # Errors
//
// Every failure ends the invocation; nothing is retried:
//
//	planact.ErrModelCall          gateway failure
//	planact.ErrMalformedAction    action line is not valid JSON
//	planact.ErrUnknownTool        action names an unregistered tool
//	planact.ErrToolFailed         the tool returned an error
//	planact.ErrTurnBudgetExceeded no answer within MaxTurns
package executor

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

// DefaultMaxTurns is the number of model calls allowed per invocation.
const DefaultMaxTurns = 5

//go:embed executor.tmpl
var executorTemplateContent string

// DefaultSystemTemplate is the executor system prompt. It receives TemplateData.
var DefaultSystemTemplate = template.Must(
	template.New("executor_system").Parse(executorTemplateContent),
)

// TemplateData is passed to the executor system template.
type TemplateData struct {
	// Catalog is the detailed tool catalog.
	Catalog string
}

// Result describes a finished invocation.
type Result struct {
	// Answer is the final model reply. Empty on failure.
	Answer string

	// Turns is the number of model calls made.
	Turns int

	// Messages is the executor transcript: system prompt, then alternating user prompts
	// and model replies.
	Messages []planact.Message
}

// Executor runs plans. An Executor holds no per-invocation state and may be reused.
type Executor struct {
	model          planact.Model
	registry       *toolchain.Registry
	maxTurns       int
	modelName      string
	systemTemplate *template.Template
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

// New creates an Executor that calls model and dispatches to registry.
func New(model planact.Model, registry *toolchain.Registry) *Executor {
	return &Executor{
		model:          model,
		registry:       registry,
		maxTurns:       DefaultMaxTurns,
		systemTemplate: DefaultSystemTemplate,
		logger:         logging.Discard(),
	}
}

// WithMaxTurns sets the turn budget. A budget of zero or less fails every invocation
// without calling the model.
func (e *Executor) WithMaxTurns(n int) *Executor {
	e.maxTurns = n
	return e
}

// WithModelName sets the model requested from the gateway. Empty means the gateway default.
func (e *Executor) WithModelName(name string) *Executor {
	e.modelName = name
	return e
}

// WithSystemTemplate replaces the system prompt template.
func (e *Executor) WithSystemTemplate(tmpl *template.Template) *Executor {
	e.systemTemplate = tmpl
	return e
}

// WithLogger sets the logger. Nil discards.
func (e *Executor) WithLogger(l *slog.Logger) *Executor {
	e.logger = logging.OrDiscard(l)
	return e
}

// WithMetrics records model calls, tool dispatches and outcomes.
func (e *Executor) WithMetrics(m *metrics.Metrics) *Executor {
	e.metrics = m
	return e
}

// MaxTurns returns the configured turn budget.
func (e *Executor) MaxTurns() int {
	return e.maxTurns
}

// SystemPrompt renders the executor system prompt.
func (e *Executor) SystemPrompt() (string, error) {
	var buf bytes.Buffer
	err := e.systemTemplate.Execute(&buf, TemplateData{Catalog: e.registry.DetailedCatalog()})
	if err != nil {
		return "", fmt.Errorf("render executor prompt: %w", err)
	}
	return buf.String(), nil
}

// FirstPrompt returns the opening user prompt of an invocation.
func FirstPrompt(plan, question string) string {
	return "Question: " + question + "\nPlan: " + plan
}

// Execute runs plan for question and returns the model's final reply.
func (e *Executor) Execute(ctx context.Context, plan, question string) (string, error) {
	result, err := e.Run(ctx, plan, question)
	if err != nil {
		return "", err
	}
	return result.Answer, nil
}

// Run is Execute that also returns the transcript. The Result is non-nil even when err is
// not, so callers can inspect how far the invocation got.
func (e *Executor) Run(ctx context.Context, plan, question string) (*Result, error) {
	result := &Result{}

	if e.maxTurns <= 0 {
		e.logger.Error("max turns reached without reaching an answer", "max_turns", e.maxTurns)
		e.metrics.ExecutorRun(metrics.OutcomeTurnBudget, 0)
		return result, fmt.Errorf("%w: max turns is %d", planact.ErrTurnBudgetExceeded, e.maxTurns)
	}

	system, err := e.SystemPrompt()
	if err != nil {
		return result, err
	}
	result.Messages = []planact.Message{planact.SystemMessage(system)}

	next := FirstPrompt(plan, question)
	for turn := 1; turn <= e.maxTurns; turn++ {
		e.logger.Debug("executing turn", "turn", turn, "max_turns", e.maxTurns)
		result.Messages = append(result.Messages, planact.UserMessage(next))
		result.Turns = turn

		reply, err := e.call(ctx, result.Messages)
		if err != nil {
			e.metrics.ExecutorRun(outcomeFor(ctx, metrics.OutcomeModelError), turn)
			return result, err
		}
		result.Messages = append(result.Messages, planact.AssistantMessage(reply))

		action, found, err := toolchain.ParseAction(reply)
		if err != nil {
			e.logger.Error("failed to parse action", "error", err)
			e.metrics.ExecutorRun(metrics.OutcomeMalformed, turn)
			return result, err
		}
		if !found {
			e.logger.Info("no more actions, returning final response")
			e.logger.Debug("executor messages", "messages", result.Messages)
			e.metrics.ExecutorRun(metrics.OutcomeAnswered, turn)
			result.Answer = reply
			return result, nil
		}
		e.logger.Debug("action", "tool", action.Tool, "parameters", action.Parameters)

		next, err = e.dispatch(ctx, action)
		if err != nil {
			e.metrics.ExecutorRun(outcomeFor(ctx, dispatchOutcome(err)), turn)
			return result, err
		}
	}

	e.logger.Debug("executor messages", "messages", result.Messages)
	e.logger.Error("max turns reached without reaching an answer", "max_turns", e.maxTurns)
	e.metrics.ExecutorRun(metrics.OutcomeTurnBudget, result.Turns)
	return result, fmt.Errorf("%w: after %d turns", planact.ErrTurnBudgetExceeded, e.maxTurns)
}

// call sends a snapshot of the transcript so the model cannot alias it.
func (e *Executor) call(ctx context.Context, messages []planact.Message) (string, error) {
	start := time.Now()
	reply, err := e.model.Call(ctx, planact.Request{
		Messages: planact.CloneMessages(messages),
		Model:    e.modelName,
	})
	e.metrics.ModelCall("executor", time.Since(start), err)
	if err != nil {
		if !errors.Is(err, planact.ErrModelCall) {
			err = fmt.Errorf("%w: %w", planact.ErrModelCall, err)
		}
		return "", err
	}
	return reply, nil
}

// dispatch runs action and returns the observation prompt.
func (e *Executor) dispatch(ctx context.Context, action *toolchain.Action) (string, error) {
	if _, ok := e.registry.Lookup(action.Tool); !ok {
		e.logger.Error("unknown action", "tool", action.Tool)
	} else {
		e.logger.Info("running tool", "tool", action.Tool, "parameters", action.Parameters)
	}

	observation, err := e.registry.Dispatch(ctx, action)
	e.metrics.ToolCall(action.Tool, err)
	if err != nil {
		if errors.Is(err, planact.ErrToolFailed) {
			e.logger.Error("tool failed", "tool", action.Tool, "error", err)
		}
		return "", err
	}
	e.logger.Debug("observation", "tool", action.Tool, "observation", observation)

	prompt, err := toolchain.ObservationPrompt(observation)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", planact.ErrToolFailed, action.Tool, err)
	}
	return prompt, nil
}

func dispatchOutcome(err error) string {
	if errors.Is(err, planact.ErrUnknownTool) {
		return metrics.OutcomeUnknownTool
	}
	return metrics.OutcomeToolFailed
}

func outcomeFor(ctx context.Context, outcome string) string {
	if ctx.Err() != nil {
		return metrics.OutcomeCanceled
	}
	return outcome
}
