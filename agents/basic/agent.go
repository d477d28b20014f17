package basic

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/executor"
	"github.com/rickchristie/planact/format"
	"github.com/rickchristie/planact/internal/logging"
	"github.com/rickchristie/planact/internal/metrics"
	"github.com/rickchristie/planact/planner"
	"github.com/rickchristie/planact/responder"
	"github.com/rickchristie/planact/toolchain"
)

// FallbackAnswer replaces the executor answer when the executor fails.
const FallbackAnswer = "I'm sorry, I couldn't find an answer to your question due to an internal error."

// Planner produces a plan for a question.
type Planner interface {
	Plan(ctx context.Context, question string) (planner.Result, error)
}

// Executor runs a plan and returns its answer.
type Executor interface {
	Execute(ctx context.Context, plan, question string) (string, error)
}

// Responder answers over a whole conversation.
type Responder interface {
	Respond(ctx context.Context, conversation []planact.Message) (string, error)
}

// Compile-time checks that the default stages satisfy the stage interfaces.
var (
	_ Planner   = (*planner.Planner)(nil)
	_ Executor  = (*executor.Executor)(nil)
	_ Responder = (*responder.Responder)(nil)
)

// Agent answers questions over a single conversation.
//
// An Agent is not safe for concurrent use: Ask appends to the conversation, so concurrent
// calls must be serialized by the caller.
type Agent struct {
	id       string
	registry *toolchain.Registry
	format   *format.XML
	logger   *slog.Logger

	planner   Planner
	executor  Executor
	responder Responder

	// Default stages, kept so builder options can reach them. Injected stages replace the
	// interface fields above and are not reconfigured.
	defaultPlanner   *planner.Planner
	defaultExecutor  *executor.Executor
	defaultResponder *responder.Responder

	messages []planact.Message
}

// NewAgent creates an Agent whose three stages share model and whose tools are registry.
// Defaults:
//   - MaxTurns: executor.DefaultMaxTurns
//   - ModelName: empty, the gateway default
//   - Logger: discard
func NewAgent(model planact.Model, registry *toolchain.Registry) *Agent {
	a := &Agent{
		id:               uuid.NewString(),
		registry:         registry,
		format:           format.NewXML(),
		defaultPlanner:   planner.New(model, registry),
		defaultExecutor:  executor.New(model, registry),
		defaultResponder: responder.New(model),
	}
	a.planner = a.defaultPlanner
	a.executor = a.defaultExecutor
	a.responder = a.defaultResponder
	return a.WithLogger(nil)
}

// WithModelName sets the model every default stage requests from the gateway.
func (a *Agent) WithModelName(name string) *Agent {
	a.defaultPlanner.WithModelName(name)
	a.defaultExecutor.WithModelName(name)
	a.defaultResponder.WithModelName(name)
	return a
}

// WithMaxTurns sets the default executor's turn budget.
func (a *Agent) WithMaxTurns(n int) *Agent {
	a.defaultExecutor.WithMaxTurns(n)
	return a
}

// WithLogger sets the logger. Records are tagged with the session id. Nil discards.
func (a *Agent) WithLogger(l *slog.Logger) *Agent {
	a.logger = logging.OrDiscard(l).With("session", a.id)
	a.defaultPlanner.WithLogger(a.logger.With("stage", "planner"))
	a.defaultExecutor.WithLogger(a.logger.With("stage", "executor"))
	a.defaultResponder.WithLogger(a.logger.With("stage", "responder"))
	return a
}

// WithMetrics records model calls, tool dispatches and stage outcomes for every default
// stage.
func (a *Agent) WithMetrics(m *metrics.Metrics) *Agent {
	a.defaultPlanner.WithMetrics(m)
	a.defaultExecutor.WithMetrics(m)
	a.defaultResponder.WithMetrics(m)
	return a
}

// WithPlanner replaces the planner stage.
func (a *Agent) WithPlanner(p Planner) *Agent {
	a.planner = p
	return a
}

// WithExecutor replaces the executor stage.
func (a *Agent) WithExecutor(e Executor) *Agent {
	a.executor = e
	return a
}

// WithResponder replaces the responder stage.
func (a *Agent) WithResponder(r Responder) *Agent {
	a.responder = r
	return a
}

// ID returns the session id attached to log records.
func (a *Agent) ID() string {
	return a.id
}

// Messages returns a copy of the conversation.
func (a *Agent) Messages() []planact.Message {
	return planact.CloneMessages(a.messages)
}

// Ask answers question and returns the responder's reply.
//
// Executor failures are absorbed and replaced with FallbackAnswer. Planner and responder
// failures are returned; the question remains in the conversation.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	if err := a.seed(); err != nil {
		return "", err
	}
	a.messages = append(a.messages, planact.UserMessage(question))

	plan, err := a.planner.Plan(ctx, question)
	if err != nil {
		a.logger.Error("planner failed", "error", err)
		return "", err
	}

	switch plan.Status {
	case planner.StatusPlanned:
		answer := a.execute(ctx, plan.Text, question)
		a.messages = append(a.messages,
			planact.AssistantMessage(a.format.Wrap(planact.TagAgentAnswer, answer)))
	case planner.StatusExtractionFailed:
		a.logger.Warn("plan region not closed, answering without tools", "output", plan.Raw)
	default:
		a.logger.Debug("no plan, answering without tools")
	}

	reply, err := a.responder.Respond(ctx, a.Messages())
	if err != nil {
		a.logger.Error("responder failed", "error", err)
		return "", err
	}
	a.messages = append(a.messages, planact.AssistantMessage(reply))
	return reply, nil
}

func (a *Agent) execute(ctx context.Context, plan, question string) string {
	answer, err := a.executor.Execute(ctx, plan, question)
	if err != nil {
		a.logger.Error("executor failed, serving fallback answer", "error", err)
		return FallbackAnswer
	}
	return answer
}

// seed starts the conversation with the responder system prompt.
func (a *Agent) seed() error {
	if len(a.messages) > 0 {
		return nil
	}
	prompt, err := responder.SystemPrompt(a.registry)
	if err != nil {
		return err
	}
	a.messages = []planact.Message{planact.SystemMessage(prompt)}
	return nil
}
