package basic

import (
	"context"
	"errors"
	"testing"

	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/internal/tt"
	"github.com/rickchristie/planact/planner"
	"github.com/rickchristie/planact/toolchain"
	"github.com/rickchristie/planact/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// Stage doubles
// ----------------------------------------------------------------------------

type stubPlanner struct {
	result planner.Result
	err    error
}

func (p *stubPlanner) Plan(ctx context.Context, question string) (planner.Result, error) {
	return p.result, p.err
}

type stubExecutor struct {
	answer string
	err    error
	calls  int
}

func (e *stubExecutor) Execute(ctx context.Context, plan, question string) (string, error) {
	e.calls++
	return e.answer, e.err
}

type recordingResponder struct {
	reply         string
	err           error
	conversations [][]planact.Message
}

func (r *recordingResponder) Respond(ctx context.Context, conversation []planact.Message) (string, error) {
	r.conversations = append(r.conversations, conversation)
	return r.reply, r.err
}

func newCalculatorRegistry() *toolchain.Registry {
	return toolchain.NewRegistry(tools.NewCalculateTool())
}

// ----------------------------------------------------------------------------
// End-to-end scenarios with a scripted model
// ----------------------------------------------------------------------------

func TestAgent_CalculatorScenario(t *testing.T) {
	model := tt.NewMockModel().AddResponses(
		"<plan>I should use CalculateTool to compute 15 * 45.</plan>",
		"Thought: I need to multiply.\n"+
			`Action: {"tool": "CalculateTool", "parameters": {"expression": "15 * 45"}}`+
			"\nPAUSE",
		"Answer: 675",
		"15 multiplied by 45 is 675.",
	)
	agent := NewAgent(model, newCalculatorRegistry())

	reply, err := agent.Ask(context.Background(), "What is 15 * 45?")

	require.NoError(t, err)
	assert.Equal(t, "15 multiplied by 45 is 675.", reply)
	require.Equal(t, 4, model.CallCount())

	// The executor saw the observation of the real tool.
	executorFinal := model.Requests[2].Messages
	assert.Equal(t, `Observation: {"result": 675}`, executorFinal[len(executorFinal)-1].Content)

	messages := agent.Messages()
	tt.AssertRoles(t, messages,
		planact.RoleSystem, planact.RoleUser, planact.RoleAssistant, planact.RoleAssistant)
	assert.Equal(t, "What is 15 * 45?", messages[1].Content)
	assert.Equal(t, "<agent_answer>Answer: 675</agent_answer>", messages[2].Content)
	assert.Equal(t, "15 multiplied by 45 is 675.", messages[3].Content)

	// The responder received the conversation up to and including the tool answer.
	tt.AssertMessagesEqual(t, messages[:3], model.Requests[3].Messages)
}

func TestAgent_ConversationalScenario(t *testing.T) {
	model := tt.NewMockModel().AddResponses(
		"<plan></plan>",
		"I'm doing well, thank you! How can I help?",
	)
	agent := NewAgent(model, newCalculatorRegistry())

	reply, err := agent.Ask(context.Background(), "Hello, how are you?")

	require.NoError(t, err)
	assert.Equal(t, "I'm doing well, thank you! How can I help?", reply)
	require.Equal(t, 2, model.CallCount(), "no executor call")

	responderRequest := model.Requests[1].Messages
	tt.AssertRoles(t, responderRequest, planact.RoleSystem, planact.RoleUser)
	assert.Contains(t, responderRequest[0].Content, "* CalculateTool:")
	assert.Zero(t, tt.CountContaining(agent.Messages(), "<agent_answer>"))
}

func TestAgent_ConversationAccumulatesAcrossQuestions(t *testing.T) {
	model := tt.NewMockModel().AddResponses(
		"<plan></plan>", "Hi!",
		"<plan></plan>", "Still here.",
	)
	agent := NewAgent(model, newCalculatorRegistry())

	_, err := agent.Ask(context.Background(), "Hello")
	require.NoError(t, err)
	_, err = agent.Ask(context.Background(), "Are you there?")
	require.NoError(t, err)

	tt.AssertRoles(t, agent.Messages(),
		planact.RoleSystem,
		planact.RoleUser, planact.RoleAssistant,
		planact.RoleUser, planact.RoleAssistant,
	)
	assert.Equal(t, 1, tt.CountContaining(agent.Messages(), "The tools available to you are only"),
		"system prompt is seeded once")
}

// ----------------------------------------------------------------------------
// Failure handling with stage doubles
// ----------------------------------------------------------------------------

func TestAgent_ExecutorFailureServesFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "turn budget", err: planact.ErrTurnBudgetExceeded},
		{name: "unknown tool", err: planact.ErrUnknownTool},
		{name: "malformed action", err: planact.ErrMalformedAction},
		{name: "tool failed", err: planact.ErrToolFailed},
		{name: "model call", err: planact.ErrModelCall},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exec := &stubExecutor{err: tc.err}
			resp := &recordingResponder{reply: "Sorry about that."}
			agent := NewAgent(tt.NewMockModel(), newCalculatorRegistry()).
				WithPlanner(&stubPlanner{result: planner.Result{Status: planner.StatusPlanned, Text: "use a tool"}}).
				WithExecutor(exec).
				WithResponder(resp)

			reply, err := agent.Ask(context.Background(), "What is 1/0?")

			require.NoError(t, err)
			assert.Equal(t, "Sorry about that.", reply)
			assert.Equal(t, 1, exec.calls)

			require.Len(t, resp.conversations, 1)
			conv := resp.conversations[0]
			require.Len(t, conv, 3)
			assert.Equal(t, "<agent_answer>"+FallbackAnswer+"</agent_answer>", conv[2].Content)
			assert.Zero(t, tt.CountContaining(conv, tc.err.Error()), "cause is not shown to the user")
		})
	}
}

func TestAgent_PlanStatusControlsExecution(t *testing.T) {
	tests := []struct {
		name          string
		status        planner.Status
		executorCalls int
		convLen       int
	}{
		{name: "planned", status: planner.StatusPlanned, executorCalls: 1, convLen: 3},
		{name: "no plan", status: planner.StatusNoPlan, executorCalls: 0, convLen: 2},
		{name: "extraction failed", status: planner.StatusExtractionFailed, executorCalls: 0, convLen: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exec := &stubExecutor{answer: "42"}
			resp := &recordingResponder{reply: "ok"}
			agent := NewAgent(tt.NewMockModel(), newCalculatorRegistry()).
				WithPlanner(&stubPlanner{result: planner.Result{Status: tc.status, Text: "plan"}}).
				WithExecutor(exec).
				WithResponder(resp)

			_, err := agent.Ask(context.Background(), "q")

			require.NoError(t, err)
			assert.Equal(t, tc.executorCalls, exec.calls)
			require.Len(t, resp.conversations, 1)
			assert.Len(t, resp.conversations[0], tc.convLen)
		})
	}
}

func TestAgent_StageErrorsPropagate(t *testing.T) {
	cause := errors.New("backend down")

	t.Run("planner", func(t *testing.T) {
		resp := &recordingResponder{}
		agent := NewAgent(tt.NewMockModel(), newCalculatorRegistry()).
			WithPlanner(&stubPlanner{err: cause}).
			WithResponder(resp)

		_, err := agent.Ask(context.Background(), "q")

		require.ErrorIs(t, err, cause)
		assert.Empty(t, resp.conversations)
		tt.AssertRoles(t, agent.Messages(), planact.RoleSystem, planact.RoleUser)
	})

	t.Run("responder", func(t *testing.T) {
		agent := NewAgent(tt.NewMockModel(), newCalculatorRegistry()).
			WithPlanner(&stubPlanner{result: planner.Result{Status: planner.StatusNoPlan}}).
			WithResponder(&recordingResponder{err: cause})

		_, err := agent.Ask(context.Background(), "q")

		require.ErrorIs(t, err, cause)
		tt.AssertRoles(t, agent.Messages(), planact.RoleSystem, planact.RoleUser)
	})

	t.Run("model failure in planner", func(t *testing.T) {
		agent := NewAgent(tt.NewMockModel().AddError(cause), newCalculatorRegistry())

		_, err := agent.Ask(context.Background(), "q")

		require.ErrorIs(t, err, planact.ErrModelCall)
		assert.ErrorIs(t, err, cause)
	})
}

func TestAgent_MaxTurnsReachesExecutor(t *testing.T) {
	action := `Action: {"tool": "CalculateTool", "parameters": {"expression": "1 + 1"}}`
	model := tt.NewMockModel().AddResponses(
		"<plan>Use CalculateTool</plan>",
		action,
		"Sorry, I could not do that.",
	)
	agent := NewAgent(model, newCalculatorRegistry()).WithMaxTurns(1)

	reply, err := agent.Ask(context.Background(), "What is 1 + 1?")

	require.NoError(t, err)
	assert.Equal(t, "Sorry, I could not do that.", reply)
	assert.Equal(t, 3, model.CallCount())
	assert.Contains(t, agent.Messages()[2].Content, FallbackAnswer)
}

func TestAgent_MessagesReturnsCopy(t *testing.T) {
	model := tt.NewMockModel().AddResponses("<plan></plan>", "hi")
	agent := NewAgent(model, newCalculatorRegistry())
	_, err := agent.Ask(context.Background(), "hello")
	require.NoError(t, err)

	messages := agent.Messages()
	messages[1].Content = "changed"

	assert.Equal(t, "hello", agent.Messages()[1].Content)
}

func TestAgent_ID(t *testing.T) {
	a := NewAgent(tt.NewMockModel(), newCalculatorRegistry())
	b := NewAgent(tt.NewMockModel(), newCalculatorRegistry())

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
