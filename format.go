package planact

import "errors"

// Wire markers shared by the prompts, the parsers and the orchestrator. Models are
// instructed to reproduce these exactly.
const (
	// TagPlan delimits the Planner's output: <plan>...</plan>.
	TagPlan = "plan"

	// TagAgentAnswer wraps executor-derived text injected into the conversation.
	TagAgentAnswer = "agent_answer"

	// ActionPrefix starts an action line: `Action: {"tool": ..., "parameters": {...}}`.
	ActionPrefix = "Action: "

	// PauseMarker is the line the model writes after an action.
	PauseMarker = "PAUSE"

	// ObservationPrefix starts the executor's feedback prompt after a tool call.
	ObservationPrefix = "Observation: "
)

// Executor errors. Each of these ends the current executor invocation.
var (
	ErrMalformedAction    = errors.New("malformed action payload")
	ErrUnknownTool        = errors.New("unknown action")
	ErrToolFailed         = errors.New("tool execution failed")
	ErrTurnBudgetExceeded = errors.New("max turns reached without reaching an answer")
)

// Collaborator errors.
var (
	// ErrModelCall wraps every Model Gateway failure.
	ErrModelCall = errors.New("model call failed")

	// ErrInvalidParams is returned by tools that reject their parameters.
	ErrInvalidParams = errors.New("invalid tool parameters")

	// ErrUnknownProvider is returned when no gateway exists for a configured provider.
	ErrUnknownProvider = errors.New("unknown model provider")
)
