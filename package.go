// Package planact provides a small plan-then-act conversational agent for Go.
//
// A question goes through three model-backed stages:
//
//  1. Planner: asks the model for a short plan wrapped in <plan></plan>, using a terse
//     catalog of the registered tools. An empty plan means no tool is needed.
//  2. Executor: runs a bounded Thought/Action/PAUSE/Observation loop. Each model reply is
//     scanned for an `Action: {...}` line, the named tool is dispatched and its output is
//     fed back as `Observation: {...}`. A reply without an action is the answer.
//  3. Response Generator: produces the user-facing reply over the whole conversation,
//     including the executor's answer wrapped in <agent_answer></agent_answer>.
//
// The agents/basic package sequences the three stages and owns the conversation.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/rickchristie/planact/agents/basic"
//	    "github.com/rickchristie/planact/config"
//	    "github.com/rickchristie/planact/models"
//	    "github.com/rickchristie/planact/toolchain"
//	    "github.com/rickchristie/planact/tools"
//	)
//
//	func main() {
//	    ctx := context.Background()
//
//	    // 1. Load configuration (defaults, config.yaml, environment)
//	    cfg, err := config.Load("")
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    // 2. Create a Model Gateway for the configured provider
//	    model, err := models.New(ctx, cfg.LLM, nil)
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    // 3. Register tools
//	    registry := toolchain.NewRegistry(tools.NewCalculateTool())
//
//	    // 4. Build the agent and ask
//	    agent := basic.NewAgent(model, registry).
//	        WithModelName(cfg.LLM.Model).
//	        WithMaxTurns(cfg.Agent.MaxTurns)
//
//	    answer, err := agent.Ask(ctx, "What is 15 * 45?")
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(answer)
//	}
//
// # Tools
//
// A [Tool] describes itself with a [ToolDescriptor] and executes with untyped parameters
// decoded from the model's action line:
//
//	weight := planact.NewToolFunc(
//	    planact.ToolDescriptor{
//	        Name:         "AverageDogWeightTool",
//	        Description:  "Returns the average weight of a specific dog breed.",
//	        InputParams:  map[string]string{"name": "str"},
//	        OutputFormat: map[string]string{"weight": "str"},
//	    },
//	    func(ctx context.Context, params map[string]any) (map[string]any, error) {
//	        return map[string]any{"weight": "Border Collies average 37 lbs"}, nil
//	    },
//	)
//
// Declared parameter types are documentation for the model. The executor passes parameters
// through as-is; a tool that cares about types validates them itself (see the schema
// package).
//
// # Model Gateway
//
// [Model] is the single-method text completion abstraction. The models package ships
// implementations over LangChainGo, the OpenAI and Anthropic SDKs, and Google GenAI.
//
// # Errors
//
// Failures are reported with sentinel errors that can be matched with errors.Is:
// [ErrModelCall], [ErrMalformedAction], [ErrUnknownTool], [ErrToolFailed],
// [ErrTurnBudgetExceeded], [ErrInvalidParams] and [ErrUnknownProvider].
package planact
