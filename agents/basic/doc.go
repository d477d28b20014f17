// Package basic implements the plan / execute / respond agent.
//
// # Overview
//
// Each call to Agent.Ask runs three stages over a conversation that only grows:
//
//  1. The question is appended as a user message.
//  2. The planner is asked for a plan. When it names tools, the executor runs the plan and
//     its answer is appended as an assistant message wrapped in <agent_answer></agent_answer>.
//  3. The responder answers over the whole conversation. Its reply is appended and returned.
//
// The conversation is seeded with the responder system prompt, which lists the available
// tools and tells the model to trust <agent_answer> content.
//
// # Failure Handling
//
// Executor failures never reach the caller. The cause is logged at error level and the
// fixed FallbackAnswer is wrapped and appended in place of a tool result, so the responder
// can apologise in its own words.
//
// Planner and responder failures are returned from Ask. The question stays in the
// conversation, so a later Ask sees it.
//
// A plan region the planner opened but never closed is treated as no plan.
//
// # Example
//
//	registry := toolchain.NewRegistry(tools.NewCalculateTool())
//	agent := basic.NewAgent(model, registry).WithLogger(logger)
//
//	reply, err := agent.Ask(ctx, "What is 15 * 45?")
package basic
