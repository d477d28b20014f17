// Package format extracts and builds the tagged text regions exchanged with the model.
//
// # Overview
//
// The agent speaks a small informal protocol with the model:
//
//   - <plan>...</plan> carries the Planner's output
//   - <agent_answer>...</agent_answer> wraps the Executor's answer before it is injected into
//     the conversation for the Response Generator
//
// [XML] implements both directions:
//
//	f := format.NewXML()
//
//	plan, found, err := f.Extract(modelOutput, planact.TagPlan)
//	// found == false: no <plan> tag in the output
//	// err wraps ErrUnclosedTag: <plan> without </plan>
//
//	wrapped := f.Wrap(planact.TagAgentAnswer, "675")
//	// "<agent_answer>675</agent_answer>"
//
// Extraction never returns a partially matched region.
package format
