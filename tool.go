package planact

import (
	"context"
)

// ToolDescriptor describes a tool to the model.
//
// InputParams and OutputFormat map a field name to a free-form type label such as "str",
// "float" or "list". The labels are rendered into prompts; the agent itself does not
// enforce them.
type ToolDescriptor struct {
	Name         string
	Description  string
	InputParams  map[string]string
	OutputFormat map[string]string
}

// Tool represents a single callable capability.
//
// Responsibility design:
//   - Tool: describe itself, validate its own parameters, execute, return raw output
//   - toolchain.Registry: look tools up by name, render catalogs, dispatch actions
//
// Execute receives the parameters exactly as decoded from the model's action line.
// Tools should return ErrInvalidParams (wrapped) when parameters are malformed.
type Tool interface {
	// Info returns the tool's descriptor. The descriptor must not change after construction.
	Info() ToolDescriptor

	// Execute runs the tool. The returned map should contain exactly the keys declared in
	// the descriptor's OutputFormat.
	Execute(ctx context.Context, params map[string]any) (map[string]any, error)
}

// ToolFunc is a convenience type for creating tools from functions.
type ToolFunc struct {
	info ToolDescriptor
	fn   func(ctx context.Context, params map[string]any) (map[string]any, error)
}

// NewToolFunc creates a new ToolFunc.
func NewToolFunc(
	info ToolDescriptor,
	fn func(ctx context.Context, params map[string]any) (map[string]any, error),
) *ToolFunc {
	return &ToolFunc{
		info: info,
		fn:   fn,
	}
}

// Info returns the tool's descriptor.
func (t *ToolFunc) Info() ToolDescriptor {
	return t.info
}

// Execute calls the wrapped function.
func (t *ToolFunc) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	return t.fn(ctx, params)
}

// Compile-time check that ToolFunc implements Tool.
var _ Tool = (*ToolFunc)(nil)
