package toolchain

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rickchristie/planact"
)

// Registry holds the tools available to an agent, keyed by name.
//
// Catalog order is registration order. Registering a second tool with an existing name
// replaces the first but keeps its position.
type Registry struct {
	order []string
	tools map[string]planact.Tool
}

// NewRegistry creates a Registry holding tools.
func NewRegistry(tools ...planact.Tool) *Registry {
	r := &Registry{
		order: make([]string, 0, len(tools)),
		tools: make(map[string]planact.Tool, len(tools)),
	}
	for _, tool := range tools {
		r.Register(tool)
	}
	return r
}

// Register adds a tool. A nil tool, or a nil *planact.ToolFunc, is ignored. Other typed
// nil pointers panic when their Info is read.
func (r *Registry) Register(tool planact.Tool) *Registry {
	if tool == nil {
		return r
	}
	if fn, ok := tool.(*planact.ToolFunc); ok && fn == nil {
		return r
	}
	name := tool.Info().Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
	return r
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (planact.Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns registered tool names in catalog order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Catalog renders the terse tool catalog used by the Planner and the Response Generator:
//
//	* CalculateTool:
//	  - Description: Evaluates a mathematical expression.
//
// Entries are separated by a blank line.
func (r *Registry) Catalog() string {
	return r.render(false)
}

// DetailedCatalog renders the catalog used by the Executor. Each entry also lists the
// declared parameters and output fields:
//
//	* CalculateTool:
//	  - Description: Evaluates a mathematical expression.
//	  - Parameters: expression (str)
//	  - Output Format: result (float or int)
func (r *Registry) DetailedCatalog() string {
	return r.render(true)
}

func (r *Registry) render(detailed bool) string {
	entries := make([]string, 0, len(r.order))
	for _, name := range r.order {
		info := r.tools[name].Info()

		var sb strings.Builder
		fmt.Fprintf(&sb, "* %s:\n  - Description: %s", info.Name, info.Description)
		if detailed {
			fmt.Fprintf(&sb, "\n  - Parameters: %s", fieldList(info.InputParams))
			fmt.Fprintf(&sb, "\n  - Output Format: %s", fieldList(info.OutputFormat))
		}
		entries = append(entries, sb.String())
	}
	return strings.Join(entries, "\n\n")
}

// fieldList renders "a (str), b (int)" in key order, or "None".
func fieldList(fields map[string]string) string {
	if len(fields) == 0 {
		return "None"
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s (%s)", k, fields[k])
	}
	return strings.Join(parts, ", ")
}

// Dispatch runs the tool named by action with its parameters, unvalidated.
//
// An unregistered name returns an error wrapping planact.ErrUnknownTool. A tool failure is
// wrapped in planact.ErrToolFailed and keeps the tool's own error in the chain.
func (r *Registry) Dispatch(ctx context.Context, action *Action) (map[string]any, error) {
	tool, ok := r.tools[action.Tool]
	if !ok {
		return nil, fmt.Errorf("%w: %s", planact.ErrUnknownTool, action.Tool)
	}

	params := action.Parameters
	if params == nil {
		params = map[string]any{}
	}

	out, err := tool.Execute(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", planact.ErrToolFailed, action.Tool, err)
	}
	return out, nil
}
