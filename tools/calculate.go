package tools

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/rickchristie/planact"
)

// CalculateToolName is the name the model uses to call the calculator.
const CalculateToolName = "CalculateTool"

// mathEnv is the evaluation environment. expr already provides abs, ceil, floor, round,
// max and min as builtins.
var mathEnv = map[string]any{
	"pi":    math.Pi,
	"e":     math.E,
	"sqrt":  math.Sqrt,
	"pow":   math.Pow,
	"exp":   math.Exp,
	"log":   math.Log,
	"log10": math.Log10,
	"log2":  math.Log2,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
}

// checkedOps replace expr's wrapping int arithmetic. Operands of any other type keep the
// builtin operator.
var checkedOps = []struct {
	op   string
	name string
	fn   func(a, b int) (int, bool)
}{
	{op: "+", name: "checkedAdd", fn: addInt},
	{op: "-", name: "checkedSub", fn: subInt},
	{op: "*", name: "checkedMul", fn: mulInt},
}

var calculateOptions = newCalculateOptions()

func newCalculateOptions() []expr.Option {
	opts := []expr.Option{expr.Env(mathEnv)}
	for _, c := range checkedOps {
		opts = append(opts,
			expr.Function(c.name, func(params ...any) (any, error) {
				a, b := params[0].(int), params[1].(int)
				v, ok := c.fn(a, b)
				if !ok {
					return nil, fmt.Errorf("integer overflow: %d %s %d", a, c.op, b)
				}
				return v, nil
			}, new(func(int, int) int)),
			expr.Operator(c.op, c.name),
		)
	}
	return opts
}

func addInt(a, b int) (int, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

func subInt(a, b int) (int, bool) {
	c := a - b
	return c, (c < a) == (b > 0)
}

func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	c := a * b
	return c, c/b == a
}

// NewCalculateTool returns a tool that evaluates an arithmetic expression. `**` and `^`
// raise to a power; `/` always divides as floating point.
//
// Integer arithmetic yields an int result, anything else a float64. Integer overflow and
// results that are not numbers or not finite, such as 1/0, fail with planact.ErrInvalidParams.
func NewCalculateTool() *planact.ToolFunc {
	return newTool(
		planact.ToolDescriptor{
			Name: CalculateToolName,
			Description: "Performs mathematical calculations based on a given expression. " +
				"Supports + - * / % ** and the functions sqrt, pow, abs, log, sin, cos, tan and the constants pi and e.",
			InputParams:  map[string]string{"expression": "str"},
			OutputFormat: map[string]string{"result": "float or int"},
		},
		func(ctx context.Context, params map[string]any) (map[string]any, error) {
			expression, _ := params["expression"].(string)
			result, err := Calculate(expression)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": result}, nil
		},
	)
}

// Calculate evaluates expression and returns an int or a finite float64.
func Calculate(expression string) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("%w: empty expression", planact.ErrInvalidParams)
	}

	program, err := expr.Compile(expression, calculateOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid mathematical expression %q: %w", planact.ErrInvalidParams, expression, err)
	}
	out, err := expr.Run(program, mathEnv)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid mathematical expression %q: %w", planact.ErrInvalidParams, expression, err)
	}

	switch v := out.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: expression %q has no finite result", planact.ErrInvalidParams, expression)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: expression %q evaluated to %T, not a number", planact.ErrInvalidParams, expression, out)
	}
}
