package planner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"text/template"

	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/internal/tt"
	"github.com/rickchristie/planact/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *toolchain.Registry {
	return toolchain.NewRegistry(
		tt.NewMockTool("CalculateTool").WithDescriptor(planact.ToolDescriptor{
			Description:  "Evaluates a mathematical expression.",
			InputParams:  map[string]string{"expression": "str"},
			OutputFormat: map[string]string{"result": "float or int"},
		}),
	)
}

func TestPlanner_Plan(t *testing.T) {
	type expected struct {
		status Status
		text   string
	}

	tests := []struct {
		name     string
		output   string
		expected expected
	}{
		{
			name:     "plan present",
			output:   "<plan>\n  I should call CalculateTool with 15 * 45.\n</plan>",
			expected: expected{status: StatusPlanned, text: "I should call CalculateTool with 15 * 45."},
		},
		{
			name:     "plan with surrounding prose",
			output:   "Sure!\n<plan>Use CalculateTool</plan>\nDone.",
			expected: expected{status: StatusPlanned, text: "Use CalculateTool"},
		},
		{
			name:     "empty plan",
			output:   "<plan></plan>",
			expected: expected{status: StatusNoPlan},
		},
		{
			name:     "whitespace plan",
			output:   "<plan>\n\t \n</plan>",
			expected: expected{status: StatusNoPlan},
		},
		{
			name:     "no plan tag",
			output:   "I can answer this directly.",
			expected: expected{status: StatusNoPlan},
		},
		{
			name:     "unclosed plan tag",
			output:   "<plan>I will call CalculateTool",
			expected: expected{status: StatusExtractionFailed},
		},
		{
			name:     "first of two plans",
			output:   "<plan>first</plan><plan>second</plan>",
			expected: expected{status: StatusPlanned, text: "first"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			model := tt.NewMockModel().AddResponse(tc.output)
			p := New(model, newRegistry())

			result, err := p.Plan(context.Background(), "What is 15 * 45?")

			require.NoError(t, err)
			assert.Equal(t, tc.expected.status, result.Status)
			assert.Equal(t, tc.expected.text, result.Text)
			assert.Equal(t, tc.output, result.Raw)
			assert.Equal(t, tc.expected.status == StatusPlanned, result.HasPlan())
		})
	}
}

func TestPlanner_PromptContainsQuestionAndCatalog(t *testing.T) {
	model := tt.NewMockModel().AddResponse("<plan></plan>")
	p := New(model, newRegistry()).WithModelName("gpt-4o-mini")

	_, err := p.Plan(context.Background(), "What is 15 * 45?")
	require.NoError(t, err)

	req := model.LastRequest()
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Empty(t, req.Messages)
	assert.Empty(t, req.SystemPrompt)
	assert.Contains(t, req.Prompt, "<task>What is 15 * 45?</task>")
	assert.Contains(t, req.Prompt, "* CalculateTool:\n  - Description: Evaluates a mathematical expression.")
	assert.NotContains(t, req.Prompt, "Parameters:", "planner sees the terse catalog")
	assert.Contains(t, req.Prompt, "output an empty plan")
}

func TestPlanner_QuestionIsVerbatim(t *testing.T) {
	model := tt.NewMockModel().AddResponse("")
	p := New(model, newRegistry())

	question := `Is 3 < 5 & "quoted"?`
	_, err := p.Plan(context.Background(), question)
	require.NoError(t, err)

	assert.True(t, strings.Contains(model.LastRequest().Prompt, question))
}

func TestPlanner_ModelError(t *testing.T) {
	backendErr := errors.New("timeout")
	model := tt.NewMockModel().AddError(backendErr)
	p := New(model, newRegistry())

	_, err := p.Plan(context.Background(), "hi")

	require.ErrorIs(t, err, planact.ErrModelCall)
	assert.ErrorIs(t, err, backendErr)
}

func TestPlanner_CustomTemplate(t *testing.T) {
	model := tt.NewMockModel().AddResponse("<plan>x</plan>")
	tmpl := template.Must(template.New("custom").Parse("Q={{.Question}}"))
	p := New(model, newRegistry()).WithTemplate(tmpl)

	_, err := p.Plan(context.Background(), "why")
	require.NoError(t, err)

	assert.Equal(t, "Q=why", model.LastRequest().Prompt)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "no_plan", StatusNoPlan.String())
	assert.Equal(t, "planned", StatusPlanned.String())
	assert.Equal(t, "extraction_failed", StatusExtractionFailed.String())
	assert.Equal(t, "status(9)", Status(9).String())
}
