package responder

import (
	"context"
	"errors"
	"testing"

	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/internal/tt"
	"github.com/rickchristie/planact/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPrompt(t *testing.T) {
	registry := toolchain.NewRegistry(
		tt.NewMockTool("WeatherTool").WithDescriptor(planact.ToolDescriptor{
			Description: "Gets the current weather for a city.",
			InputParams: map[string]string{"city": "str"},
		}),
	)

	prompt, err := SystemPrompt(registry)

	require.NoError(t, err)
	assert.Contains(t, prompt, "<agent_answer></agent_answer>")
	assert.Contains(t, prompt, "The tools available to you are only:\n* WeatherTool:\n  - Description: Gets the current weather for a city.")
	assert.NotContains(t, prompt, "Parameters:")
}

func TestResponder_Respond(t *testing.T) {
	conversation := []planact.Message{
		planact.SystemMessage("system"),
		planact.UserMessage("What is 15 * 45?"),
		planact.AssistantMessage("<agent_answer>675</agent_answer>"),
	}
	model := tt.NewMockModel().AddResponse("15 * 45 is 675.")
	r := New(model).WithModelName("gpt-4o-mini")

	reply, err := r.Respond(context.Background(), conversation)

	require.NoError(t, err)
	assert.Equal(t, "15 * 45 is 675.", reply)

	req := model.LastRequest()
	assert.Equal(t, "gpt-4o-mini", req.Model)
	tt.AssertMessagesEqual(t, conversation, req.Messages)
	assert.Len(t, conversation, 3, "conversation is not modified")
}

func TestResponder_ModelError(t *testing.T) {
	cause := errors.New("rate limited")
	r := New(tt.NewMockModel().AddError(cause))

	_, err := r.Respond(context.Background(), []planact.Message{planact.UserMessage("hi")})

	require.ErrorIs(t, err, planact.ErrModelCall)
	assert.ErrorIs(t, err, cause)
}
