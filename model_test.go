package planact

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Conversation(t *testing.T) {
	type expected struct {
		messages []Message
		err      error
	}

	tests := []struct {
		name     string
		input    Request
		expected expected
	}{
		{
			name:     "prompt only",
			input:    Request{Prompt: "What is 15 * 45?"},
			expected: expected{messages: []Message{UserMessage("What is 15 * 45?")}},
		},
		{
			name:  "prompt and system prompt",
			input: Request{Prompt: "hi", SystemPrompt: "be brief"},
			expected: expected{messages: []Message{
				SystemMessage("be brief"),
				UserMessage("hi"),
			}},
		},
		{
			name: "messages take precedence",
			input: Request{
				Prompt:   "ignored",
				Messages: []Message{UserMessage("a"), AssistantMessage("b")},
			},
			expected: expected{messages: []Message{UserMessage("a"), AssistantMessage("b")}},
		},
		{
			name:     "empty request",
			input:    Request{Model: "gpt-4o-mini"},
			expected: expected{err: ErrModelCall},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages, err := tt.input.Conversation()

			if tt.expected.err != nil {
				require.ErrorIs(t, err, tt.expected.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.messages, messages)
		})
	}
}

func TestCloneMessages(t *testing.T) {
	assert.Nil(t, CloneMessages(nil))

	original := []Message{UserMessage("a")}
	clone := CloneMessages(original)
	clone[0].Content = "changed"

	assert.Equal(t, "a", original[0].Content)
}

func TestToolFunc(t *testing.T) {
	info := ToolDescriptor{
		Name:         "EchoTool",
		Description:  "Echoes its input.",
		InputParams:  map[string]string{"text": "str"},
		OutputFormat: map[string]string{"text": "str"},
	}
	failure := errors.New("boom")
	tool := NewToolFunc(info, func(ctx context.Context, params map[string]any) (map[string]any, error) {
		if params["text"] == "fail" {
			return nil, failure
		}
		return map[string]any{"text": params["text"]}, nil
	})

	assert.Equal(t, info, tool.Info())

	out, err := tool.Execute(context.Background(), map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"text": "hi"}, out)

	_, err = tool.Execute(context.Background(), map[string]any{"text": "fail"})
	assert.ErrorIs(t, err, failure)
}

func TestFloat64(t *testing.T) {
	p := Float64(0.1)
	require.NotNil(t, p)
	assert.Equal(t, 0.1, *p)
}
