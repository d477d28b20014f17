package models

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/option"
	"github.com/rickchristie/planact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingServer answers every request with status and body and keeps the last request.
type recordingServer struct {
	*httptest.Server
	path string
	body map[string]any
}

func newRecordingServer(t *testing.T, status int, body string) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		rs.body = map[string]any{}
		_ = json.Unmarshal(raw, &rs.body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(rs.Close)
	return rs
}

const openAIResponseBody = `{
  "id": "resp_1",
  "object": "response",
  "created_at": 1700000000,
  "status": "completed",
  "model": "gpt-4o-mini",
  "output": [{
    "type": "message",
    "id": "msg_1",
    "status": "completed",
    "role": "assistant",
    "content": [{"type": "output_text", "text": "The answer is 675.", "annotations": []}]
  }],
  "usage": {"input_tokens": 20, "output_tokens": 5, "total_tokens": 25}
}`

func TestOpenAIResponses_Call(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, openAIResponseBody)
	model := NewOpenAIResponses("test-key", option.WithBaseURL(srv.URL)).
		WithModelName("gpt-4o-mini").
		WithMaxTokens(256)

	text, err := model.Call(context.Background(), planact.Request{
		Messages: []planact.Message{
			planact.SystemMessage("You are helpful."),
			planact.UserMessage("What is 15 * 45?"),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "The answer is 675.", text)
	assert.True(t, strings.HasSuffix(srv.path, "/responses"), srv.path)
	assert.Equal(t, "gpt-4o-mini", srv.body["model"])
	assert.Equal(t, float64(256), srv.body["max_output_tokens"])
	assert.Equal(t, planact.DefaultTemperature, srv.body["temperature"])

	input, ok := srv.body["input"].([]any)
	require.True(t, ok)
	require.Len(t, input, 2)
	assert.Equal(t, "system", input[0].(map[string]any)["role"])
	assert.Equal(t, "user", input[1].(map[string]any)["role"])
}

func TestOpenAIResponses_CallError(t *testing.T) {
	srv := newRecordingServer(t, http.StatusUnauthorized,
		`{"error": {"message": "bad key", "type": "invalid_request_error"}}`)
	model := NewOpenAIResponses("bad", option.WithBaseURL(srv.URL))

	_, err := model.Call(context.Background(), planact.Request{Prompt: "hi"})

	assert.ErrorIs(t, err, planact.ErrModelCall)
}

const anthropicResponseBody = `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-haiku-4-5-20251001",
  "content": [{"type": "text", "text": "Hello"}, {"type": "text", "text": " there"}],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 3, "output_tokens": 2}
}`

func TestAnthropicMessages_Call(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, anthropicResponseBody)
	model := NewAnthropicMessages("test-key", anthropicoption.WithBaseURL(srv.URL))

	text, err := model.Call(context.Background(), planact.Request{
		Messages: []planact.Message{
			planact.SystemMessage("system prompt"),
			planact.UserMessage("Question"),
			planact.AssistantMessage("<agent_answer>675</agent_answer>"),
			planact.UserMessage("Observation"),
			planact.UserMessage("More"),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)
	assert.True(t, strings.HasSuffix(srv.path, "/v1/messages"), srv.path)
	assert.Equal(t, planact.ModelAnthropicClaude45Haiku, srv.body["model"])

	system, ok := srv.body["system"].([]any)
	require.True(t, ok)
	assert.Equal(t, "system prompt", system[0].(map[string]any)["text"])

	messages, ok := srv.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 3, "consecutive user turns are merged")
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", messages[1].(map[string]any)["role"])
	assert.Equal(t, "user", messages[2].(map[string]any)["role"])
}

func TestAnthropicMessages_CallError(t *testing.T) {
	srv := newRecordingServer(t, http.StatusBadRequest,
		`{"type": "error", "error": {"type": "invalid_request_error", "message": "nope"}}`)
	model := NewAnthropicMessages("k", anthropicoption.WithBaseURL(srv.URL))

	_, err := model.Call(context.Background(), planact.Request{Prompt: "hi"})

	assert.ErrorIs(t, err, planact.ErrModelCall)
}

func TestToAnthropicMessages(t *testing.T) {
	out := toAnthropicMessages([]planact.Message{
		planact.UserMessage("a"),
		planact.UserMessage("b"),
		planact.AssistantMessage("c"),
	})

	assert.Len(t, out, 2)
	assert.Empty(t, toAnthropicMessages(nil))
}

const geminiResponseBody = `{
  "candidates": [{
    "content": {"role": "model", "parts": [{"text": "Sunny in Tokyo."}]},
    "finishReason": "STOP"
  }],
  "usageMetadata": {"promptTokenCount": 8, "candidatesTokenCount": 4, "totalTokenCount": 12}
}`

func TestGemini_Call(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, geminiResponseBody)
	model, err := NewGemini(context.Background(), "test-key", srv.URL)
	require.NoError(t, err)

	text, err := model.Call(context.Background(), planact.Request{
		SystemPrompt: "Be brief.",
		Prompt:       "Weather in Tokyo?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Sunny in Tokyo.", text)
	assert.Contains(t, srv.path, planact.ModelGoogleGemini25Flash+":generateContent")
	assert.Contains(t, srv.body, "systemInstruction")
}

func TestGemini_NoCandidates(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{"candidates": []}`)
	model, err := NewGemini(context.Background(), "test-key", srv.URL)
	require.NoError(t, err)

	_, err = model.Call(context.Background(), planact.Request{Prompt: "hi"})

	assert.ErrorIs(t, err, planact.ErrModelCall)
}
