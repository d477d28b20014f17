package planact

import (
	"context"
	"fmt"
)

// Model is the Model Gateway: a single-method text completion service.
//
// Implementations live in the models package. Backend failures (timeouts, auth, rate
// limits) must be returned wrapped in ErrModelCall; retries, if any, are the
// implementation's business.
type Model interface {
	// Call generates text for the request and returns the content of the top choice.
	Call(ctx context.Context, req Request) (string, error)
}

// Request is the input of a Model call.
//
// Exactly one of the two input shapes is used: if Messages is non-empty it takes precedence
// and Prompt/SystemPrompt are ignored.
type Request struct {
	// Prompt is the user prompt of the flat shape.
	Prompt string

	// SystemPrompt is the optional system prompt of the flat shape.
	SystemPrompt string

	// Model is the model identifier. Empty means the gateway's configured model.
	Model string

	// Messages is the structured shape.
	Messages []Message

	// MaxTokens limits the response length. Zero means the gateway's default.
	MaxTokens int

	// Temperature is the sampling temperature. Nil means the gateway's default.
	Temperature *float64
}

// Conversation returns the messages to send for this request.
//
// The structured shape is returned as-is. The flat shape becomes [system, user], or just
// [user] when SystemPrompt is empty. A request with neither shape returns an error wrapping
// ErrModelCall.
func (r Request) Conversation() ([]Message, error) {
	if len(r.Messages) > 0 {
		return r.Messages, nil
	}
	if r.Prompt == "" && r.SystemPrompt == "" {
		return nil, fmt.Errorf("%w: request has neither messages nor prompt", ErrModelCall)
	}
	if r.SystemPrompt != "" {
		return []Message{SystemMessage(r.SystemPrompt), UserMessage(r.Prompt)}, nil
	}
	return []Message{UserMessage(r.Prompt)}, nil
}

// Float64 returns a pointer to v. Use it to set Request.Temperature.
func Float64(v float64) *float64 {
	return &v
}
