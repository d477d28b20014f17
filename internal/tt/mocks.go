// Package tt holds test doubles and assertions shared by package tests.
package tt

import (
	"context"
	"fmt"
	"sync"

	"github.com/rickchristie/planact"
)

// -----------------------------------------------------------------------------
// MockModel - implements planact.Model with scripted replies
// -----------------------------------------------------------------------------

// MockModel is a scripted planact.Model. Each call consumes the next queued reply or error;
// a call past the end of the script fails the call with an error wrapping
// planact.ErrModelCall.
type MockModel struct {
	mu      sync.Mutex
	replies []mockReply

	// Requests stores every request received, in order.
	Requests []planact.Request
}

type mockReply struct {
	content string
	err     error
}

// NewMockModel creates a MockModel with an empty script.
func NewMockModel() *MockModel {
	return &MockModel{}
}

// AddResponse queues a successful reply.
func (m *MockModel) AddResponse(content string) *MockModel {
	m.replies = append(m.replies, mockReply{content: content})
	return m
}

// AddResponses queues several successful replies.
func (m *MockModel) AddResponses(contents ...string) *MockModel {
	for _, c := range contents {
		m.AddResponse(c)
	}
	return m
}

// AddError queues a failure. The error is returned wrapped in planact.ErrModelCall.
func (m *MockModel) AddError(err error) *MockModel {
	m.replies = append(m.replies, mockReply{err: err})
	return m
}

// CallCount returns the number of calls made.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// LastRequest returns the most recent request, or the zero Request.
func (m *MockModel) LastRequest() planact.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return planact.Request{}
	}
	return m.Requests[len(m.Requests)-1]
}

// Call implements planact.Model. Request messages are copied so later mutation by the
// caller does not alter the recording.
func (m *MockModel) Call(ctx context.Context, req planact.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req.Messages = planact.CloneMessages(req.Messages)
	idx := len(m.Requests)
	m.Requests = append(m.Requests, req)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", planact.ErrModelCall, err)
	}
	if idx >= len(m.replies) {
		return "", fmt.Errorf("%w: mock script exhausted after %d calls", planact.ErrModelCall, idx)
	}
	reply := m.replies[idx]
	if reply.err != nil {
		return "", fmt.Errorf("%w: %w", planact.ErrModelCall, reply.err)
	}
	return reply.content, nil
}

var _ planact.Model = (*MockModel)(nil)

// -----------------------------------------------------------------------------
// MockTool - implements planact.Tool and records invocations
// -----------------------------------------------------------------------------

// MockToolFunc computes a MockTool's output.
type MockToolFunc func(ctx context.Context, params map[string]any) (map[string]any, error)

// MockTool is a planact.Tool that records the parameters of every call.
type MockTool struct {
	info planact.ToolDescriptor
	fn   MockToolFunc

	mu sync.Mutex
	// Calls stores the parameters of every Execute call, in order.
	Calls []map[string]any
}

// NewMockTool creates a MockTool named name that returns an empty output.
func NewMockTool(name string) *MockTool {
	return &MockTool{
		info: planact.ToolDescriptor{
			Name:         name,
			Description:  "Mock tool " + name,
			InputParams:  map[string]string{},
			OutputFormat: map[string]string{},
		},
		fn: func(ctx context.Context, params map[string]any) (map[string]any, error) {
			return map[string]any{}, nil
		},
	}
}

// WithDescriptor replaces the tool's descriptor, keeping its name when d.Name is empty.
func (t *MockTool) WithDescriptor(d planact.ToolDescriptor) *MockTool {
	if d.Name == "" {
		d.Name = t.info.Name
	}
	t.info = d
	return t
}

// WithFunc sets the function computing the tool's output.
func (t *MockTool) WithFunc(fn MockToolFunc) *MockTool {
	t.fn = fn
	return t
}

// WithOutput makes the tool always return output.
func (t *MockTool) WithOutput(output map[string]any) *MockTool {
	return t.WithFunc(func(ctx context.Context, params map[string]any) (map[string]any, error) {
		return output, nil
	})
}

// WithError makes the tool always fail with err.
func (t *MockTool) WithError(err error) *MockTool {
	return t.WithFunc(func(ctx context.Context, params map[string]any) (map[string]any, error) {
		return nil, err
	})
}

// Info implements planact.Tool.
func (t *MockTool) Info() planact.ToolDescriptor {
	return t.info
}

// Execute implements planact.Tool.
func (t *MockTool) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	t.mu.Lock()
	t.Calls = append(t.Calls, params)
	t.mu.Unlock()
	return t.fn(ctx, params)
}

// CallCount returns the number of Execute calls.
func (t *MockTool) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Calls)
}

var _ planact.Tool = (*MockTool)(nil)
