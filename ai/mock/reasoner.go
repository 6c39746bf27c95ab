package mock

import (
	"context"
	"sync/atomic"

	"github.com/fioneer/fioneer/ai"
)

// MockReasoner is a test double for ai.Reasoner.
type MockReasoner struct {
	// CompleteFunc is called by Complete if set.
	// If nil, the content of the last user message is echoed back.
	CompleteFunc func(ctx context.Context, messages []ai.Message) (string, error)

	callCount atomic.Int64
}

// NewMockReasoner creates a mock reasoner with default echo behavior.
func NewMockReasoner() *MockReasoner {
	return &MockReasoner{}
}

// WithCompleteFunc sets custom behavior and returns the mock for chaining.
func (m *MockReasoner) WithCompleteFunc(fn func(ctx context.Context, messages []ai.Message) (string, error)) *MockReasoner {
	m.CompleteFunc = fn
	return m
}

// Complete records the call and delegates to CompleteFunc.
func (m *MockReasoner) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	m.callCount.Add(1)

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages)
	}

	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.MessageRoleUser {
			return messages[i].Content, nil
		}
	}
	return "", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockReasoner) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom behavior.
func (m *MockReasoner) Reset() {
	m.callCount.Store(0)
	m.CompleteFunc = nil
}

// SystemPrompt returns the content of the first system message, or "".
// Useful inside CompleteFunc to tell apart the different extraction calls.
func SystemPrompt(messages []ai.Message) string {
	for _, msg := range messages {
		if msg.Role == ai.MessageRoleSystem {
			return msg.Content
		}
	}
	return ""
}

// UserContent returns the content of the last user message, or "".
func UserContent(messages []ai.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.MessageRoleUser {
			return messages[i].Content
		}
	}
	return ""
}
