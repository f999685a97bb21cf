package session

import (
	"context"
	"sync"
)

// Mock is a mock implementation of Session for testing.
type Mock struct {
	mu sync.RWMutex

	// State
	connected bool
	decls     []ToolDeclaration

	// Callbacks
	onToolCall   func(batch ToolCallBatch)
	onTranscript func(text string, final bool)
	onError      func(err error)

	// Configurable behavior
	ConnectFunc          func(ctx context.Context) error
	CloseFunc            func() error
	SendToolResponseFunc func(responses []ToolResponse) error

	// Captured calls for assertions
	Responses []ToolResponse
}

// NewMock creates a new Mock session.
func NewMock() *Mock {
	return &Mock{}
}

// Connect implements Session.
func (m *Mock) Connect(ctx context.Context) error {
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = true
	return nil
}

// Close implements Session.
func (m *Mock) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

// IsConnected implements Session.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// DeclareTools implements Session.
func (m *Mock) DeclareTools(decls []ToolDeclaration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decls = decls
}

// DeclaredTools returns the declarations registered via DeclareTools.
func (m *Mock) DeclaredTools() []ToolDeclaration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.decls
}

// OnToolCall implements Session.
func (m *Mock) OnToolCall(fn func(batch ToolCallBatch)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onToolCall = fn
}

// OnTranscript implements Session.
func (m *Mock) OnTranscript(fn func(text string, final bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTranscript = fn
}

// OnError implements Session.
func (m *Mock) OnError(fn func(err error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = fn
}

// SendToolResponse implements Session, recording responses for assertions.
func (m *Mock) SendToolResponse(responses []ToolResponse) error {
	if m.SendToolResponseFunc != nil {
		return m.SendToolResponseFunc(responses)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses = append(m.Responses, responses...)
	return nil
}

// EmitToolCall simulates the session emitting a tool-call batch.
// Returns true if a subscriber received it.
func (m *Mock) EmitToolCall(batch ToolCallBatch) bool {
	m.mu.RLock()
	fn := m.onToolCall
	m.mu.RUnlock()

	if fn == nil {
		return false
	}
	fn(batch)
	return true
}

// EmitTranscript simulates model text output.
func (m *Mock) EmitTranscript(text string, final bool) {
	m.mu.RLock()
	fn := m.onTranscript
	m.mu.RUnlock()

	if fn != nil {
		fn(text, final)
	}
}

// SentResponses returns a copy of all responses sent so far.
func (m *Mock) SentResponses() []ToolResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ToolResponse, len(m.Responses))
	copy(out, m.Responses)
	return out
}

// Ensure Mock implements Session at compile time.
var _ Session = (*Mock)(nil)
