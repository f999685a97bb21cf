package session

import (
	"context"
	"errors"
)

// Common errors returned by sessions.
var (
	ErrNotConnected   = errors.New("session: not connected")
	ErrAlreadyStarted = errors.New("session: already connected")
	ErrMissingAPIKey  = errors.New("session: missing API key")
)

// Session is the interface to a live conversational AI session that can
// emit tool calls and accept correlated tool responses. The bridge treats
// the session as a black-box event source/sink; the only contract it relies
// on is the toolcall event and the tool-response channel.
type Session interface {
	// Lifecycle

	// Connect establishes the connection and sends the session setup
	// (model, modality, voice, system instruction, tool declarations).
	// Call this after DeclareTools and after wiring callbacks.
	Connect(ctx context.Context) error

	// Close terminates the connection. Safe to call more than once.
	Close() error

	// IsConnected returns true if the session is connected and ready.
	IsConnected() bool

	// Tools

	// DeclareTools registers the tool schemas announced to the session
	// at setup time. Must be called before Connect.
	DeclareTools(decls []ToolDeclaration)

	// OnToolCall sets the callback for inbound tool-call batches.
	// Passing nil unsubscribes; after that no batches are delivered.
	OnToolCall(fn func(batch ToolCallBatch))

	// SendToolResponse sends correlated responses back to the session.
	SendToolResponse(responses []ToolResponse) error

	// Events

	// OnTranscript is called with the model's text output.
	// final is true when the turn is complete.
	OnTranscript(fn func(text string, final bool))

	// OnError is called when the session fails out of band.
	OnError(fn func(err error))
}

// Callbacks groups all session callbacks for convenience.
type Callbacks struct {
	OnToolCall   func(batch ToolCallBatch)
	OnTranscript func(text string, final bool)
	OnError      func(err error)
}

// Apply sets all callbacks on a session.
func (c *Callbacks) Apply(s Session) {
	if c.OnToolCall != nil {
		s.OnToolCall(c.OnToolCall)
	}
	if c.OnTranscript != nil {
		s.OnTranscript(c.OnTranscript)
	}
	if c.OnError != nil {
		s.OnError(c.OnError)
	}
}
