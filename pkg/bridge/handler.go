// Package bridge implements the tool-call dispatch protocol: a static
// registry of named handlers, and a dispatcher that fans session tool-call
// batches out to them and returns exactly one correlated response per
// responding call.
package bridge

import (
	"context"

	"github.com/canvaslive/go-canvaslive/pkg/session"
)

// Kind classifies how a handler participates in the correlation protocol.
type Kind int

const (
	// Respond handlers always produce exactly one correlated response,
	// carrying either the success payload or {"error": <message>}.
	Respond Kind = iota

	// Notify handlers are one-way: they perform their side effect and
	// send no response. The caller must not wait for an answer.
	Notify
)

// Handler binds a tool name to its execution logic and declared schema.
type Handler struct {
	// Name is the unique tool name, matched case-sensitively against
	// incoming calls.
	Name string

	// Description explains the tool to the session.
	Description string

	// Parameters is the JSON schema for the tool's arguments. Declared
	// to the session only; arguments are not validated locally.
	Parameters map[string]any

	// Kind selects Respond or Notify semantics.
	Kind Kind

	// Run executes the tool. The returned map becomes the response
	// output; a returned error becomes {"error": <message>}. Run may
	// block on I/O; it is never cancelled once started.
	Run func(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Declaration returns the schema announced to the session for this handler.
func (h Handler) Declaration() session.ToolDeclaration {
	return session.ToolDeclaration{
		Name:        h.Name,
		Description: h.Description,
		Parameters:  h.Parameters,
	}
}
