package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/canvaslive/go-canvaslive/internal/log"
	"github.com/canvaslive/go-canvaslive/pkg/session"
)

// Dispatcher subscribes to a session's tool-call events and routes each
// call in a batch to its handler. For every Respond-kind call it sends
// exactly one response carrying the call's correlation id, whether the
// handler succeeds, fails, or panics. Unknown tool names are skipped.
type Dispatcher struct {
	session  session.Session
	registry *Registry

	mu       sync.Mutex
	attached bool
}

// NewDispatcher creates a dispatcher bound to the given session and
// registry. The dispatcher is inert until Attach is called.
func NewDispatcher(s session.Session, r *Registry) *Dispatcher {
	return &Dispatcher{
		session:  s,
		registry: r,
	}
}

// Attach subscribes the dispatcher to the session's tool-call events.
// Attaching an already-attached dispatcher is a no-op, so the handler is
// registered at most once per active attach.
func (d *Dispatcher) Attach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.attached {
		return
	}
	d.session.OnToolCall(d.HandleBatch)
	d.attached = true
}

// Detach unsubscribes from the session. After Detach returns, subsequent
// batches invoke no handlers and produce no responses. Idempotent.
func (d *Dispatcher) Detach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.attached {
		return
	}
	d.session.OnToolCall(nil)
	d.attached = false
}

// Attached reports whether the dispatcher is currently subscribed.
func (d *Dispatcher) Attached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attached
}

// HandleBatch processes one tool-call batch: calls run in order, each
// failure is isolated, and all responses for the batch are sent together.
func (d *Dispatcher) HandleBatch(batch session.ToolCallBatch) {
	trace := uuid.NewString()
	logger := log.With("trace", trace)

	var responses []session.ToolResponse

	for _, call := range batch.Calls {
		handler, ok := d.registry.Get(call.Name)
		if !ok {
			// Tools the session references but this build does not
			// implement are dropped without a response.
			logger.Warn("skipping unknown tool", "tool", call.Name, "id", call.ID)
			continue
		}

		output, err := d.run(handler, call)

		if handler.Kind == Notify {
			if err != nil {
				logger.Error("notify tool failed", "tool", call.Name, "id", call.ID, "error", err)
			}
			continue
		}

		if err != nil {
			logger.Error("tool failed", "tool", call.Name, "id", call.ID, "error", err)
			output = map[string]any{"error": err.Error()}
		}
		responses = append(responses, session.ToolResponse{ID: call.ID, Output: output})
	}

	if len(responses) == 0 {
		return
	}
	if err := d.session.SendToolResponse(responses); err != nil {
		logger.Error("failed to send tool responses", "count", len(responses), "error", err)
	}
}

// run executes a handler, converting any panic into an error so one bad
// handler can never take down the dispatch loop or swallow the response.
func (d *Dispatcher) run(handler Handler, call session.ToolCall) (output map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", call.Name, r)
		}
	}()

	// No cancellation: once a handler starts it runs to completion.
	return handler.Run(context.Background(), call.Args)
}
