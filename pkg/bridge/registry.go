package bridge

import (
	"fmt"

	"github.com/canvaslive/go-canvaslive/pkg/session"
)

// Registry is a static, ordered inventory of handlers. It is built once at
// startup and never mutated afterwards, so lookups need no locking.
type Registry struct {
	order    []string
	handlers map[string]Handler
}

// NewRegistry builds a registry from the given handlers. Handler names must
// be non-empty and unique.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	r := &Registry{
		handlers: make(map[string]Handler, len(handlers)),
	}
	for _, h := range handlers {
		if h.Name == "" {
			return nil, fmt.Errorf("bridge: handler with empty name")
		}
		if h.Run == nil {
			return nil, fmt.Errorf("bridge: handler %q has no Run function", h.Name)
		}
		if _, dup := r.handlers[h.Name]; dup {
			return nil, fmt.Errorf("bridge: duplicate handler name %q", h.Name)
		}
		r.handlers[h.Name] = h
		r.order = append(r.order, h.Name)
	}
	return r, nil
}

// Get resolves a handler by exact name.
func (r *Registry) Get(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Declarations returns the tool schemas in registration order, for
// announcing to the session at setup time.
func (r *Registry) Declarations() []session.ToolDeclaration {
	decls := make([]session.ToolDeclaration, 0, len(r.order))
	for _, name := range r.order {
		decls = append(decls, r.handlers[name].Declaration())
	}
	return decls
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	return len(r.handlers)
}
