// Package canvas holds the current graph specification and notifies the
// render surface when it changes. The spec is a serialized Vega-Lite
// document written by the render tool and consumed by the dashboard;
// only the most recent value is kept.
package canvas

import (
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/canvaslive/go-canvaslive/internal/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Update is delivered to the subscriber whenever the canvas changes.
type Update struct {
	// Raw is the graph spec exactly as the tool supplied it.
	Raw string

	// Parsed is the decoded spec, or the last good one when the new
	// value failed to parse.
	Parsed map[string]any

	// RenderError is non-empty when Raw could not be parsed. The
	// surface keeps showing the last good spec and may display this.
	RenderError string
}

// Canvas is the single most-recent-wins graph spec slot.
type Canvas struct {
	mu        sync.RWMutex
	raw       string
	parsed    map[string]any
	renderErr string
	onUpdate  func(u Update)
}

// New creates an empty canvas.
func New() *Canvas {
	return &Canvas{}
}

// OnUpdate sets the callback invoked after each accepted change.
// Passing nil unsubscribes.
func (c *Canvas) OnUpdate(fn func(u Update)) {
	c.mu.Lock()
	c.onUpdate = fn
	c.mu.Unlock()
}

// Set stores a new raw graph spec. Setting a value identical to the
// current one is a no-op, so the surface is never redrawn redundantly.
// A spec that fails to parse is recorded as a render error: the last
// good parsed spec stays on display.
func (c *Canvas) Set(raw string) {
	c.mu.Lock()
	if raw == c.raw {
		c.mu.Unlock()
		return
	}
	c.raw = raw

	parsed, err := Parse(raw)
	if err != nil {
		c.renderErr = err.Error()
	} else {
		c.parsed = parsed
		c.renderErr = ""
	}
	update := Update{
		Raw:         c.raw,
		Parsed:      c.parsed,
		RenderError: c.renderErr,
	}
	fn := c.onUpdate
	c.mu.Unlock()

	if err != nil {
		log.Warn("graph spec rejected", "error", err)
	} else {
		log.Debug("graph spec updated", "mark", gjson.Get(raw, "mark").String())
	}

	if fn != nil {
		fn(update)
	}
}

// Spec returns the current raw graph spec.
func (c *Canvas) Spec() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.raw
}

// Parsed returns the last successfully parsed spec, or nil.
func (c *Canvas) Parsed() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.parsed
}

// RenderError returns the current render error, or "" when healthy.
func (c *Canvas) RenderError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.renderErr
}

// Parse decodes a raw graph spec into a chart document.
func Parse(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, fmt.Errorf("canvas: empty graph spec")
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("canvas: graph spec is not valid JSON")
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("canvas: failed to decode graph spec: %w", err)
	}
	return parsed, nil
}
