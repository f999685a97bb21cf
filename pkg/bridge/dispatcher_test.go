package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/canvaslive/go-canvaslive/pkg/session"
)

func respondHandler(name string, out map[string]any, err error) Handler {
	return Handler{
		Name:        name,
		Description: "test handler",
		Kind:        Respond,
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return out, err
		},
	}
}

func TestDispatchOneResponsePerCall(t *testing.T) {
	reg, err := NewRegistry(
		respondHandler("alpha", map[string]any{"ok": true}, nil),
		respondHandler("beta", map[string]any{"ok": true}, nil),
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	mock := session.NewMock()
	d := NewDispatcher(mock, reg)
	d.Attach()

	batch := session.ToolCallBatch{Calls: []session.ToolCall{
		{ID: "call-1", Name: "alpha"},
		{ID: "call-2", Name: "beta"},
		{ID: "call-3", Name: "alpha"},
	}}
	if !mock.EmitToolCall(batch) {
		t.Fatal("dispatcher not subscribed after Attach")
	}

	responses := mock.SentResponses()
	if len(responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(responses))
	}

	seen := make(map[string]bool)
	for _, r := range responses {
		seen[r.ID] = true
	}
	for _, id := range []string{"call-1", "call-2", "call-3"} {
		if !seen[id] {
			t.Errorf("no response for call id %s", id)
		}
	}
}

func TestHandlerFailureIsIsolated(t *testing.T) {
	reg, err := NewRegistry(
		respondHandler("bad", nil, errors.New("backend unavailable")),
		respondHandler("good", map[string]any{"value": 42}, nil),
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	mock := session.NewMock()
	d := NewDispatcher(mock, reg)
	d.Attach()

	mock.EmitToolCall(session.ToolCallBatch{Calls: []session.ToolCall{
		{ID: "c1", Name: "bad"},
		{ID: "c2", Name: "good"},
	}})

	responses := mock.SentResponses()
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}

	byID := make(map[string]session.ToolResponse)
	for _, r := range responses {
		byID[r.ID] = r
	}

	if msg, _ := byID["c1"].Output["error"].(string); msg != "backend unavailable" {
		t.Errorf("expected error output for failed call, got %v", byID["c1"].Output)
	}
	if v, _ := byID["c2"].Output["value"].(int); v != 42 {
		t.Errorf("expected success output for healthy call, got %v", byID["c2"].Output)
	}
}

func TestPanickingHandlerStillResponds(t *testing.T) {
	reg, err := NewRegistry(Handler{
		Name: "volatile",
		Kind: Respond,
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			panic("boom")
		},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	mock := session.NewMock()
	d := NewDispatcher(mock, reg)
	d.Attach()

	mock.EmitToolCall(session.ToolCallBatch{Calls: []session.ToolCall{
		{ID: "c1", Name: "volatile"},
	}})

	responses := mock.SentResponses()
	if len(responses) != 1 {
		t.Fatalf("expected 1 response after panic, got %d", len(responses))
	}
	if responses[0].ID != "c1" {
		t.Errorf("response id = %s, want c1", responses[0].ID)
	}
	if _, ok := responses[0].Output["error"]; !ok {
		t.Errorf("expected error output after panic, got %v", responses[0].Output)
	}
}

func TestNotifyHandlerSendsNoResponse(t *testing.T) {
	var ran bool
	reg, err := NewRegistry(
		Handler{
			Name: "notify_only",
			Kind: Notify,
			Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				ran = true
				return nil, nil
			},
		},
		respondHandler("echo", map[string]any{"ok": true}, nil),
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	mock := session.NewMock()
	d := NewDispatcher(mock, reg)
	d.Attach()

	mock.EmitToolCall(session.ToolCallBatch{Calls: []session.ToolCall{
		{ID: "c1", Name: "notify_only"},
		{ID: "c2", Name: "echo"},
	}})

	if !ran {
		t.Fatal("notify handler did not run")
	}
	responses := mock.SentResponses()
	if len(responses) != 1 {
		t.Fatalf("expected 1 response (notify sends none), got %d", len(responses))
	}
	if responses[0].ID != "c2" {
		t.Errorf("response id = %s, want c2", responses[0].ID)
	}
}

func TestUnknownToolIsSkipped(t *testing.T) {
	reg, err := NewRegistry(respondHandler("known", map[string]any{"ok": true}, nil))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	mock := session.NewMock()
	d := NewDispatcher(mock, reg)
	d.Attach()

	mock.EmitToolCall(session.ToolCallBatch{Calls: []session.ToolCall{
		{ID: "c1", Name: "not_registered"},
		{ID: "c2", Name: "known"},
	}})

	responses := mock.SentResponses()
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	if responses[0].ID != "c2" {
		t.Errorf("response id = %s, want c2", responses[0].ID)
	}
}

func TestDetachStopsDispatch(t *testing.T) {
	var ran bool
	reg, err := NewRegistry(Handler{
		Name: "observer",
		Kind: Respond,
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			ran = true
			return map[string]any{}, nil
		},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	mock := session.NewMock()
	d := NewDispatcher(mock, reg)
	d.Attach()
	d.Detach()

	if d.Attached() {
		t.Fatal("dispatcher still attached after Detach")
	}

	delivered := mock.EmitToolCall(session.ToolCallBatch{Calls: []session.ToolCall{
		{ID: "c1", Name: "observer"},
	}})
	if delivered {
		t.Error("batch delivered after Detach")
	}
	if ran {
		t.Error("handler ran after Detach")
	}
	if got := len(mock.SentResponses()); got != 0 {
		t.Errorf("expected 0 responses after Detach, got %d", got)
	}

	// Detach is idempotent
	d.Detach()
}

func TestAttachIsIdempotent(t *testing.T) {
	reg, err := NewRegistry(respondHandler("echo", map[string]any{"ok": true}, nil))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	mock := session.NewMock()
	d := NewDispatcher(mock, reg)
	d.Attach()
	d.Attach()

	mock.EmitToolCall(session.ToolCallBatch{Calls: []session.ToolCall{
		{ID: "c1", Name: "echo"},
	}})

	if got := len(mock.SentResponses()); got != 1 {
		t.Errorf("expected exactly 1 response, got %d", got)
	}
}

func TestEmptyBatchSendsNothing(t *testing.T) {
	reg, err := NewRegistry(respondHandler("echo", nil, nil))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	mock := session.NewMock()
	d := NewDispatcher(mock, reg)
	d.Attach()

	mock.EmitToolCall(session.ToolCallBatch{})

	if got := len(mock.SentResponses()); got != 0 {
		t.Errorf("expected 0 responses for empty batch, got %d", got)
	}
}
