package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canvaslive/go-canvaslive/pkg/bridge"
	"github.com/canvaslive/go-canvaslive/pkg/canvas"
	"github.com/canvaslive/go-canvaslive/pkg/nav"
)

func TestAllDeclaresExpectedTools(t *testing.T) {
	handlers := All(Config{Canvas: canvas.New(), Nav: &nav.Recorder{}})

	want := []string{"render_altair", "fetch_data", "open_youtube", "open_pinterest"}
	if len(handlers) != len(want) {
		t.Fatalf("expected %d handlers, got %d", len(want), len(handlers))
	}
	for i, name := range want {
		if handlers[i].Name != name {
			t.Errorf("handler %d = %s, want %s", i, handlers[i].Name, name)
		}
	}

	reg, err := bridge.NewRegistry(handlers...)
	if err != nil {
		t.Fatalf("handler set does not form a valid registry: %v", err)
	}
	decls := reg.Declarations()
	for _, d := range decls {
		if d.Description == "" {
			t.Errorf("tool %s has no description", d.Name)
		}
		if d.Parameters["type"] != "object" {
			t.Errorf("tool %s parameters are not an object schema", d.Name)
		}
	}
}

func TestRenderAltairStoresSpec(t *testing.T) {
	board := canvas.New()
	h := RenderAltair(board)

	if h.Kind != bridge.Notify {
		t.Error("render_altair should be a notify handler")
	}

	spec := `{"mark":"bar"}`
	out, err := h.Run(context.Background(), map[string]any{"json_graph": spec})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != nil {
		t.Errorf("notify handler returned output %v", out)
	}
	if board.Spec() != spec {
		t.Errorf("stored spec = %q, want %q", board.Spec(), spec)
	}
	if mark := board.Parsed()["mark"]; mark != "bar" {
		t.Errorf("parsed mark = %v, want bar", mark)
	}
}

func TestFetchDataSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"a":1}`))
	}))
	defer srv.Close()

	h := FetchData(srv.Client())
	out, err := h.Run(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, ok := out["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected parsed object under data, got %v", out["data"])
	}
	if a, _ := data["a"].(float64); a != 1 {
		t.Errorf("data.a = %v, want 1", data["a"])
	}
}

func TestFetchDataFailures(t *testing.T) {
	notJSON := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer notJSON.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	tests := []struct {
		name string
		url  string
	}{
		{name: "connection refused", url: deadURL},
		{name: "non-JSON body", url: notJSON.URL},
		{name: "invalid url", url: "http://\x00invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := FetchData(http.DefaultClient)
			_, err := h.Run(context.Background(), map[string]any{"url": tt.url})
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != "Failed to fetch data." {
				t.Errorf("error message = %q, want %q", err.Error(), "Failed to fetch data.")
			}
		})
	}
}

func TestOpenYouTubeEncodesQuery(t *testing.T) {
	rec := &nav.Recorder{}
	h := SearchAndOpen("open_youtube", "test", YouTubeSearchURL, YouTubeHomeURL, rec)

	out, err := h.Run(context.Background(), map[string]any{"query": "lofi beats"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ok, _ := out["success"].(bool); !ok {
		t.Errorf("expected success output, got %v", out)
	}

	opened := rec.Opened()
	if len(opened) != 1 {
		t.Fatalf("expected 1 navigation, got %d", len(opened))
	}
	want := "https://www.youtube.com/results?search_query=lofi%20beats"
	if opened[0] != want {
		t.Errorf("navigation target = %s, want %s", opened[0], want)
	}
}

func TestOpenPinterestWithoutQueryOpensHomepage(t *testing.T) {
	rec := &nav.Recorder{}
	h := SearchAndOpen("open_pinterest", "test", PinterestSearchURL, PinterestHomeURL, rec)

	out, err := h.Run(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ok, _ := out["success"].(bool); !ok {
		t.Errorf("expected success output, got %v", out)
	}

	opened := rec.Opened()
	if len(opened) != 1 {
		t.Fatalf("expected 1 navigation, got %d", len(opened))
	}
	if opened[0] != "https://pinterest.com/" {
		t.Errorf("navigation target = %s, want https://pinterest.com/", opened[0])
	}
}

func TestSearchAndOpenAlwaysSucceeds(t *testing.T) {
	rec := &nav.Recorder{
		OpenFunc: func(url string) error {
			return context.DeadlineExceeded
		},
	}
	h := SearchAndOpen("open_youtube", "test", YouTubeSearchURL, YouTubeHomeURL, rec)

	out, err := h.Run(context.Background(), map[string]any{"query": "anything"})
	if err != nil {
		t.Fatalf("navigation failure should not surface, got error %v", err)
	}
	if ok, _ := out["success"].(bool); !ok {
		t.Errorf("expected success even when navigation fails, got %v", out)
	}
}
