// Package tools defines the handler set the bridge exposes to the live
// session: chart rendering, URL fetching, and search-and-open navigation.
package tools

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/canvaslive/go-canvaslive/internal/httpc"
	"github.com/canvaslive/go-canvaslive/internal/log"
	"github.com/canvaslive/go-canvaslive/pkg/bridge"
	"github.com/canvaslive/go-canvaslive/pkg/canvas"
	"github.com/canvaslive/go-canvaslive/pkg/nav"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Search URL templates and fallback homepages for the search-and-open tools.
const (
	YouTubeSearchURL   = "https://www.youtube.com/results?search_query="
	YouTubeHomeURL     = "https://youtube.com/"
	PinterestSearchURL = "https://www.pinterest.com/search/pins/?q="
	PinterestHomeURL   = "https://pinterest.com/"
)

// errFetchFailed is the generic failure surfaced to the session by
// fetch_data. The exact wording is part of the tool contract; the real
// cause is logged instead.
var errFetchFailed = errors.New("Failed to fetch data.")

// SystemPrompt is the instruction declared to the session alongside the
// tool schemas.
const SystemPrompt = `You are my helpful assistant. Any time I ask you for a graph call the "render_altair" function I have provided you. Don't ask for additional information, just make your best judgement. You can fetch JSON data from a URL with the "fetch_data" function, and open YouTube or Pinterest search results with the "open_youtube" and "open_pinterest" functions.`

// Config holds the capabilities the handlers act on.
type Config struct {
	// Canvas receives graph specs from render_altair.
	Canvas *canvas.Canvas

	// Nav opens URLs for the search-and-open tools.
	Nav nav.Navigator

	// HTTP performs fetch_data retrievals. Defaults to httpc.Client.
	HTTP *http.Client
}

// All returns the full handler set in declaration order.
func All(cfg Config) []bridge.Handler {
	if cfg.HTTP == nil {
		cfg.HTTP = httpc.Client
	}
	return []bridge.Handler{
		RenderAltair(cfg.Canvas),
		FetchData(cfg.HTTP),
		SearchAndOpen("open_youtube",
			"Opens a YouTube search page in the browser for the given query.",
			YouTubeSearchURL, YouTubeHomeURL, cfg.Nav),
		SearchAndOpen("open_pinterest",
			"Opens a Pinterest search page in the browser for the given query.",
			PinterestSearchURL, PinterestHomeURL, cfg.Nav),
	}
}

// RenderAltair returns the one-way handler that stores a serialized
// Vega-Lite graph spec on the canvas. The spec is not parsed here;
// validation is the render surface's concern.
func RenderAltair(c *canvas.Canvas) bridge.Handler {
	return bridge.Handler{
		Name:        "render_altair",
		Description: "Displays an altair graph in json format.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"json_graph": map[string]any{
					"type":        "string",
					"description": "JSON STRING representation of the graph to render. Must be a string, not a json object",
				},
			},
			"required": []string{"json_graph"},
		},
		Kind: bridge.Notify,
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			spec, _ := args["json_graph"].(string)
			c.Set(spec)
			return nil, nil
		},
	}
}

// FetchData returns the handler that retrieves a URL and parses the body
// as JSON. Single attempt; any failure becomes the generic fetch error.
func FetchData(client *http.Client) bridge.Handler {
	return bridge.Handler{
		Name:        "fetch_data",
		Description: "Fetches JSON data from the provided URL.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "The URL to fetch JSON data from",
				},
			},
			"required": []string{"url"},
		},
		Kind: bridge.Respond,
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			rawURL, _ := args["url"].(string)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				log.Warn("fetch_data bad request", "url", rawURL, "error", err)
				return nil, errFetchFailed
			}

			resp, err := client.Do(req)
			if err != nil {
				log.Warn("fetch_data request failed", "url", rawURL, "error", err)
				return nil, errFetchFailed
			}
			defer resp.Body.Close()

			var data any
			if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
				log.Warn("fetch_data body is not JSON", "url", rawURL, "error", err)
				return nil, errFetchFailed
			}

			return map[string]any{"data": data}, nil
		},
	}
}

// SearchAndOpen returns a handler that opens a search page for the given
// query, or the fallback homepage when no query is supplied. Navigation
// is best-effort: the handler always reports success.
func SearchAndOpen(name, description, searchURL, homeURL string, navigator nav.Navigator) bridge.Handler {
	return bridge.Handler{
		Name:        name,
		Description: description,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query",
				},
			},
			"required": []string{"query"},
		},
		Kind: bridge.Respond,
		Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			query, _ := args["query"].(string)

			target := homeURL
			if query != "" {
				target = nav.SearchURL(searchURL, query)
			}

			if err := navigator.Open(target); err != nil {
				log.Warn("navigation failed", "tool", name, "url", target, "error", err)
			}
			return map[string]any{"success": true}, nil
		},
	}
}
