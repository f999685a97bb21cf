// Package web provides the render surface for the bridge: a local
// dashboard that draws the current graph spec with vega-embed and follows
// updates over a websocket.
package web

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/canvaslive/go-canvaslive/internal/log"
	"github.com/canvaslive/go-canvaslive/pkg/bridge"
	"github.com/canvaslive/go-canvaslive/pkg/canvas"
	"github.com/canvaslive/go-canvaslive/pkg/hub"
)

//go:embed index.html
var indexHTML []byte

// GraphMessage is pushed to dashboard clients whenever the canvas changes.
type GraphMessage struct {
	Type  string `json:"type"` // always "graph"
	Spec  string `json:"spec"`
	Error string `json:"error,omitempty"`
}

// TranscriptMessage is pushed as the model produces text.
type TranscriptMessage struct {
	Type  string `json:"type"` // always "transcript"
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// Server is the dashboard web server.
type Server struct {
	app  *fiber.App
	port string

	canvas   *canvas.Canvas
	registry *bridge.Registry

	// Last graph state pushed, replayed to newly connected clients
	lastMu    sync.RWMutex
	lastGraph *GraphMessage

	// Hubs for websocket broadcast
	graphHub      *hub.Hub
	transcriptHub *hub.Hub
}

// NewServer creates the dashboard server. The canvas supplies the current
// graph state; the registry supplies the tool listing.
func NewServer(port string, c *canvas.Canvas, r *bridge.Registry) *Server {
	s := &Server{
		port:          port,
		canvas:        c,
		registry:      r,
		graphHub:      hub.New("graph"),
		transcriptHub: hub.New("transcript"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Canvaslive Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Get("/graph", s.handleGraph)
	api.Get("/tools", s.handleListTools)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/graph", websocket.New(s.handleGraphWS))
	app.Get("/ws/transcript", websocket.New(s.handleTranscriptWS))

	s.app = app
	return s
}

// Start starts the web server; blocks until shutdown.
func (s *Server) Start() error {
	fmt.Printf("🌐 Dashboard: http://localhost:%s\n", s.port)

	go s.graphHub.Run()
	go s.transcriptHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server failed", "error", err)
		}
	}()
}

// PublishGraph broadcasts a canvas update to all connected clients.
// Wire this to canvas.OnUpdate.
func (s *Server) PublishGraph(u canvas.Update) {
	msg := GraphMessage{
		Type:  "graph",
		Spec:  u.Raw,
		Error: u.RenderError,
	}
	if u.RenderError != "" && u.Parsed != nil {
		// Degraded display: keep the last good spec on screen.
		s.lastMu.RLock()
		if s.lastGraph != nil {
			msg.Spec = s.lastGraph.Spec
		}
		s.lastMu.RUnlock()
	}

	s.lastMu.Lock()
	s.lastGraph = &msg
	s.lastMu.Unlock()

	s.graphHub.BroadcastJSON(msg)
}

// PublishTranscript broadcasts model text to all connected clients.
// Wire this to the session's OnTranscript.
func (s *Server) PublishTranscript(text string, final bool) {
	s.transcriptHub.BroadcastJSON(TranscriptMessage{
		Type:  "transcript",
		Text:  text,
		Final: final,
	})
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	s.graphHub.Stop()
	s.transcriptHub.Stop()
	return s.app.Shutdown()
}
