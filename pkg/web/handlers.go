package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/canvaslive/go-canvaslive/pkg/hub"
)

// ToolInfo describes one registered tool for the dashboard.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handleIndex serves the embedded dashboard page.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(indexHTML)
}

// handleGraph returns the current graph state.
func (s *Server) handleGraph(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"spec":  s.canvas.Spec(),
		"error": s.canvas.RenderError(),
	})
}

// handleListTools returns the registered tool declarations.
func (s *Server) handleListTools(c *fiber.Ctx) error {
	decls := s.registry.Declarations()
	infos := make([]ToolInfo, 0, len(decls))
	for _, d := range decls {
		infos = append(infos, ToolInfo{Name: d.Name, Description: d.Description})
	}
	return c.JSON(infos)
}

// handleGraphWS streams graph updates to a dashboard client.
func (s *Server) handleGraphWS(c *websocket.Conn) {
	// Send current state so a new client draws immediately
	s.lastMu.RLock()
	last := s.lastGraph
	s.lastMu.RUnlock()
	if last != nil {
		c.WriteJSON(last)
	} else if spec := s.canvas.Spec(); spec != "" {
		c.WriteJSON(GraphMessage{Type: "graph", Spec: spec, Error: s.canvas.RenderError()})
	}

	client := hub.NewClient(s.graphHub, c)
	client.Run()
}

// handleTranscriptWS streams model text to a dashboard client.
func (s *Server) handleTranscriptWS(c *websocket.Conn) {
	client := hub.NewClient(s.transcriptHub, c)
	client.Run()
}
