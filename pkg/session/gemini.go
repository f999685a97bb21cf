package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/canvaslive/go-canvaslive/internal/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Gemini Live API WebSocket endpoint
	geminiLiveURL = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	handshakeTimeout = 10 * time.Second
)

// Gemini implements Session using Google's Gemini Live API over a
// bidirectional websocket.
type Gemini struct {
	config Config

	// WebSocket connection
	ws   *websocket.Conn
	wsMu sync.Mutex

	// Tool declarations announced at setup
	decls []ToolDeclaration

	// Session state and callbacks
	mu        sync.RWMutex
	connected bool
	closed    bool

	onToolCall   func(batch ToolCallBatch)
	onTranscript func(text string, final bool)
	onError      func(err error)
}

// NewGemini creates a new Gemini Live session.
func NewGemini(cfg Config) (*Gemini, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Gemini{config: cfg}, nil
}

// Connect establishes the websocket connection, sends the setup message
// and starts the read loop.
func (g *Gemini) Connect(ctx context.Context) error {
	g.mu.Lock()
	if g.connected {
		g.mu.Unlock()
		return ErrAlreadyStarted
	}
	g.mu.Unlock()

	url := fmt.Sprintf("%s?key=%s", geminiLiveURL, g.config.APIKey)

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	ws, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return fmt.Errorf("session: failed to connect: %w", err)
	}

	g.mu.Lock()
	g.ws = ws
	g.connected = true
	g.closed = false
	g.mu.Unlock()

	if err := g.sendSetup(); err != nil {
		g.Close()
		return fmt.Errorf("session: failed to configure session: %w", err)
	}

	go g.handleMessages()

	log.Info("live session connected", "model", g.config.Model)
	return nil
}

// sendSetup sends the initial session configuration: model, response
// modality, voice, system instruction and the declared tools.
func (g *Gemini) sendSetup() error {
	return g.sendJSON(g.buildSetup())
}

// buildSetup assembles the setup message from the config and the
// declared tools.
func (g *Gemini) buildSetup() setupMessage {
	setup := setupPayload{
		Model: g.config.Model,
		GenerationConfig: generationConfig{
			ResponseModalities: []string{g.config.ResponseModality},
		},
	}
	if g.config.ResponseModality == ModalityAudio {
		setup.GenerationConfig.SpeechConfig = &speechConfig{
			VoiceConfig: voiceConfig{
				PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: g.config.Voice},
			},
		}
	}
	if g.config.SystemPrompt != "" {
		setup.SystemInstruction = &contentPayload{
			Parts: []partPayload{{Text: g.config.SystemPrompt}},
		}
	}
	if len(g.decls) > 0 {
		setup.Tools = append(setup.Tools, toolPayload{FunctionDeclarations: g.decls})
	}
	if g.config.EnableSearch {
		setup.Tools = append(setup.Tools, toolPayload{GoogleSearch: &struct{}{}})
	}

	return setupMessage{Setup: setup}
}

// Close gracefully shuts down the session.
func (g *Gemini) Close() error {
	g.mu.Lock()
	g.closed = true
	g.connected = false
	ws := g.ws
	g.mu.Unlock()

	if ws != nil {
		return ws.Close()
	}
	return nil
}

// IsConnected returns true if connected and ready.
func (g *Gemini) IsConnected() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.connected && !g.closed
}

// DeclareTools registers the tool schemas sent at setup time.
// Must be called before Connect.
func (g *Gemini) DeclareTools(decls []ToolDeclaration) {
	g.decls = decls
}

// OnToolCall sets the callback for inbound tool-call batches.
// Passing nil unsubscribes.
func (g *Gemini) OnToolCall(fn func(batch ToolCallBatch)) {
	g.mu.Lock()
	g.onToolCall = fn
	g.mu.Unlock()
}

// OnTranscript sets the callback for the model's text output.
func (g *Gemini) OnTranscript(fn func(text string, final bool)) {
	g.mu.Lock()
	g.onTranscript = fn
	g.mu.Unlock()
}

// OnError sets the error callback.
func (g *Gemini) OnError(fn func(err error)) {
	g.mu.Lock()
	g.onError = fn
	g.mu.Unlock()
}

// SendToolResponse returns correlated tool results to the session.
func (g *Gemini) SendToolResponse(responses []ToolResponse) error {
	frs := make([]functionResponse, 0, len(responses))
	for _, r := range responses {
		frs = append(frs, functionResponse{
			ID:       r.ID,
			Response: map[string]any{"output": r.Output},
		})
	}

	msg := toolResponseMessage{
		ToolResponse: toolResponsePayload{FunctionResponses: frs},
	}
	return g.sendJSON(msg)
}

// handleMessages processes incoming websocket messages until the
// connection closes.
func (g *Gemini) handleMessages() {
	for {
		g.mu.RLock()
		closed := g.closed
		ws := g.ws
		g.mu.RUnlock()

		if closed {
			return
		}

		_, message, err := ws.ReadMessage()
		if err != nil {
			g.mu.RLock()
			closed := g.closed
			onError := g.onError
			g.mu.RUnlock()

			if !closed && onError != nil {
				onError(err)
			}
			return
		}

		var msg serverMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Warn("failed to parse session message", "error", err)
			continue
		}

		g.handleMessage(&msg)
	}
}

// handleMessage processes a single decoded server message.
func (g *Gemini) handleMessage(msg *serverMessage) {
	switch {
	case msg.SetupComplete != nil:
		log.Info("live session ready")

	case msg.ToolCall != nil:
		g.handleToolCall(msg.ToolCall)

	case msg.ToolCallCancellation != nil:
		// The session may retract in-flight calls; the bridge runs
		// handlers to completion, so this is informational only.
		log.Info("tool calls cancelled by session", "ids", msg.ToolCallCancellation.IDs)

	case msg.ServerContent != nil:
		g.handleServerContent(msg.ServerContent)

	case msg.GoAway != nil:
		log.Warn("session going away", "time_left", msg.GoAway.TimeLeft)

	default:
		if g.config.Debug {
			log.Debug("unhandled session message")
		}
	}
}

// handleToolCall delivers a tool-call batch to the subscribed callback.
func (g *Gemini) handleToolCall(tc *toolCallPayload) {
	g.mu.RLock()
	onToolCall := g.onToolCall
	g.mu.RUnlock()

	if onToolCall == nil {
		log.Warn("tool call received with no subscriber", "calls", len(tc.FunctionCalls))
		return
	}

	onToolCall(tc.batch())
}

// handleServerContent relays model text and turn boundaries.
func (g *Gemini) handleServerContent(content *serverContent) {
	g.mu.RLock()
	onTranscript := g.onTranscript
	g.mu.RUnlock()

	if onTranscript == nil {
		return
	}

	if content.ModelTurn != nil {
		for _, part := range content.ModelTurn.Parts {
			if part.Text != "" {
				onTranscript(part.Text, false)
			}
		}
	}

	if content.TurnComplete {
		onTranscript("", true)
	}
}

// sendJSON sends a JSON message over the websocket.
func (g *Gemini) sendJSON(v any) error {
	g.wsMu.Lock()
	defer g.wsMu.Unlock()

	if g.ws == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return g.ws.WriteMessage(websocket.TextMessage, data)
}

// Ensure Gemini implements Session at compile time.
var _ Session = (*Gemini)(nil)
