// Canvaslive - tool-invocation bridge between a Gemini Live session and a
// local chart dashboard. The session calls tools to render Altair graphs,
// fetch JSON data, and open browser search pages.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/canvaslive/go-canvaslive/internal/log"
	"github.com/canvaslive/go-canvaslive/pkg/bridge"
	"github.com/canvaslive/go-canvaslive/pkg/canvas"
	"github.com/canvaslive/go-canvaslive/pkg/nav"
	"github.com/canvaslive/go-canvaslive/pkg/session"
	"github.com/canvaslive/go-canvaslive/pkg/tools"
	"github.com/canvaslive/go-canvaslive/pkg/web"
)

func main() {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	port := flag.String("port", "3000", "Dashboard port")
	model := flag.String("model", session.DefaultModel, "Live API model")
	voice := flag.String("voice", session.DefaultVoice, "Voice for audio responses")
	textOnly := flag.Bool("text", false, "Respond with text instead of audio")
	search := flag.Bool("search", true, "Declare the Google Search capability")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log.Init(level)

	cfg := session.DefaultConfig().
		WithModel(*model).
		WithSystemPrompt(tools.SystemPrompt).
		WithSearch(*search).
		WithDebug(*debug)
	cfg.Voice = *voice
	if *textOnly {
		cfg.ResponseModality = session.ModalityText
	}
	cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GOOGLE_API_KEY")
	}

	board := canvas.New()

	registry, err := bridge.NewRegistry(tools.All(tools.Config{
		Canvas: board,
		Nav:    nav.Browser{},
	})...)
	if err != nil {
		log.Error("invalid tool registry", "error", err)
		os.Exit(1)
	}

	sess, err := session.NewGemini(cfg)
	if err != nil {
		log.Error("invalid session config", "error", err)
		os.Exit(1)
	}
	sess.DeclareTools(registry.Declarations())

	server := web.NewServer(*port, board, registry)
	board.OnUpdate(server.PublishGraph)
	sess.OnTranscript(server.PublishTranscript)
	sess.OnError(func(err error) {
		log.Error("session error", "error", err)
	})

	dispatcher := bridge.NewDispatcher(sess, registry)
	dispatcher.Attach()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := sess.Connect(ctx); err != nil {
		log.Error("failed to connect session", "error", err)
		os.Exit(1)
	}

	server.StartAsync()
	log.Info("bridge running", "tools", registry.Names(), "model", cfg.Model)

	<-ctx.Done()
	log.Info("shutting down")

	dispatcher.Detach()
	sess.Close()
	server.Shutdown()
}
