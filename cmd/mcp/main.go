package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"askai-skillbuilder/internal/analyzer"
	"askai-skillbuilder/internal/config"
	mcpserver "askai-skillbuilder/internal/mcp"
	"askai-skillbuilder/internal/recorder"
	"askai-skillbuilder/internal/search"
	"askai-skillbuilder/internal/skills"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config file (optional)")
	ssePort := flag.Int("sse-port", 0, "Optional SSE port override (falls back to config)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *ssePort != 0 {
		cfg.MCP.SSEPort = *ssePort
	}

	// In stdio mode anything on stdout corrupts the protocol, so logging goes
	// to a file or nowhere.
	if cfg.MCP.SSEPort == 0 {
		logFile, err := os.OpenFile("skillbuilder-mcp.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			log.SetOutput(logFile)
			defer logFile.Close()
		} else {
			log.SetOutput(io.Discard)
		}
	}

	var rec *recorder.Recorder
	if cfg.Traces.Enabled {
		rec, err = recorder.NewRecorder(cfg.Traces.Dir)
		if err != nil {
			log.Printf("session traces disabled: %v", err)
			rec = nil
		}
	}

	an := analyzer.New(cfg.Browser, rec)
	if cfg.Browser.AutoStart {
		if err := an.Start(ctx); err != nil {
			log.Printf("browser unavailable at startup, use launch-browser later: %v", err)
		}
	}
	defer an.Shutdown(context.Background())

	engine := search.NewEngine(cfg.Search, an)

	store, err := skills.NewStore(cfg.Skills.Dir)
	if err != nil {
		log.Fatalf("failed to open skill store: %v", err)
	}

	server, err := mcpserver.NewServer(cfg, an, engine, store)
	if err != nil {
		log.Fatalf("failed to initialize MCP server: %v", err)
	}

	var startErr error
	if cfg.MCP.SSEPort > 0 {
		log.Printf("starting skill builder MCP SSE server on port %d", cfg.MCP.SSEPort)
		startErr = server.StartSSE(ctx, cfg.MCP.SSEPort)
	} else {
		log.Printf("starting skill builder MCP stdio server")
		startErr = server.Start(ctx)
	}

	if startErr != nil && !errors.Is(startErr, context.Canceled) {
		log.Fatalf("server exited with error: %v", startErr)
	}
}
