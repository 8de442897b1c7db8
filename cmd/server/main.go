package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"askai-skillbuilder/internal/analyzer"
	"askai-skillbuilder/internal/config"
	"askai-skillbuilder/internal/recorder"
	"askai-skillbuilder/internal/search"
	"askai-skillbuilder/internal/skills"
	"askai-skillbuilder/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config file (optional)")
	listenAddr := flag.String("addr", "", "Listen address override (falls back to config)")
	flag.Parse()

	// .env overlay for deployment settings; absence is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		cfg.Server.ListenAddr = addr
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
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
			// Search still works through the HTTP and curated backends, and
			// doc checks degrade to "no docs"; keep serving.
			log.Printf("browser unavailable, analysis will degrade: %v", err)
		}
	}
	defer an.Shutdown(context.Background())

	var pages search.PageEvaluator
	if an.IsConnected() {
		pages = an
	}
	engine := search.NewEngine(cfg.Search, pages)

	store, err := skills.NewStore(cfg.Skills.Dir)
	if err != nil {
		log.Fatalf("failed to open skill store: %v", err)
	}

	server := web.NewServer(cfg, engine, an, store, rec)
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("server exited with error: %v", err)
	}
}
