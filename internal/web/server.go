package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"askai-skillbuilder/internal/agent"
	"askai-skillbuilder/internal/config"
	"askai-skillbuilder/internal/recorder"
	"askai-skillbuilder/internal/skills"

	"github.com/gorilla/mux"
)

// Server is the HTTP/websocket transport in front of the conversation agent.
// Each websocket connection gets its own agent; the server itself holds no
// conversation state.
type Server struct {
	cfg      config.Config
	searcher agent.Searcher
	analyzer agent.SiteAnalyzer
	skills   *skills.Store
	rec      *recorder.Recorder
}

func NewServer(cfg config.Config, searcher agent.Searcher, analyzer agent.SiteAnalyzer, store *skills.Store, rec *recorder.Recorder) *Server {
	return &Server{
		cfg:      cfg,
		searcher: searcher,
		analyzer: analyzer,
		skills:   store,
		rec:      rec,
	}
}

// Router wires all HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/v1/skills", s.handleListSkills).Methods("GET")
	r.HandleFunc("/ws", s.handleWS)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.cfg.Server.ListenAddr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()
	log.Printf("web: listening on %s", s.cfg.Server.ListenAddr)

	select {
	case <-ctx.Done():
		log.Printf("web: shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    s.cfg.Server.Name,
		"version": s.cfg.Server.Version,
		"endpoints": []string{
			"GET /health",
			"GET /v1/skills",
			"GET /ws (websocket chat)",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.cfg.Server.Version,
	})
}

func (s *Server) handleListSkills(w http.ResponseWriter, _ *http.Request) {
	infos, err := s.skills.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if infos == nil {
		infos = []skills.Info{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"skills": infos})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: write response: %v", err)
	}
}
