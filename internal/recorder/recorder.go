package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	MaxRotatedFiles = 3
	MaxScreenshots  = 10
	TraceDir        = "data/traces"
)

// Event is a single record in a session trace.
type Event struct {
	Timestamp time.Time   `json:"ts"`
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Data      interface{} `json:"data"`
}

// Recorder owns the trace directory: it hands out per-session Traces and
// persists screenshots, rotating old files so the directory stays bounded.
// All methods are safe on a nil receiver so callers can wire it
// unconditionally.
type Recorder struct {
	mu       sync.Mutex
	basePath string
}

// NewRecorder creates a recorder instance and ensures the directory exists.
func NewRecorder(basePath string) (*Recorder, error) {
	if basePath == "" {
		basePath = TraceDir
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &Recorder{basePath: basePath}, nil
}

// Trace is one session's JSONL stream. Each session gets its own file and
// encoder, so concurrent sessions never interleave into each other's traces.
// All methods are safe on a nil receiver.
type Trace struct {
	sessionID string

	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
}

// Start opens a new trace for a session, rotating old files so only the
// newest MaxRotatedFiles traces survive. A nil recorder returns a nil trace,
// which absorbs all logging.
func (r *Recorder) Start(sessionID string) (*Trace, error) {
	if r == nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.rotate(".jsonl", MaxRotatedFiles); err != nil {
		return nil, fmt.Errorf("rotate traces: %w", err)
	}

	filename := fmt.Sprintf("trace_%s_%d.jsonl", sessionID, time.Now().UnixMilli())
	f, err := os.Create(filepath.Join(r.basePath, filename))
	if err != nil {
		return nil, err
	}

	return &Trace{
		sessionID: sessionID,
		file:      f,
		encoder:   json.NewEncoder(f),
	}, nil
}

// Transition records a state change.
func (t *Trace) Transition(from, to string) {
	t.log("transition", map[string]string{"from": from, "to": to})
}

// Status records an emitted status event.
func (t *Trace) Status(status, detail string) {
	t.log("status", map[string]string{"status": status, "detail": detail})
}

// Analysis records the outcome of one site-analysis call.
func (t *Trace) Analysis(op, url string, outcome interface{}) {
	t.log("analysis", map[string]interface{}{
		"op":      op,
		"url":     url,
		"outcome": outcome,
	})
}

func (t *Trace) log(eventType string, data interface{}) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.encoder == nil {
		return
	}

	_ = t.encoder.Encode(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		SessionID: t.sessionID,
		Data:      data,
	})
}

// Close finishes the trace.
func (t *Trace) Close() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file != nil {
		err := t.file.Close()
		t.file = nil
		t.encoder = nil
		return err
	}
	return nil
}

// Screenshot persists a captured viewport in the trace directory. Returns the
// written path, or empty on failure (best effort only).
func (r *Recorder) Screenshot(label, name string, png []byte) string {
	if r == nil || len(png) == 0 {
		return ""
	}
	r.mu.Lock()
	_ = r.rotate(".png", MaxScreenshots)
	r.mu.Unlock()

	filename := fmt.Sprintf("shot_%s_%s_%d.png", label, name, time.Now().UnixMilli())
	path := filepath.Join(r.basePath, filename)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return ""
	}
	return path
}

// rotate keeps only the newest keep-1 files with the given extension, making
// room for the one about to be written.
func (r *Recorder) rotate(ext string, keep int) error {
	entries, err := os.ReadDir(r.basePath)
	if err != nil {
		return err
	}

	var files []struct {
		Name string
		Time time.Time
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, struct {
			Name string
			Time time.Time
		}{e.Name(), info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Time.After(files[j].Time)
	})

	if len(files) >= keep {
		limit := keep - 1
		if limit < 0 {
			limit = 0
		}
		for i := limit; i < len(files); i++ {
			_ = os.Remove(filepath.Join(r.basePath, files[i].Name))
		}
	}
	return nil
}
