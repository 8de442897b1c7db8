package recorder

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open trace: %v", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("bad JSONL line %q: %v", scanner.Text(), err)
		}
		events = append(events, e)
	}
	return events
}

func traceFor(t *testing.T, dir, sessionID string) string {
	t.Helper()
	traces, err := filepath.Glob(filepath.Join(dir, "trace_"+sessionID+"_*.jsonl"))
	if err != nil || len(traces) != 1 {
		t.Fatalf("traces for %s = %v, err = %v", sessionID, traces, err)
	}
	return traces[0]
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	trace, err := r.Start("s1")
	if err != nil {
		t.Errorf("nil Start: %v", err)
	}
	if trace != nil {
		t.Errorf("nil recorder produced a trace")
	}
	trace.Transition("intro", "gathering")
	trace.Status("ready", "ok")
	trace.Analysis("has_developer_docs", "https://example.com", true)
	if err := trace.Close(); err != nil {
		t.Errorf("nil trace Close: %v", err)
	}
	if path := r.Screenshot("s1", "response", []byte{1}); path != "" {
		t.Errorf("nil Screenshot returned %q", path)
	}
}

func TestEventsWrittenAsJSONL(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	trace, err := r.Start("sess-1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	trace.Transition("intro", "gathering")
	trace.Status("ready", "Agent initialized and ready")
	if err := trace.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events := readEvents(t, traceFor(t, dir, "sess-1"))
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != "transition" || events[1].Type != "status" {
		t.Errorf("event types = %q, %q", events[0].Type, events[1].Type)
	}
	if events[0].SessionID != "sess-1" {
		t.Errorf("session id = %q", events[0].SessionID)
	}
}

func TestConcurrentTracesStayIsolated(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	traceA, err := r.Start("session-A")
	if err != nil {
		t.Fatalf("Start A: %v", err)
	}
	traceA.Status("ready", "A up")

	traceB, err := r.Start("session-B")
	if err != nil {
		t.Fatalf("Start B: %v", err)
	}

	// A keeps logging after B connects; the event must land in A's file.
	traceA.Transition("gathering", "searching")
	traceB.Status("ready", "B up")

	if err := traceA.Close(); err != nil {
		t.Fatalf("Close A: %v", err)
	}
	if err := traceB.Close(); err != nil {
		t.Fatalf("Close B: %v", err)
	}

	eventsA := readEvents(t, traceFor(t, dir, "session-A"))
	if len(eventsA) != 2 {
		t.Fatalf("A has %d events, want 2", len(eventsA))
	}
	if eventsA[1].Type != "transition" {
		t.Errorf("A's second event = %q, want transition", eventsA[1].Type)
	}
	for _, e := range eventsA {
		if e.SessionID != "session-A" {
			t.Errorf("foreign event in A's trace: %+v", e)
		}
	}

	eventsB := readEvents(t, traceFor(t, dir, "session-B"))
	if len(eventsB) != 1 {
		t.Fatalf("B has %d events, want 1", len(eventsB))
	}
	if eventsB[0].SessionID != "session-B" {
		t.Errorf("foreign event in B's trace: %+v", eventsB[0])
	}
}

func TestTraceRotationKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	// Pre-seed old traces with distinct mtimes so rotation order is stable.
	base := time.Now().Add(-time.Hour)
	for i := 0; i < MaxRotatedFiles+2; i++ {
		name := filepath.Join(dir, "trace_old_"+string(rune('a'+i))+".jsonl")
		if err := os.WriteFile(name, []byte("{}\n"), 0o644); err != nil {
			t.Fatalf("seed trace: %v", err)
		}
		ts := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(name, ts, ts); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}
	}

	trace, err := r.Start("fresh")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer trace.Close()

	traces, err := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(traces) != MaxRotatedFiles {
		t.Fatalf("got %d traces after rotation, want %d", len(traces), MaxRotatedFiles)
	}

	fresh := false
	for _, p := range traces {
		if strings.Contains(filepath.Base(p), "trace_fresh_") {
			fresh = true
		}
	}
	if !fresh {
		t.Error("fresh trace missing after rotation")
	}
}

func TestScreenshotWritesFile(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	path := r.Screenshot("docs_base_org", "response", []byte{0x89, 'P', 'N', 'G'})
	if path == "" {
		t.Fatal("Screenshot returned empty path")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read screenshot: %v", err)
	}
	if len(raw) != 4 {
		t.Errorf("screenshot size = %d, want 4", len(raw))
	}
	if r.Screenshot("docs_base_org", "empty", nil) != "" {
		t.Error("empty payload produced a file")
	}
}
