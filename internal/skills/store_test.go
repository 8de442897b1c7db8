package skills

import (
	"os"
	"strings"
	"testing"
	"time"

	"askai-skillbuilder/internal/search"
)

func TestSaveWritesMarkdown(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	site := search.Result{Title: "Base Documentation", URL: "https://docs.base.org"}
	path, err := store.Save(site, "How do I get started with Base?", "Install the SDK first.")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved skill: %v", err)
	}
	content := string(raw)

	for _, want := range []string{
		"# AI Skill: Base Documentation",
		"**Source URL:** https://docs.base.org",
		"**Query:** How do I get started with Base?",
		"**Generated by:** ASK AI Skills Builder v0.2.0",
		"## AI Response",
		"Install the SDK first.",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("saved skill missing %q", want)
		}
	}
}

func TestSaveVersionsCollisions(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	site := search.Result{Title: "Stripe API", URL: "https://docs.stripe.com"}
	first, err := store.Save(site, "q1", "r1")
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second, err := store.Save(site, "q2", "r2")
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}

	if !strings.HasSuffix(first, "stripe_api_skill.md") {
		t.Errorf("first path = %q", first)
	}
	if !strings.HasSuffix(second, "stripe_api_skill_2.md") {
		t.Errorf("second path = %q", second)
	}

	firstRaw, _ := os.ReadFile(first)
	if !strings.Contains(string(firstRaw), "r1") {
		t.Error("first save was overwritten")
	}
}

func TestReadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	site := search.Result{Title: "Vercel Docs", URL: "https://vercel.com/docs"}
	query := "How do I get started with Vercel?"
	response := "Run `vercel deploy`.\n\nThen configure your project."
	path, err := store.Save(site, query, response)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	doc, err := store.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if doc.SourceTitle != site.Title {
		t.Errorf("SourceTitle = %q, want %q", doc.SourceTitle, site.Title)
	}
	if doc.SourceURL != site.URL {
		t.Errorf("SourceURL = %q, want %q", doc.SourceURL, site.URL)
	}
	if doc.Query != query {
		t.Errorf("Query = %q, want %q", doc.Query, query)
	}
	if doc.Response != response {
		t.Errorf("Response = %q, want %q", doc.Response, response)
	}
}

func TestListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, err := store.Save(search.Result{Title: "Old"}, "q", "r"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	newPath, err := store.Save(search.Result{Title: "New"}, "q", "r")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Make ordering deterministic regardless of filesystem timestamp granularity.
	future := time.Now().Add(time.Second)
	if err := os.Chtimes(newPath, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	infos, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d skills, want 2", len(infos))
	}
	if infos[0].Name != "new_skill.md" {
		t.Errorf("first listed = %q, want new_skill.md", infos[0].Name)
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Base Documentation - Build on Base", "base_documentation_build_on_ba"},
		{"Stripe API!", "stripe_api"},
		{"   ", "skill"},
		{"---", "skill"},
		{"Ünïcode Tîtle", "n_code_t_tle"},
	}
	for _, c := range cases {
		if got := Slug(c.in); got != c.want {
			t.Errorf("Slug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
