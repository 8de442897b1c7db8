package search

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

type stubBackend struct {
	name    string
	results []Result
	err     error
	calls   int
}

func (b *stubBackend) Name() string { return b.name }

func (b *stubBackend) Search(context.Context, string, int) ([]Result, error) {
	b.calls++
	return b.results, b.err
}

func TestEngineReturnsFirstNonEmptyRung(t *testing.T) {
	first := &stubBackend{name: "first", results: []Result{{Title: "A", URL: "https://a.com"}}}
	second := &stubBackend{name: "second", results: []Result{{Title: "B", URL: "https://b.com"}}}
	engine := NewEngineWithBackends(5, first, second)

	results := engine.Search(context.Background(), "query")
	if len(results) != 1 || results[0].Title != "A" {
		t.Fatalf("results = %v, want single A", results)
	}
	if second.calls != 0 {
		t.Errorf("second backend called %d times, want 0", second.calls)
	}
}

func TestEngineFallsThroughOnErrorAndEmpty(t *testing.T) {
	failing := &stubBackend{name: "failing", err: fmt.Errorf("blocked")}
	empty := &stubBackend{name: "empty"}
	last := &stubBackend{name: "last", results: []Result{{Title: "C", URL: "https://c.com"}}}
	engine := NewEngineWithBackends(5, failing, empty, last)

	results := engine.Search(context.Background(), "query")
	if len(results) != 1 || results[0].Title != "C" {
		t.Fatalf("results = %v, want single C", results)
	}
	if failing.calls != 1 || empty.calls != 1 {
		t.Errorf("ladder skipped a rung: failing=%d empty=%d", failing.calls, empty.calls)
	}
}

func TestEngineCapsResults(t *testing.T) {
	var many []Result
	for i := 0; i < 9; i++ {
		many = append(many, Result{Title: fmt.Sprintf("S%d", i), URL: fmt.Sprintf("https://s%d.com", i)})
	}
	engine := NewEngineWithBackends(5, &stubBackend{name: "big", results: many})

	results := engine.Search(context.Background(), "query")
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
}

func TestEngineEmptyWhenAllRungsDry(t *testing.T) {
	engine := NewEngineWithBackends(5, &stubBackend{name: "a"}, &stubBackend{name: "b"})
	if results := engine.Search(context.Background(), "query"); len(results) != 0 {
		t.Fatalf("results = %v, want empty", results)
	}
}

func TestCuratedOrdersByOverlap(t *testing.T) {
	b := &CuratedBackend{}
	results, err := b.Search(context.Background(), "Stripe payment API", 5)
	if err != nil {
		t.Fatalf("curated search: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	if !strings.Contains(results[0].Title, "Stripe") {
		t.Errorf("top result = %q, want the Stripe entry", results[0].Title)
	}
}

func TestCuratedRespectsMaxResults(t *testing.T) {
	b := &CuratedBackend{}
	results, err := b.Search(context.Background(), "docs", 2)
	if err != nil {
		t.Fatalf("curated search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
}

func TestScoreOverlap(t *testing.T) {
	cases := []struct {
		query    string
		haystack string
		want     int
	}{
		{"stripe api", "Stripe API Documentation", 2},
		{"base dapps", "Base Documentation - Build on Base", 1},
		{"unrelated words", "Vercel Documentation", 0},
		{"DOCS", "documentation docs", 1},
	}
	for _, c := range cases {
		if got := scoreOverlap(c.query, c.haystack); got != c.want {
			t.Errorf("scoreOverlap(%q, %q) = %d, want %d", c.query, c.haystack, got, c.want)
		}
	}
}

func TestResolveRedirect(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://duckduckgo.com/l/?uddg=https%3A%2F%2Fdocs.base.org%2F&rut=abc", "https://docs.base.org/"},
		{"https://html.duckduckgo.com/l/?uddg=https%3A%2F%2Fdocs.stripe.com%2Fapi", "https://docs.stripe.com/api"},
		{"https://docs.base.org/guide", "https://docs.base.org/guide"},
		{"https://duckduckgo.com/l/", "https://duckduckgo.com/l/"},
	}
	for _, c := range cases {
		if got := resolveRedirect(c.in); got != c.want {
			t.Errorf("resolveRedirect(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsHTTPURL(t *testing.T) {
	valid := []string{"https://docs.base.org", "http://example.com/path"}
	for _, u := range valid {
		if !isHTTPURL(u) {
			t.Errorf("isHTTPURL(%q) = false, want true", u)
		}
	}
	invalid := []string{"javascript:alert(1)", "ftp://example.com", "not a url", "https://"}
	for _, u := range invalid {
		if isHTTPURL(u) {
			t.Errorf("isHTTPURL(%q) = true, want false", u)
		}
	}
}

func TestParseLiteResults(t *testing.T) {
	body := `
<table>
<tr><td><a class="result-link" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fdocs.base.org%2F">Base <b>Docs</b></a></td></tr>
<tr><td class="result-snippet">Build on <b>Base</b> with OnchainKit.</td></tr>
<tr><td><a class="result-link" href="https://docs.stripe.com/api">Stripe API Reference</a></td></tr>
<tr><td class="result-snippet">The Stripe API.</td></tr>
</table>`

	results := parseLiteResults(body, 5)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %v", len(results), results)
	}
	if results[0].URL != "https://docs.base.org/" {
		t.Errorf("first url = %q", results[0].URL)
	}
	if results[0].Title != "Base Docs" {
		t.Errorf("first title = %q", results[0].Title)
	}
	if results[0].Snippet != "Build on Base with OnchainKit." {
		t.Errorf("first snippet = %q", results[0].Snippet)
	}
	if results[1].URL != "https://docs.stripe.com/api" {
		t.Errorf("second url = %q", results[1].URL)
	}
}

func TestParseLiteResultsSkipsJunk(t *testing.T) {
	body := `
<a class="result-link" href="javascript:void(0)">Bad Scheme</a>
<a class="result-link" href="https://ok.example.com">Good</a>`

	results := parseLiteResults(body, 5)
	if len(results) != 1 || results[0].Title != "Good" {
		t.Fatalf("results = %v, want single Good", results)
	}
}

func TestStripTags(t *testing.T) {
	got := stripTags("  <b>Hello</b> &amp; <i>world</i>  ")
	if got != "Hello & world" {
		t.Errorf("stripTags = %q", got)
	}
}
