package search

import (
	"context"
	"log"
	"strings"

	"askai-skillbuilder/internal/config"
)

// Result is one candidate documentation site from a search.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	// HasDevDocs is nil until the site has been analyzed.
	HasDevDocs *bool `json:"has_dev_docs,omitempty"`
}

// Backend is one search provider in the fallback ladder.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// Engine tries an ordered list of backends and returns the first non-empty
// result set. It never fails outward: a backend error degrades to the next
// rung, and the curated table at the bottom always produces candidates.
type Engine struct {
	backends   []Backend
	maxResults int
}

// PageEvaluator navigates to a URL and evaluates a JS expression on the
// rendered page, decoding the result into out. The analyzer satisfies this.
type PageEvaluator interface {
	EvalOnPage(ctx context.Context, url, js string, out interface{}) error
}

// NewEngine assembles the ladder: browser-driven search, HTTP fallback,
// curated table. pages may be nil when no browser is available.
func NewEngine(cfg config.SearchConfig, pages PageEvaluator) *Engine {
	var backends []Backend
	if cfg.BrowserEnabled() && pages != nil {
		backends = append(backends, &BrowserBackend{pages: pages})
	}
	backends = append(backends,
		NewHTTPBackend(cfg.HTTPEndpoint, cfg.GetHTTPTimeout()),
		&CuratedBackend{},
	)
	return &Engine{backends: backends, maxResults: cfg.MaxResults}
}

// NewEngineWithBackends is used by tests to control the ladder directly.
func NewEngineWithBackends(maxResults int, backends ...Backend) *Engine {
	return &Engine{backends: backends, maxResults: maxResults}
}

// Search runs the ladder. The returned slice holds at most maxResults entries
// and may be empty when every backend comes up dry.
func (e *Engine) Search(ctx context.Context, query string) []Result {
	for _, b := range e.backends {
		results, err := b.Search(ctx, query, e.maxResults)
		if err != nil {
			log.Printf("search: %s backend failed: %v", b.Name(), err)
			continue
		}
		if len(results) == 0 {
			continue
		}
		if len(results) > e.maxResults {
			results = results[:e.maxResults]
		}
		return results
	}
	return nil
}

// scoreOverlap counts how many query words appear in the haystack. Used by the
// curated backend to order its table by relevance.
func scoreOverlap(query, haystack string) int {
	haystack = strings.ToLower(haystack)
	score := 0
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(haystack, word) {
			score++
		}
	}
	return score
}
