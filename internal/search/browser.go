package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// BrowserBackend drives the shared headless browser to a DuckDuckGo HTML
// results page and extracts candidates from the rendered DOM. Using the real
// browser avoids the bot checks the JSON endpoints apply to bare HTTP clients.
type BrowserBackend struct {
	pages PageEvaluator
}

func (b *BrowserBackend) Name() string { return "browser" }

const extractResultsJS = `
() => {
	const out = [];
	document.querySelectorAll('.result').forEach(el => {
		const link = el.querySelector('.result__a');
		if (!link) return;
		const snippet = el.querySelector('.result__snippet');
		out.push({
			title: (link.innerText || '').trim(),
			url: link.href,
			snippet: snippet ? (snippet.innerText || '').trim() : ''
		});
	});
	return out;
}
`

func (b *BrowserBackend) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	target := "https://html.duckduckgo.com/html/?q=" + url.QueryEscape(query)

	var raw []Result
	if err := b.pages.EvalOnPage(ctx, target, extractResultsJS, &raw); err != nil {
		return nil, fmt.Errorf("extract results: %w", err)
	}

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		r.URL = resolveRedirect(r.URL)
		if r.Title == "" || !isHTTPURL(r.URL) {
			continue
		}
		results = append(results, r)
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the real
// destination. Non-redirect URLs pass through untouched.
func resolveRedirect(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if !strings.HasSuffix(u.Host, "duckduckgo.com") || u.Path != "/l/" {
		return raw
	}
	dest := u.Query().Get("uddg")
	if dest == "" {
		return raw
	}
	return dest
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
