package search

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// HTTPBackend is the second rung of the ladder: a plain GET against the
// DuckDuckGo Lite endpoint with minimal anchor extraction. It carries no
// JS-capable browser, so it only works while the lite endpoint stays
// scrape-friendly; failures fall through to the curated table.
type HTTPBackend struct {
	endpoint string
	client   *http.Client
}

func NewHTTPBackend(endpoint string, timeout time.Duration) *HTTPBackend {
	return &HTTPBackend{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *HTTPBackend) Name() string { return "http" }

var (
	liteLinkRe    = regexp.MustCompile(`(?s)<a[^>]+class=["']result-link["'][^>]*href=["']([^"']+)["'][^>]*>(.*?)</a>`)
	liteAltLinkRe = regexp.MustCompile(`(?s)<a[^>]+href=["']([^"']+)["'][^>]*class=["']result-link["'][^>]*>(.*?)</a>`)
	liteSnippetRe = regexp.MustCompile(`(?s)<td[^>]+class=["']result-snippet["'][^>]*>(.*?)</td>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
)

func (b *HTTPBackend) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	target := b.endpoint + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; skillbuilder/0.2)")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	return parseLiteResults(string(body), maxResults), nil
}

// parseLiteResults pulls (title, url, snippet) triples out of the lite HTML.
// Link and snippet rows are matched positionally, which is how the lite page
// lays them out.
func parseLiteResults(body string, maxResults int) []Result {
	links := liteLinkRe.FindAllStringSubmatch(body, -1)
	if len(links) == 0 {
		links = liteAltLinkRe.FindAllStringSubmatch(body, -1)
	}
	snippets := liteSnippetRe.FindAllStringSubmatch(body, -1)

	results := make([]Result, 0, len(links))
	for i, m := range links {
		dest := resolveRedirect(html.UnescapeString(m[1]))
		if strings.HasPrefix(dest, "//") {
			dest = "https:" + dest
		}
		title := stripTags(m[2])
		if title == "" || !isHTTPURL(dest) {
			continue
		}
		snippet := ""
		if i < len(snippets) {
			snippet = stripTags(snippets[i][1])
		}
		results = append(results, Result{Title: title, URL: dest, Snippet: snippet})
		if len(results) >= maxResults {
			break
		}
	}
	return results
}

func stripTags(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
