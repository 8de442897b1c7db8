package analyzer

import (
	"context"
	"log"
	"strings"
)

// docIndicators are content keywords that suggest developer-facing
// documentation. Two or more hits (URL hints count double) mark a site as
// having docs.
var docIndicators = []string{
	"documentation", "docs", "api reference", "api docs",
	"getting started", "quickstart", "tutorial", "developer",
	"guide", "sdk", "reference", "endpoints", "authentication",
	"installation", "setup", "configuration", "examples",
}

var docURLHints = []string{"/docs", "/api", "/reference", "/guide"}

const docScoreThreshold = 2

const pageTextJS = `
() => ({
	title: document.title || '',
	text: (document.documentElement.innerText || '').substring(0, 20000)
})
`

// HasDeveloperDocs judges whether url hosts developer documentation. Any
// internal error (navigation failure, timeout, eval fault) degrades to false;
// the call never raises outward.
func (a *Analyzer) HasDeveloperDocs(ctx context.Context, url string) bool {
	page, err := a.openPage(ctx, url)
	if err != nil {
		log.Printf("analyzer: doc check failed for %s: %v", url, err)
		return false
	}
	defer page.Close()

	var captured struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	}
	if err := evalInto(page, pageTextJS, &captured); err != nil {
		log.Printf("analyzer: doc check eval failed for %s: %v", url, err)
		return false
	}

	return docScore(url, captured.Title, captured.Text) >= docScoreThreshold
}

// docScore is the pure judgment: indicator hits in content+title, plus a
// 2-point bonus when the URL path itself looks like a docs path.
func docScore(url, title, content string) int {
	haystack := strings.ToLower(content + " " + title)

	score := 0
	for _, ind := range docIndicators {
		if strings.Contains(haystack, ind) {
			score++
		}
	}

	urlLower := strings.ToLower(url)
	for _, hint := range docURLHints {
		if strings.Contains(urlLower, hint) {
			score += 2
			break
		}
	}
	return score
}
