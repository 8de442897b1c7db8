package analyzer

import (
	"strings"
	"testing"
)

func TestDocScoreCountsIndicators(t *testing.T) {
	content := "Getting started with the API reference. Full developer documentation and SDK guides."
	score := docScore("https://example.com", "Example", content)
	if score < docScoreThreshold {
		t.Fatalf("score = %d, want >= %d", score, docScoreThreshold)
	}
}

func TestDocScoreURLHintBonus(t *testing.T) {
	bare := docScore("https://example.com/about", "Example", "nothing relevant here")
	hinted := docScore("https://example.com/docs/start", "Example", "nothing relevant here")
	if hinted-bare != 2 {
		t.Errorf("URL hint bonus = %d, want 2", hinted-bare)
	}
}

func TestDocScoreURLHintCountsOnce(t *testing.T) {
	single := docScore("https://example.com/docs", "", "")
	multi := docScore("https://example.com/docs/api/reference/guide", "", "")
	if single != multi {
		t.Errorf("multiple URL hints scored %d vs %d, want equal", multi, single)
	}
}

func TestDocScoreMarketingPageBelowThreshold(t *testing.T) {
	content := "Buy our product today. Great prices, fast shipping, happy customers."
	if score := docScore("https://shop.example.com/deals", "Shop", content); score >= docScoreThreshold {
		t.Errorf("marketing page scored %d, want < %d", score, docScoreThreshold)
	}
}

func TestCleanResponseStartsAtMarker(t *testing.T) {
	raw := strings.Join([]string{
		"Example Docs",
		"Menu",
		"Search",
		"To get started with Base, install the OnchainKit package.",
		"Then run the dev server.",
	}, "\n")

	got := CleanResponse(raw)
	if strings.Contains(got, "Search") {
		t.Errorf("pre-marker chrome kept: %q", got)
	}
	if !strings.Contains(got, "install the OnchainKit package") {
		t.Errorf("answer dropped: %q", got)
	}
	if !strings.Contains(got, "Then run the dev server.") {
		t.Errorf("continuation dropped: %q", got)
	}
}

func TestCleanResponseDropsChromeLines(t *testing.T) {
	raw := strings.Join([]string{
		"Here's how to deploy your app:",
		"Powered by Acme AI",
		"Run the deploy command.",
		"Sign in to continue",
		"Check the dashboard.",
	}, "\n")

	got := CleanResponse(raw)
	for _, chrome := range []string{"Powered by", "Sign in"} {
		if strings.Contains(got, chrome) {
			t.Errorf("chrome line %q kept: %q", chrome, got)
		}
	}
	if !strings.Contains(got, "Run the deploy command.") || !strings.Contains(got, "Check the dashboard.") {
		t.Errorf("answer lines dropped: %q", got)
	}
}

func TestCleanResponseNoMarkerReturnsEmpty(t *testing.T) {
	raw := "Navigation\nFooter\nCopyright 2026"
	if got := CleanResponse(raw); got != "" {
		t.Errorf("CleanResponse = %q, want empty", got)
	}
}

func TestCleanResponsePreservesParagraphBreaks(t *testing.T) {
	raw := "You can install the CLI first.\n\nThen authenticate."
	got := CleanResponse(raw)
	if got != "You can install the CLI first.\n\nThen authenticate." {
		t.Errorf("CleanResponse = %q", got)
	}
}
