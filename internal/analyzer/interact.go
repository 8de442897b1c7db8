package analyzer

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
)

// Interaction is the outcome of one assistant exchange. Exactly one of Text
// and Err is populated; a successful interaction always carries non-empty text.
type Interaction struct {
	Text string `json:"text,omitempty"`
	Err  string `json:"error,omitempty"`
}

// inputSelectors is the ladder for locating the assistant's query field after
// the entry point has been opened.
var inputSelectors = []string{
	`input[placeholder*="Ask"]`,
	`input[placeholder*="ask"]`,
	`input[placeholder*="question"]`,
	`textarea[placeholder*="Ask"]`,
	`textarea[placeholder*="ask"]`,
	`input[type="text"]`,
	`textarea`,
}

// responseMarkers start the capture window when cleaning extracted text.
var responseMarkers = []string{
	"found results", "here's how", "to get started",
	"you can", "the answer", "based on",
}

// chromeMarkers identify navigation/UI lines dropped during cleaning.
var chromeMarkers = []string{
	"ask a question", "powered by", "cookie",
	"sign in", "log in", "menu", "navigation",
}

// Interact opens url, triggers the assistant entry point, submits query, waits
// for the answer to render, and returns its text. Every sub-step failure
// yields Interaction{Err: ...}; the call never raises outward.
func (a *Analyzer) Interact(ctx context.Context, pageURL, query string) Interaction {
	page, err := a.openPage(ctx, pageURL)
	if err != nil {
		log.Printf("analyzer: interact failed to open %s: %v", pageURL, err)
		return Interaction{Err: err.Error()}
	}
	defer page.Close()

	ep := a.locateEntryPoint(page)
	if !ep.Found {
		return Interaction{Err: "could not find the assistant entry point"}
	}

	if err := clickAt(page, ep.X, ep.Y); err != nil {
		return Interaction{Err: fmt.Sprintf("could not open the assistant: %v", err)}
	}
	if err := sleepWithContext(ctx, a.cfg.GetSettleInterval()); err != nil {
		return Interaction{Err: err.Error()}
	}

	if !submitQuery(page, query) {
		return Interaction{Err: "could not find the query input field"}
	}

	if err := sleepWithContext(ctx, a.cfg.GetResponseSettle()); err != nil {
		return Interaction{Err: err.Error()}
	}

	a.captureScreenshot(page, pageURL)

	var captured struct {
		Text string `json:"text"`
	}
	if err := evalInto(page, pageTextJS, &captured); err != nil {
		return Interaction{Err: fmt.Sprintf("could not capture the response: %v", err)}
	}

	text := CleanResponse(captured.Text)
	if text == "" {
		// Cleaning found no response window; fall back to the raw capture
		// rather than discarding content.
		text = strings.TrimSpace(captured.Text)
	}
	if text == "" {
		return Interaction{Err: "assistant response was empty"}
	}
	return Interaction{Text: text}
}

// clickAt dispatches a click on whatever element sits at the viewport
// coordinates the entry-point scan reported.
func clickAt(page *rod.Page, x, y int) error {
	js := fmt.Sprintf(`
	() => {
		const el = document.elementFromPoint(%d, %d);
		if (!el) return false;
		el.click();
		return true;
	}
	`, x, y)

	var clicked bool
	if err := evalInto(page, js, &clicked); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("no element at (%d, %d)", x, y)
	}
	return nil
}

// submitQuery walks the input selector ladder, types the query into the first
// visible match, and presses Enter. Returns false when no field was found.
func submitQuery(page *rod.Page, query string) bool {
	for _, sel := range inputSelectors {
		el, err := page.Timeout(2 * time.Second).Element(sel)
		if err != nil {
			continue
		}
		if visible, err := el.Visible(); err != nil || !visible {
			continue
		}
		if err := el.Click("left", 1); err != nil {
			continue
		}
		if err := el.SelectAllText(); err == nil {
			_ = el.Input("")
		}
		if err := el.Input(query); err != nil {
			continue
		}
		if err := page.Keyboard.Press(input.Enter); err != nil {
			continue
		}
		return true
	}
	return false
}

// captureScreenshot hands the settled viewport to the recorder as telemetry.
// Failures are ignored; a missing screenshot never fails an interaction.
func (a *Analyzer) captureScreenshot(page *rod.Page, pageURL string) {
	if a.rec == nil {
		return
	}
	png, err := page.Screenshot(false, nil)
	if err != nil {
		log.Printf("analyzer: screenshot failed for %s: %v", pageURL, err)
		return
	}
	label := "page"
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		label = strings.ReplaceAll(u.Host, ".", "_")
	}
	a.rec.Screenshot(label, "response", png)
}

// CleanResponse extracts the assistant's answer from a full-page text capture.
// Capture starts at the first line containing a response marker; navigation
// and UI chrome lines are dropped. Returns "" when no marker was seen, in
// which case the caller keeps the raw capture.
func CleanResponse(raw string) string {
	var cleaned []string
	capture := false

	for _, line := range strings.Split(raw, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			if capture {
				cleaned = append(cleaned, "")
			}
			continue
		}

		lower := strings.ToLower(stripped)
		if !capture {
			for _, marker := range responseMarkers {
				if strings.Contains(lower, marker) {
					capture = true
					break
				}
			}
		}
		if !capture {
			continue
		}

		skip := false
		for _, chrome := range chromeMarkers {
			if strings.Contains(lower, chrome) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		cleaned = append(cleaned, stripped)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
