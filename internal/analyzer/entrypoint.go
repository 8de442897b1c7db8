package analyzer

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/go-rod/rod"
)

// EntryPoint describes where an embedded assistant control was found on a
// page. X/Y are viewport pixel coordinates of the control's center; they are
// advisory telemetry for the operator, not inputs to later steps.
type EntryPoint struct {
	Found bool   `json:"found"`
	X     int    `json:"x,omitempty"`
	Y     int    `json:"y,omitempty"`
	Label string `json:"label,omitempty"`
	Err   string `json:"error,omitempty"`
}

// entrySelectors is the DOM fallback ladder tried when the rendered-text scan
// finds nothing.
var entrySelectors = []string{
	`[data-testid*="ask"]`,
	`[aria-label*="Ask AI"]`,
	`[aria-label*="ask ai"]`,
	`.ask-ai-button`,
}

// renderedTextScanJS scans visible on-screen text for an "Ask AI" control the
// way a screenshot reader would: smallest visible element whose own text is an
// "ask"/"ask ai" phrase wins, and its center coordinates are reported.
const renderedTextScanJS = `
() => {
	const matches = [];
	document.querySelectorAll('body *').forEach(el => {
		if (el.children.length > 2) return;
		const text = (el.innerText || '').trim();
		if (!text || text.length > 30) return;
		const lower = text.toLowerCase();
		if (!lower.includes('ask')) return;

		const rect = el.getBoundingClientRect();
		if (rect.width === 0 || rect.height === 0) return;
		const style = getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden') return;

		matches.push({
			label: text,
			ai: lower.includes('ai'),
			area: rect.width * rect.height,
			x: Math.round(rect.x + rect.width / 2),
			y: Math.round(rect.y + rect.height / 2)
		});
	});

	if (matches.length === 0) return { found: false };

	// Prefer matches that mention AI, then the smallest hit (innermost element).
	matches.sort((a, b) => (b.ai - a.ai) || (a.area - b.area));
	const best = matches[0];
	return { found: true, x: best.x, y: best.y, label: best.label };
}
`

const elementCenterJS = `
() => {
	const rect = this.getBoundingClientRect();
	return { x: Math.round(rect.x + rect.width / 2), y: Math.round(rect.y + rect.height / 2) };
}
`

// FindAssistantEntryPoint locates the page's "Ask AI" control. Strategies are
// tried in order (rendered-text scan, then DOM selectors, then a button text
// sweep); the first success wins. Exhaustion returns Found:false, and an
// internal fault returns Found:false with Err set — never a raised error.
func (a *Analyzer) FindAssistantEntryPoint(ctx context.Context, url string) EntryPoint {
	page, err := a.openPage(ctx, url)
	if err != nil {
		log.Printf("analyzer: entry point check failed for %s: %v", url, err)
		return EntryPoint{Found: false, Err: err.Error()}
	}
	defer page.Close()

	return a.locateEntryPoint(page)
}

// locateEntryPoint runs the detection ladder on an already-open page. Shared
// by FindAssistantEntryPoint and Interact.
func (a *Analyzer) locateEntryPoint(page *rod.Page) EntryPoint {
	if ep, ok := scanRenderedText(page); ok {
		return ep
	}
	if ep, ok := scanSelectors(page); ok {
		return ep
	}
	if ep, ok := scanButtons(page); ok {
		return ep
	}
	return EntryPoint{Found: false}
}

func scanRenderedText(page *rod.Page) (EntryPoint, bool) {
	var ep EntryPoint
	if err := evalInto(page, renderedTextScanJS, &ep); err != nil {
		log.Printf("analyzer: rendered-text scan failed: %v", err)
		return EntryPoint{}, false
	}
	return ep, ep.Found
}

func scanSelectors(page *rod.Page) (EntryPoint, bool) {
	for _, sel := range entrySelectors {
		el, err := page.Timeout(2 * time.Second).Element(sel)
		if err != nil {
			continue
		}
		if visible, err := el.Visible(); err != nil || !visible {
			continue
		}
		ep := EntryPoint{Found: true, Label: "Ask AI (DOM)"}
		var center struct{ X, Y int }
		if err := elementEvalInto(el, elementCenterJS, &center); err == nil {
			ep.X, ep.Y = center.X, center.Y
		}
		return ep, true
	}
	return EntryPoint{}, false
}

// scanButtons sweeps button elements for "ask" text, the last rung before
// giving up.
func scanButtons(page *rod.Page) (EntryPoint, bool) {
	buttons, err := page.Timeout(2 * time.Second).Elements(`button, [role="button"]`)
	if err != nil {
		return EntryPoint{}, false
	}
	for _, el := range buttons {
		text, err := el.Text()
		if err != nil {
			continue
		}
		label := strings.TrimSpace(text)
		if label == "" || len(label) > 30 || !strings.Contains(strings.ToLower(label), "ask") {
			continue
		}
		if visible, err := el.Visible(); err != nil || !visible {
			continue
		}
		ep := EntryPoint{Found: true, Label: label}
		var center struct{ X, Y int }
		if err := elementEvalInto(el, elementCenterJS, &center); err == nil {
			ep.X, ep.Y = center.X, center.Y
		}
		return ep, true
	}
	return EntryPoint{}, false
}
