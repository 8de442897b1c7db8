package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"askai-skillbuilder/internal/config"
	"askai-skillbuilder/internal/recorder"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// Analyzer owns the headless Chrome instance and answers the three
// site-analysis questions: does a site carry developer docs, where is its
// embedded assistant, and what does the assistant answer to a query.
//
// Every operation is a black box to callers: internal faults degrade to the
// negative/error result shapes and never propagate as raised errors.
type Analyzer struct {
	cfg config.BrowserConfig
	rec *recorder.Recorder

	mu         sync.Mutex
	browser    *rod.Browser
	controlURL string
}

func New(cfg config.BrowserConfig, rec *recorder.Recorder) *Analyzer {
	return &Analyzer{cfg: cfg, rec: rec}
}

// Start connects to an existing Chrome or launches one using Rod's launcher.
// Safe to call again after a browser dies; a stale connection is replaced.
func (a *Analyzer) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.browser != nil {
		if _, err := a.browser.Version(); err == nil {
			return nil
		}
		log.Printf("analyzer: stale browser connection detected, reconnecting")
		_ = a.browser.Close()
		a.browser = nil
		a.controlURL = ""
	}

	controlURL := a.cfg.DebuggerURL
	if controlURL == "" && len(a.cfg.Launch) > 0 {
		bin := a.cfg.Launch[0]
		launch := launcher.New().Bin(bin).Headless(a.cfg.IsHeadless())
		for _, rawFlag := range a.cfg.Launch[1:] {
			flagStr := strings.TrimLeft(rawFlag, "-")
			name, val, hasVal := strings.Cut(flagStr, "=")
			if hasVal {
				launch = launch.Set(flags.Flag(name), val)
			} else {
				launch = launch.Set(flags.Flag(name))
			}
		}
		url, err := launch.Launch()
		if err != nil {
			// Fallback: let Rod pick the port and defaults.
			fallback := launcher.New().Bin(bin).Headless(a.cfg.IsHeadless())
			alt, altErr := fallback.Launch()
			if altErr != nil {
				return fmt.Errorf("launch chrome: %w (fallback: %v)", err, altErr)
			}
			controlURL = alt
		} else {
			controlURL = url
		}
	}
	if controlURL == "" {
		// No endpoint and no binary configured: let Rod manage its own browser.
		url, err := launcher.New().Headless(a.cfg.IsHeadless()).Launch()
		if err != nil {
			return fmt.Errorf("launch managed chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}

	a.browser = browser
	a.controlURL = controlURL
	log.Printf("analyzer: browser connected at %s", controlURL)
	return nil
}

// IsConnected reports whether a browser is currently attached.
func (a *Analyzer) IsConnected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.browser != nil
}

// Shutdown closes the underlying browser.
func (a *Analyzer) Shutdown(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var err error
	if a.browser != nil {
		err = a.browser.Close()
		a.browser = nil
	}
	a.controlURL = ""
	return err
}

// openPage creates a fresh incognito page with the configured viewport,
// navigates to url, and waits the settle interval. The caller closes the page.
func (a *Analyzer) openPage(ctx context.Context, url string) (*rod.Page, error) {
	a.mu.Lock()
	browser := a.browser
	a.mu.Unlock()

	if browser == nil {
		return nil, fmt.Errorf("browser not connected")
	}

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	page = page.Context(ctx)

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             a.cfg.GetViewportWidth(),
		Height:            a.cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		log.Printf("analyzer: failed to set viewport: %v", err)
	}

	nav := a.cfg.GetNavigationTimeout()
	if err := page.Timeout(nav).Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	_ = page.Timeout(nav).WaitLoad()

	if err := sleepWithContext(ctx, a.cfg.GetSettleInterval()); err != nil {
		_ = page.Close()
		return nil, err
	}
	return page, nil
}

// EvalOnPage navigates to url, evaluates js on the rendered page, and decodes
// the result into out. Used by the search engine's browser backend.
func (a *Analyzer) EvalOnPage(ctx context.Context, url, js string, out interface{}) error {
	page, err := a.openPage(ctx, url)
	if err != nil {
		return err
	}
	defer page.Close()

	result, err := page.Eval(js)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}

	raw, err := json.Marshal(result.Value.Val())
	if err != nil {
		return fmt.Errorf("encode eval result: %w", err)
	}
	return json.Unmarshal(raw, out)
}

// evalInto evaluates js on an open page and decodes the result into out.
func evalInto(page *rod.Page, js string, out interface{}) error {
	result, err := page.Eval(js)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(result.Value.Val())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// elementEvalInto evaluates js with `this` bound to el and decodes the result.
func elementEvalInto(el *rod.Element, js string, out interface{}) error {
	result, err := el.Eval(js)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(result.Value.Val())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
