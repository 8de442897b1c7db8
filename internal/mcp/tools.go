package mcp

import (
	"context"
	"fmt"
	"net/url"

	"askai-skillbuilder/internal/analyzer"
	"askai-skillbuilder/internal/search"
	"askai-skillbuilder/internal/skills"
)

func urlSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Absolute http(s) URL of the site to analyze",
			},
		},
		"required": []string{"url"},
	}
}

// LaunchBrowserTool connects or launches the shared Chrome instance.
type LaunchBrowserTool struct {
	analyzer *analyzer.Analyzer
}

func (t *LaunchBrowserTool) Name() string { return "launch-browser" }
func (t *LaunchBrowserTool) Description() string {
	return "Launch or attach to the headless browser used for site analysis. Call before the analysis tools when auto-start is disabled."
}
func (t *LaunchBrowserTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}
func (t *LaunchBrowserTool) Execute(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	if err := t.analyzer.Start(ctx); err != nil {
		return map[string]interface{}{"success": false, "error": err.Error()}, nil
	}
	return map[string]interface{}{"success": true}, nil
}

// ShutdownBrowserTool closes the shared Chrome instance.
type ShutdownBrowserTool struct {
	analyzer *analyzer.Analyzer
}

func (t *ShutdownBrowserTool) Name() string { return "shutdown-browser" }
func (t *ShutdownBrowserTool) Description() string {
	return "Shut down the headless browser and release its resources."
}
func (t *ShutdownBrowserTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}
func (t *ShutdownBrowserTool) Execute(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	if err := t.analyzer.Shutdown(ctx); err != nil {
		return map[string]interface{}{"success": false, "error": err.Error()}, nil
	}
	return map[string]interface{}{"success": true}, nil
}

// SearchDocSitesTool runs the search backend ladder for a topic.
type SearchDocSitesTool struct {
	engine *search.Engine
}

func (t *SearchDocSitesTool) Name() string { return "search-doc-sites" }
func (t *SearchDocSitesTool) Description() string {
	return `Search the web for developer documentation sites on a topic.

Returns up to 5 candidates as {title, url, snippet}. Falls back through
search backends automatically; an empty list means every backend came up dry.`
}
func (t *SearchDocSitesTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Topic to search for, e.g. \"Stripe payment API\"",
			},
		},
		"required": []string{"query"},
	}
}
func (t *SearchDocSitesTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	query := getStringArg(args, "query")
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	results := t.engine.Search(ctx, query+" developer documentation site")
	return map[string]interface{}{"count": len(results), "results": results}, nil
}

// CheckDevDocsTool judges whether a site hosts developer documentation.
type CheckDevDocsTool struct {
	analyzer *analyzer.Analyzer
}

func (t *CheckDevDocsTool) Name() string { return "check-dev-docs" }
func (t *CheckDevDocsTool) Description() string {
	return `Check whether a URL hosts developer documentation.

Loads the page in the headless browser and scores its rendered text against
documentation indicators. Errors degrade to has_docs=false.`
}
func (t *CheckDevDocsTool) InputSchema() map[string]interface{} { return urlSchema() }
func (t *CheckDevDocsTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	target := getStringArg(args, "url")
	if target == "" {
		return nil, fmt.Errorf("url is required")
	}
	return map[string]interface{}{
		"url":      target,
		"has_docs": t.analyzer.HasDeveloperDocs(ctx, target),
	}, nil
}

// FindAskAITool locates a site's embedded assistant entry point.
type FindAskAITool struct {
	analyzer *analyzer.Analyzer
}

func (t *FindAskAITool) Name() string { return "find-ask-ai" }
func (t *FindAskAITool) Description() string {
	return `Locate the "Ask AI" control on a page.

Tries a rendered-text scan first, then DOM selector fallbacks. Returns
{found, x, y, label}; coordinates are viewport pixels of the control center.`
}
func (t *FindAskAITool) InputSchema() map[string]interface{} { return urlSchema() }
func (t *FindAskAITool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	target := getStringArg(args, "url")
	if target == "" {
		return nil, fmt.Errorf("url is required")
	}
	return t.analyzer.FindAssistantEntryPoint(ctx, target), nil
}

// AskAITool drives a full assistant exchange and optionally saves the answer
// as a skill document.
type AskAITool struct {
	analyzer *analyzer.Analyzer
	skills   *skills.Store
}

func (t *AskAITool) Name() string { return "ask-ai" }
func (t *AskAITool) Description() string {
	return `Submit a query to a site's embedded AI assistant and extract its answer.

Opens the page, clicks the Ask AI control, types the query, waits for the
answer to render, and returns the extracted text. Set save=true to persist
the answer as a skill document (title defaults to the site host).`
}
func (t *AskAITool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Documentation page with an Ask AI control",
			},
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Question to submit to the assistant",
			},
			"save": map[string]interface{}{
				"type":        "boolean",
				"description": "Persist the answer as a skill document (default: false)",
			},
			"title": map[string]interface{}{
				"type":        "string",
				"description": "Source title for the saved skill (default: site host)",
			},
		},
		"required": []string{"url", "query"},
	}
}
func (t *AskAITool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	target := getStringArg(args, "url")
	query := getStringArg(args, "query")
	if target == "" || query == "" {
		return nil, fmt.Errorf("url and query are required")
	}

	result := t.analyzer.Interact(ctx, target, query)
	if result.Err != "" {
		return map[string]interface{}{"success": false, "error": result.Err}, nil
	}

	out := map[string]interface{}{"success": true, "text": result.Text}

	if getBoolArg(args, "save", false) {
		title := getStringArg(args, "title")
		if title == "" {
			if u, err := url.Parse(target); err == nil && u.Host != "" {
				title = u.Host
			} else {
				title = target
			}
		}
		site := search.Result{Title: title, URL: target}
		path, err := t.skills.Save(site, query, result.Text)
		if err != nil {
			out["save_error"] = err.Error()
		} else {
			out["skill_path"] = path
		}
	}
	return out, nil
}

// ListSkillsTool lists saved skill documents.
type ListSkillsTool struct {
	skills *skills.Store
}

func (t *ListSkillsTool) Name() string { return "list-skills" }
func (t *ListSkillsTool) Description() string {
	return "List saved skill documents, newest first."
}
func (t *ListSkillsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}
func (t *ListSkillsTool) Execute(_ context.Context, _ map[string]interface{}) (interface{}, error) {
	infos, err := t.skills.List()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"count": len(infos), "skills": infos}, nil
}
