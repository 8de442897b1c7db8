package search

import (
	"context"
	"sort"
)

// CuratedBackend is the bottom of the ladder: a static table of well-known
// documentation sites ordered by relevance to the query. It keeps the
// conversation usable when both live backends are unreachable.
type CuratedBackend struct{}

func (b *CuratedBackend) Name() string { return "curated" }

var curatedSites = []Result{
	{
		Title:   "Base Documentation - Build on Base",
		URL:     "https://docs.base.org/get-started/build-app",
		Snippet: "A guide to building a next.js app on Base using OnchainKit. Complete developer documentation with Ask AI.",
	},
	{
		Title:   "Stripe API Documentation",
		URL:     "https://docs.stripe.com/api",
		Snippet: "Complete reference for the Stripe API. Includes code snippets, guides, and an AI assistant.",
	},
	{
		Title:   "Vercel Documentation",
		URL:     "https://vercel.com/docs",
		Snippet: "Vercel's platform documentation for deploying web applications. Includes AI-powered search.",
	},
	{
		Title:   "Supabase Documentation",
		URL:     "https://supabase.com/docs",
		Snippet: "Open source Firebase alternative. Full documentation with guides, API reference, and AI assistant.",
	},
	{
		Title:   "Tailwind CSS Documentation",
		URL:     "https://tailwindcss.com/docs",
		Snippet: "Utility-first CSS framework documentation with comprehensive guides and examples.",
	},
}

func (b *CuratedBackend) Search(_ context.Context, query string, maxResults int) ([]Result, error) {
	type scored struct {
		score int
		site  Result
	}

	entries := make([]scored, 0, len(curatedSites))
	for _, site := range curatedSites {
		entries = append(entries, scored{
			score: scoreOverlap(query, site.Title+" "+site.Snippet),
			site:  site,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	results := make([]Result, 0, maxResults)
	for _, e := range entries {
		results = append(results, e.site)
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}
