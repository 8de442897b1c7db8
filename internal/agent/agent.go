package agent

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"askai-skillbuilder/internal/analyzer"
	"askai-skillbuilder/internal/recorder"
	"askai-skillbuilder/internal/search"
)

// MaxSiteTries bounds how many distinct sites one session may analyze before
// the conversation terminates instead of offering another retry.
const MaxSiteTries = 3

// Searcher returns candidate documentation sites for a query. It never fails
// outward; an empty slice means no results.
type Searcher interface {
	Search(ctx context.Context, query string) []search.Result
}

// SiteAnalyzer is the three-call site-analysis contract. Implementations
// degrade internal faults to the negative result shapes; the agent never
// receives a raised error from these calls.
type SiteAnalyzer interface {
	HasDeveloperDocs(ctx context.Context, url string) bool
	FindAssistantEntryPoint(ctx context.Context, url string) analyzer.EntryPoint
	Interact(ctx context.Context, url, query string) analyzer.Interaction
}

// SkillStore persists one extracted query/response pair and returns the
// location handle relayed to the user.
type SkillStore interface {
	Save(site search.Result, query, response string) (string, error)
}

// Deps are the collaborators one session is wired to. Trace is this session's
// own stream; sessions never share one.
type Deps struct {
	Searcher Searcher
	Analyzer SiteAnalyzer
	Skills   SkillStore
	Sink     Sink
	Trace    *recorder.Trace
}

// Agent is the per-session conversation state machine. It owns the candidate
// list, the current selection, and the retry counter; nothing outside
// Introduce and HandleInput mutates its state, and the transport guarantees
// the two are never in flight concurrently for the same session.
type Agent struct {
	id    string
	state State

	userQuery  string
	candidates []search.Result
	selected   *search.Result
	sitesTried int
	maxTries   int

	deps Deps
}

func New(id string, deps Deps) *Agent {
	return &Agent{
		id:       id,
		state:    StateIntro,
		maxTries: MaxSiteTries,
		deps:     deps,
	}
}

// State returns the current machine state.
func (a *Agent) State() State { return a.state }

// Candidates returns the most recent search results.
func (a *Agent) Candidates() []search.Result { return a.candidates }

// SitesTried returns how many site-analysis attempts this session has spent.
func (a *Agent) SitesTried() int { return a.sitesTried }

func (a *Agent) setState(next State) {
	a.deps.Trace.Transition(string(a.state), string(next))
	a.state = next
}

func (a *Agent) emitStatus(status, detail string) {
	a.deps.Trace.Status(status, detail)
	if a.deps.Sink != nil {
		a.deps.Sink.Send(Status{Status: status, Detail: detail})
	}
}

func (a *Agent) emitMessage(content string) {
	if a.deps.Sink != nil {
		a.deps.Sink.Send(Message{Sender: "agent", Content: content})
	}
}

// Introduce sends the welcome message and opens the conversation.
func (a *Agent) Introduce(context.Context) {
	a.setState(StateIntro)
	a.emitStatus("ready", "Agent initialized and ready")
	a.emitMessage(introMessage)
	a.setState(StateGathering)
}

// HandleInput routes one user utterance by current state. Input is trimmed;
// blank input is dropped silently in every state. The switch is exhaustive
// over the state enum so a new state cannot silently fall through.
func (a *Agent) HandleInput(ctx context.Context, input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	switch a.state {
	case StateGathering:
		a.handleGathering(ctx, input)
	case StateAwaitingSelection:
		a.handleSelection(ctx, input)
	case StateNoDocs:
		a.handleNoDocsChoice(input)
	case StateEnded:
		a.emitMessage(endedMessage)
	case StateIntro, StateSearching, StatePresentingResults, StateCheckingDocs,
		StateFoundDocs, StateCheckingAskAI, StateInteractingAI, StateExtracting,
		StateComplete:
		a.emitMessage(processingMessage)
	default:
		log.Printf("agent %s: input in unknown state %q", a.id, a.state)
		a.emitMessage(processingMessage)
	}
}

// handleGathering takes the user's topic and runs the web search.
func (a *Agent) handleGathering(ctx context.Context, query string) {
	a.userQuery = query
	a.setState(StateSearching)

	a.emitStatus("searching", "Searching for: "+query)
	a.emitMessage(searchingMessage(query))

	a.emitStatus("deep_search", "Executing search across the web")
	results := a.deps.Searcher.Search(ctx, query+" developer documentation site")

	if len(results) == 0 {
		a.emitStatus("no_results", "Search returned no results")
		a.emitMessage(noResultsMessage)
		a.setState(StateGathering)
		return
	}

	if len(results) > 5 {
		results = results[:5]
	}
	a.candidates = results
	a.selected = nil
	a.setState(StatePresentingResults)

	a.emitStatus("results_found", fmt.Sprintf("Found %d documentation sites", len(a.candidates)))
	a.emitMessage(resultsMessage(a.candidates))
	a.setState(StateAwaitingSelection)
}

// handleSelection resolves a candidate pick: an in-range 1-based index wins,
// anything else falls through to a case-insensitive substring match on
// title/url. Rejections re-prompt without a state change.
func (a *Agent) handleSelection(ctx context.Context, input string) {
	n, err := strconv.Atoi(input)
	if err == nil && n >= 1 && n <= len(a.candidates) {
		a.selectCandidate(ctx, n-1, false)
		return
	}

	lower := strings.ToLower(input)
	for i, r := range a.candidates {
		if strings.Contains(strings.ToLower(r.Title), lower) ||
			strings.Contains(strings.ToLower(r.URL), lower) {
			a.selectCandidate(ctx, i, true)
			return
		}
	}

	if err == nil {
		a.emitMessage(outOfRangeMessage(len(a.candidates)))
		return
	}
	a.emitMessage(rePromptMessage(len(a.candidates)))
}

func (a *Agent) selectCandidate(ctx context.Context, idx int, byMatch bool) {
	a.selected = &a.candidates[idx]
	a.sitesTried++

	a.emitStatus("site_selected", "Selected: "+a.selected.Title)
	a.emitMessage(selectionMessage(*a.selected, byMatch))
	a.checkDeveloperDocs(ctx)
}

// checkDeveloperDocs is the first analysis step for a selected site.
func (a *Agent) checkDeveloperDocs(ctx context.Context) {
	a.setState(StateCheckingDocs)
	a.emitStatus("checking_docs", fmt.Sprintf("Analyzing %s for developer documentation", a.selected.URL))

	hasDocs := a.deps.Analyzer.HasDeveloperDocs(ctx, a.selected.URL)
	a.recordAnalysis("has_developer_docs", hasDocs)
	a.selected.HasDevDocs = &hasDocs

	if !hasDocs {
		a.handleNoDocs()
		return
	}

	a.setState(StateFoundDocs)
	a.emitStatus("docs_found", "Developer documentation confirmed")
	a.emitMessage(docsFoundMessage(a.selected.Title))
	a.checkAskAI(ctx)
}

// handleNoDocs applies the retry policy after a failed docs check.
func (a *Agent) handleNoDocs() {
	a.setState(StateNoDocs)
	a.emitStatus("no_docs", "No public developer documentation found")

	if a.sitesTried < a.maxTries {
		a.emitMessage(noDocsRetryMessage(a.selected.Title, a.maxTries-a.sitesTried))
		return
	}

	a.emitMessage(noDocsFinalMessage)
	a.setState(StateEnded)
	a.emitStatus("ended", "Session complete - max retries reached")
}

// handleNoDocsChoice handles the yes/no answer to the retry offer.
func (a *Agent) handleNoDocsChoice(input string) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "yes", "y", "yeah", "sure", "ok":
		a.setState(StatePresentingResults)
		a.emitMessage(retryListMessage(a.candidates))
		a.setState(StateAwaitingSelection)
	default:
		a.emitMessage(farewellMessage)
		a.setState(StateEnded)
		a.emitStatus("ended", "Session ended by user")
	}
}

// checkAskAI looks for the site's embedded assistant entry point.
func (a *Agent) checkAskAI(ctx context.Context) {
	a.setState(StateCheckingAskAI)
	a.emitStatus("checking_ask_ai", "Scanning page for an ASK AI control")

	result := a.deps.Analyzer.FindAssistantEntryPoint(ctx, a.selected.URL)
	a.recordAnalysis("find_entry_point", result)

	if result.Found {
		label := result.Label
		if label == "" {
			label = "Ask AI"
		}
		a.emitStatus("ask_ai_found", fmt.Sprintf("Button '%s' at (%d, %d)", label, result.X, result.Y))
		a.emitMessage(askAIFoundMessage(label, result.X, result.Y))
		a.interactWithAI(ctx)
		return
	}

	a.emitStatus("no_ask_ai", "No ASK AI control detected")

	if a.sitesTried < a.maxTries {
		a.setState(StateNoDocs)
		a.emitMessage(noAskAIRetryMessage(a.selected.Title, a.maxTries-a.sitesTried))
		return
	}

	a.emitMessage(noAskAIFinalMessage)
	a.setState(StateEnded)
	a.emitStatus("ended", "Max retries reached")
}

// interactWithAI submits the query to the site's assistant and persists the
// extracted answer as a skill.
func (a *Agent) interactWithAI(ctx context.Context) {
	a.setState(StateInteractingAI)

	query := fmt.Sprintf("How do I get started with %s?", a.userQuery)
	a.emitStatus("interacting", "Sending query: "+truncate(query, 50))

	result := a.deps.Analyzer.Interact(ctx, a.selected.URL, query)
	a.recordAnalysis("interact", result)

	a.setState(StateExtracting)
	a.emitStatus("extracting", "Processing the assistant response")

	if result.Text == "" {
		errText := result.Err
		if errText == "" {
			errText = "Unknown error"
		}
		a.handleExtractionFailure(errText)
		return
	}

	skillPath, err := a.deps.Skills.Save(*a.selected, query, result.Text)
	if err != nil {
		log.Printf("agent %s: skill save failed: %v", a.id, err)
		a.handleExtractionFailure("could not save the skill file")
		return
	}

	a.setState(StateComplete)
	a.emitStatus("complete", "Skill saved to "+skillPath)
	a.emitMessage(successMessage(a.selected.Title, query, result.Text, skillPath))
	a.setState(StateEnded)
	a.emitStatus("ended", "Session complete - skill generated")
}

// handleExtractionFailure applies the retry policy after a failed extraction.
func (a *Agent) handleExtractionFailure(errText string) {
	a.emitStatus("error", "Extraction failed: "+errText)

	if a.sitesTried < a.maxTries {
		a.setState(StateNoDocs)
		a.emitMessage(extractFailRetryMessage(errText, a.maxTries-a.sitesTried))
		return
	}

	a.emitMessage(extractFailFinalMessage)
	a.setState(StateEnded)
	a.emitStatus("ended", "Session ended - extraction failed")
}

func (a *Agent) recordAnalysis(op string, outcome interface{}) {
	if a.selected != nil {
		a.deps.Trace.Analysis(op, a.selected.URL, outcome)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
