package agent

// State is the conversation machine state. A session occupies exactly one
// state at a time, and transitions only happen inside the dispatch handlers.
type State string

const (
	StateIntro             State = "intro"
	StateGathering         State = "gathering"
	StateSearching         State = "searching"
	StatePresentingResults State = "presenting_results"
	StateAwaitingSelection State = "awaiting_selection"
	StateCheckingDocs      State = "checking_docs"
	StateFoundDocs         State = "found_docs"
	StateNoDocs            State = "no_docs"
	StateCheckingAskAI     State = "checking_ask_ai"
	StateInteractingAI     State = "interacting_ai"
	StateExtracting        State = "extracting"
	StateComplete          State = "complete"
	StateEnded             State = "ended"
)

// Valid reports whether s is one of the enumerated states.
func (s State) Valid() bool {
	switch s {
	case StateIntro, StateGathering, StateSearching, StatePresentingResults,
		StateAwaitingSelection, StateCheckingDocs, StateFoundDocs, StateNoDocs,
		StateCheckingAskAI, StateInteractingAI, StateExtracting, StateComplete,
		StateEnded:
		return true
	}
	return false
}

// AcceptsInput reports whether user input is routed to a handler in this
// state. All other states either auto-advance or answer with a generic
// "still processing" notice.
func (s State) AcceptsInput() bool {
	switch s {
	case StateGathering, StateAwaitingSelection, StateNoDocs:
		return true
	}
	return false
}
