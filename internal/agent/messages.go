package agent

import (
	"fmt"
	"strings"

	"askai-skillbuilder/internal/search"
)

// Conversation copy lives here so the handlers in agent.go stay readable.
// All content is markdown.

const introMessage = "Welcome to the **ASK AI Skills Builder**! " +
	"I help you discover and interact with AI assistants embedded in developer documentation sites.\n\n" +
	"Here's how I work:\n" +
	"1. You tell me what technology or documentation you're looking for\n" +
	"2. I search the web to find relevant documentation sites\n" +
	"3. You pick a site from the results\n" +
	"4. I check if it has developer docs and an **ASK AI** feature\n" +
	"5. If found, I interact with the AI and extract the response for you\n\n" +
	"**What technology, framework, or API documentation are you looking for?**\n\n" +
	"_Example: \"building dApps on Base\", \"Stripe payment API\", \"Vercel deployment\"_"

const noResultsMessage = "I couldn't find any results for that query. " +
	"Could you try rephrasing? For example, be more specific about the technology or framework."

const processingMessage = "I'm currently processing your request. Please wait a moment..."

const endedMessage = "This session has ended. Refresh the page to start a new conversation."

const farewellMessage = "Thank you for using the **ASK AI Skills Builder**! " +
	"Feel free to come back anytime. Goodbye!"

func searchingMessage(query string) string {
	return fmt.Sprintf("Searching for documentation sites related to **\"%s\"**...\n\n"+
		"_Scanning the web for the most relevant developer resources..._", query)
}

func candidateList(candidates []search.Result) string {
	var b strings.Builder
	for i, r := range candidates {
		fmt.Fprintf(&b, "**%d.** [%s](%s)\n", i+1, r.Title, r.URL)
		fmt.Fprintf(&b, "   _%s_\n\n", r.Snippet)
	}
	return b.String()
}

func resultsMessage(candidates []search.Result) string {
	return "Here are the top documentation sites I found:\n\n" +
		candidateList(candidates) +
		fmt.Sprintf("**Which site would you like me to explore?** Enter a number (1-%d).", len(candidates))
}

func retryListMessage(candidates []search.Result) string {
	return "Here are the available sites again:\n\n" +
		candidateList(candidates) +
		"**Which site would you like me to try next?** Enter the number."
}

func selectionMessage(site search.Result, byMatch bool) string {
	lead := "Great choice!"
	verb := "Let me check for developer documentation..."
	if byMatch {
		lead = "I found a match!"
		verb = "Checking for developer documentation..."
	}
	return fmt.Sprintf("%s I'll explore **%s** at `%s`.\n\n%s", lead, site.Title, site.URL, verb)
}

func outOfRangeMessage(n int) string {
	return fmt.Sprintf("Please enter a number between 1 and %d.", n)
}

func rePromptMessage(n int) string {
	return fmt.Sprintf("I didn't recognize that selection. "+
		"Please enter a number (1-%d) or part of the site name.", n)
}

func docsFoundMessage(title string) string {
	return fmt.Sprintf("Developer documentation detected on **%s**!\n\n"+
		"Now scanning the page for an **ASK AI** feature...", title)
}

func attempts(remaining int) string {
	if remaining == 1 {
		return "1 attempt"
	}
	return fmt.Sprintf("%d attempts", remaining)
}

func noDocsRetryMessage(title string, remaining int) string {
	return fmt.Sprintf("I couldn't find public developer documentation on **%s**.\n\n"+
		"Would you like to try another site from the list? (%s remaining)\n\n"+
		"Type **yes** to pick another site, or **no** to end the session.",
		title, attempts(remaining))
}

const noDocsFinalMessage = "I've checked 3 different sites and couldn't find suitable " +
	"developer documentation with an ASK AI feature.\n\n" +
	"Thank you for using the **ASK AI Skills Builder**! " +
	"Feel free to refresh the page and try a different search."

func askAIFoundMessage(label string, x, y int) string {
	return fmt.Sprintf("Found the **ASK AI** button! (detected as `%s` at coordinates %d, %d)\n\n"+
		"Interacting with the AI assistant now. This may take 10-15 seconds...", label, x, y)
}

func noAskAIRetryMessage(title string, remaining int) string {
	return fmt.Sprintf("I couldn't find an **ASK AI** button on **%s**.\n\n"+
		"Would you like to try another site? (%s remaining)\n\n"+
		"Type **yes** to pick another, or **no** to end.", title, attempts(remaining))
}

const noAskAIFinalMessage = "I've reached the maximum number of site attempts (3). " +
	"Thank you for using the **ASK AI Skills Builder**!"

func extractFailRetryMessage(errText string, remaining int) string {
	return fmt.Sprintf("I wasn't able to extract a response from the AI assistant. "+
		"Error: _%s_\n\n"+
		"Would you like to try another site? (%s remaining)\n\n"+
		"Type **yes** or **no**.", errText, attempts(remaining))
}

const extractFailFinalMessage = "I was unable to extract a response and have reached the " +
	"maximum attempts. Thank you for using the **ASK AI Skills Builder**!"

func successMessage(title, query, response, skillPath string) string {
	return fmt.Sprintf("Successfully extracted the AI response!\n\n"+
		"---\n\n"+
		"### Response from %s\n\n"+
		"**Query:** _%s_\n\n"+
		"%s\n\n"+
		"---\n\n"+
		"Skill file saved to: `%s`\n\n"+
		"Thank you for using the **ASK AI Skills Builder**! "+
		"Refresh to start a new session.", title, query, response, skillPath)
}
