// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools defines the analysis tools offered in the chat input.
// A tool rewrites the user's question into a task-specific prompt before
// it is sent to the backend; the transcript keeps the raw question.
package tools

import "fmt"

// =============================================================================
// TOOL DEFINITIONS
// =============================================================================

// Tool IDs. General is the default and passes the query through untouched.
const (
	General     = "general"
	Summarize   = "summarize"
	Clauses     = "clauses"
	Risks       = "risks"
	Obligations = "obligations"
	Comparison  = "comparison"
)

// Tool is one entry in the tool picker.
type Tool struct {
	ID          string
	Name        string
	Description string
}

// All lists the available tools in picker order.
func All() []Tool {
	return []Tool{
		{General, "General Q&A", "Ask any question about your document"},
		{Summarize, "Summarize", "Get a concise summary of key points"},
		{Clauses, "Clause Analysis", "Identify and explain important clauses"},
		{Risks, "Risk Assessment", "Identify potential risks and concerns"},
		{Obligations, "Obligations", "List parties' obligations and duties"},
		{Comparison, "Legal Comparison", "Compare against standard practices"},
	}
}

// Lookup returns the tool with the given id.
func Lookup(id string) (Tool, bool) {
	for _, t := range All() {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// Label returns the display name for a non-general tool, or empty for
// general. The transcript tags messages with this label.
func Label(id string) string {
	if id == General {
		return ""
	}
	t, ok := Lookup(id)
	if !ok {
		return ""
	}
	return t.Name
}

// =============================================================================
// PROMPT REWRITING
// =============================================================================

// Apply rewrites query for the selected tool. Unknown ids fall back to
// passing the query through, matching the general tool.
func Apply(id, query string) string {
	switch id {
	case Summarize:
		focus := query
		if focus == "" {
			focus = "the entire document"
		}
		return "Please provide a comprehensive summary of the document, highlighting the key points and main takeaways. Focus on: " + focus
	case Clauses:
		return withFocus("Analyze and explain the important clauses in this document. Identify any unusual or noteworthy provisions.", "Specifically focus on", query)
	case Risks:
		return withFocus("Conduct a risk assessment of this document. Identify potential legal risks, liabilities, and concerns that should be addressed.", "Pay special attention to", query)
	case Obligations:
		return withFocus("List and explain all obligations, duties, and responsibilities of each party mentioned in this document.", "Focus on", query)
	case Comparison:
		return withFocus("Compare this document against standard legal practices and templates. Highlight any deviations or unusual terms.", "Specifically regarding", query)
	default:
		return query
	}
}

func withFocus(base, lead, query string) string {
	if query == "" {
		return base
	}
	return fmt.Sprintf("%s %s: %s", base, lead, query)
}
