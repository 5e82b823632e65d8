package summarize

// StructuredSummary is the canonical schema a summarization provider is
// asked to produce. Every field is optional; the markdown rendering always
// carries the full section skeleton regardless.
type StructuredSummary struct {
	Title           string        `json:"title"`
	Category        string        `json:"category"`
	Participants    []Participant `json:"participants"`
	Context         string        `json:"context"`
	Overview        string        `json:"overview"`
	KeyPoints       []string      `json:"keyPoints"`
	DetailedSummary string        `json:"detailedSummary"`
	NotableQuotes   []string      `json:"notableQuotes"`
	Decisions       []string      `json:"decisions"`
	QuestionsRaised []string      `json:"questionsRaised"`
	ActionItems     []ActionItem  `json:"actionItems"`
	Topics          []string      `json:"topics"`
	EmotionalTone   string        `json:"emotionalTone"`
	Tags            []string      `json:"tags"`
}

// Participant describes one speaker's contribution.
type Participant struct {
	Name   string   `json:"name"`
	Style  string   `json:"style"`
	Points []string `json:"points"`
	Quote  string   `json:"quote"`
}

// ActionItem is a follow-up task surfaced by the summary.
type ActionItem struct {
	Owner   string `json:"owner"`
	Task    string `json:"task"`
	Context string `json:"context"`
}

// Result is what the orchestrator hands back to the pipeline: the parsed
// structure plus the rendered markdown and the flat fields the output
// record carries.
type Result struct {
	Summary  StructuredSummary
	Markdown string
	Title    string
	Category string
	Tags     []string

	// Fallback is set when the deterministic extractive summarizer
	// produced the result instead of a provider.
	Fallback bool
}
