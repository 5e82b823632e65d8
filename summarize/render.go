package summarize

import (
	"fmt"
	"strings"
)

// Placeholder lines for the sections that always render.
const (
	noKeyPoints   = "No key points detected."
	noActionItems = "No action items detected."
	noTopics      = "No topics detected."
)

// RenderMarkdown lays the summary out as a markdown document with a fixed
// section order. Context, Participants, Notable Quotes, Decisions,
// Questions and Tone only appear when populated; Key Points, Action Items
// and Topics Discussed always appear, with placeholder text when empty.
func RenderMarkdown(s StructuredSummary) string {
	var b strings.Builder

	if s.Context != "" {
		section(&b, "Context", s.Context)
	}
	if len(s.Participants) > 0 {
		b.WriteString("## Participants\n\n")
		for _, p := range s.Participants {
			renderParticipant(&b, p)
		}
	}

	section(&b, "Overview", s.Overview)

	b.WriteString("## Key Points\n")
	if len(s.KeyPoints) == 0 {
		b.WriteString(noKeyPoints + "\n")
	}
	for _, k := range s.KeyPoints {
		fmt.Fprintf(&b, "• %s\n", k)
	}
	b.WriteString("\n")

	section(&b, "Detailed Summary", s.DetailedSummary)

	if len(s.NotableQuotes) > 0 {
		b.WriteString("## Notable Quotes\n")
		for _, q := range s.NotableQuotes {
			fmt.Fprintf(&b, "> %s\n", q)
		}
		b.WriteString("\n")
	}
	if len(s.Decisions) > 0 {
		b.WriteString("## Decisions & Conclusions\n")
		for _, d := range s.Decisions {
			fmt.Fprintf(&b, "- %s\n", d)
		}
		b.WriteString("\n")
	}
	if len(s.QuestionsRaised) > 0 {
		b.WriteString("## Questions Raised\n")
		for _, q := range s.QuestionsRaised {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Action Items\n")
	if len(s.ActionItems) == 0 {
		b.WriteString(noActionItems + "\n")
	}
	for _, a := range s.ActionItems {
		b.WriteString(renderActionItem(a) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("## Topics Discussed\n")
	if len(s.Topics) == 0 {
		b.WriteString(noTopics + "\n")
	}
	for _, t := range s.Topics {
		fmt.Fprintf(&b, "• %s\n", t)
	}

	if s.EmotionalTone != "" {
		b.WriteString("\n")
		section(&b, "Tone & Dynamics", s.EmotionalTone)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func section(b *strings.Builder, title, body string) {
	fmt.Fprintf(b, "## %s\n%s\n\n", title, strings.TrimSpace(body))
}

func renderParticipant(b *strings.Builder, p Participant) {
	name := p.Name
	if name == "" {
		name = "Unknown"
	}
	fmt.Fprintf(b, "### %s\n", name)
	if p.Style != "" {
		fmt.Fprintf(b, "%s\n", p.Style)
	}
	for _, pt := range p.Points {
		fmt.Fprintf(b, "- %s\n", pt)
	}
	if p.Quote != "" {
		fmt.Fprintf(b, "> %s\n", p.Quote)
	}
	b.WriteString("\n")
}

func renderActionItem(a ActionItem) string {
	line := "- [ ] "
	if a.Owner != "" {
		line += "[" + a.Owner + "] "
	}
	line += a.Task
	if a.Context != "" {
		line += " (" + a.Context + ")"
	}
	return line
}
