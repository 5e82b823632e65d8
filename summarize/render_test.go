package summarize

import (
	"strings"
	"testing"
)

func TestRenderScenario(t *testing.T) {
	s, tier := ParseStructured(`{"title":"Standup","overview":"Team synced.","keyPoints":["A"],"actionItems":[{"owner":"Bob","task":"Fix bug"}]}`)
	if tier != TierDirect {
		t.Fatalf("tier = %d", tier)
	}
	md := RenderMarkdown(s)

	for _, want := range []string{
		"## Overview\nTeam synced.",
		"## Key Points\n• A",
		"## Action Items\n- [ ] [Bob] Fix bug",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderPlaceholdersWhenEmpty(t *testing.T) {
	md := RenderMarkdown(StructuredSummary{Overview: "x", DetailedSummary: "y"})

	for _, want := range []string{
		"## Key Points\nNo key points detected.",
		"## Action Items\nNo action items detected.",
		"## Topics Discussed\nNo topics detected.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	// Optional sections stay out entirely when empty.
	for _, absent := range []string{"## Context", "## Participants", "## Notable Quotes",
		"## Decisions & Conclusions", "## Questions Raised", "## Tone & Dynamics"} {
		if strings.Contains(md, absent) {
			t.Errorf("markdown should not contain %q when empty:\n%s", absent, md)
		}
	}
}

func TestRenderSectionOrderIsFixed(t *testing.T) {
	md := RenderMarkdown(StructuredSummary{
		Context:         "Weekly sync.",
		Participants:    []Participant{{Name: "Alice", Style: "direct", Points: []string{"p1"}, Quote: "ship it"}},
		Overview:        "o",
		KeyPoints:       []string{"k1", "k2"},
		DetailedSummary: "d",
		NotableQuotes:   []string{"q"},
		Decisions:       []string{"dec"},
		QuestionsRaised: []string{"why"},
		ActionItems:     []ActionItem{{Task: "t", Context: "c"}},
		Topics:          []string{"top"},
		EmotionalTone:   "calm",
	})

	order := []string{
		"## Context", "## Participants", "### Alice", "## Overview",
		"## Key Points", "## Detailed Summary", "## Notable Quotes",
		"## Decisions & Conclusions", "## Questions Raised",
		"## Action Items", "## Topics Discussed", "## Tone & Dynamics",
	}
	last := -1
	for _, h := range order {
		idx := strings.Index(md, h)
		if idx < 0 {
			t.Fatalf("markdown missing %q:\n%s", h, md)
		}
		if idx < last {
			t.Errorf("%q out of order:\n%s", h, md)
		}
		last = idx
	}
}

func TestRenderArraysKeepOrder(t *testing.T) {
	md := RenderMarkdown(StructuredSummary{KeyPoints: []string{"first", "second", "third"}})
	a, b, c := strings.Index(md, "• first"), strings.Index(md, "• second"), strings.Index(md, "• third")
	if a < 0 || b < 0 || c < 0 || !(a < b && b < c) {
		t.Errorf("key points reordered:\n%s", md)
	}
}

func TestRenderActionItemVariants(t *testing.T) {
	if got := renderActionItem(ActionItem{Task: "Fix bug"}); got != "- [ ] Fix bug" {
		t.Errorf("no owner: %q", got)
	}
	if got := renderActionItem(ActionItem{Owner: "Bob", Task: "Fix bug", Context: "prod"}); got != "- [ ] [Bob] Fix bug (prod)" {
		t.Errorf("full: %q", got)
	}
}
