package summarize

import (
	"strings"
	"testing"
)

func TestExtractNeverEmpty(t *testing.T) {
	for _, text := range []string{
		"Hello there. This is important. Thanks bye.",
		"one sentence only",
		"",
	} {
		s := Extract(text)
		if s.Title == "" || s.Category == "" {
			t.Errorf("Extract(%q) left title/category empty: %+v", text, s)
		}
	}
}

func TestExtractFavorsSalientSentences(t *testing.T) {
	var parts []string
	for i := 0; i < 20; i++ {
		parts = append(parts, "Some filler chatter happened here without much meaning at all.")
	}
	parts = append(parts, "The key decision was to ship the release on Friday.")
	text := strings.Join(parts, " ")

	s := Extract(text)
	if !strings.Contains(s.DetailedSummary, "key decision") {
		t.Errorf("salient sentence not selected:\n%s", s.DetailedSummary)
	}
}

func TestExtractPreservesOriginalOrder(t *testing.T) {
	text := "Alpha starts the important meeting. Filler. More filler words here today. " +
		"The conclusion is to decide on the key budget. Omega ends the decision discussion."
	s := Extract(text)

	idxAlpha := strings.Index(s.DetailedSummary, "Alpha")
	idxOmega := strings.Index(s.DetailedSummary, "Omega")
	if idxAlpha < 0 || idxOmega < 0 {
		t.Fatalf("expected boundary sentences selected:\n%s", s.DetailedSummary)
	}
	if idxAlpha > idxOmega {
		t.Errorf("sentence order not restored:\n%s", s.DetailedSummary)
	}
}

func TestExtractCapsSelection(t *testing.T) {
	var parts []string
	for i := 0; i < 30; i++ {
		parts = append(parts, "This sentence mentions an important key decision and conclusion today.")
	}
	s := Extract(strings.Join(parts, " "))

	got := len(transcriptSentences(s.DetailedSummary))
	if got > extractTop {
		t.Errorf("selected %d sentences, cap is %d", got, extractTop)
	}
}

func transcriptSentences(text string) []string {
	var out []string
	for _, s := range strings.SplitAfter(text, ".") {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func TestExtractCategoryAndTags(t *testing.T) {
	s := Extract("The meeting agenda covers the release and the budget. We agreed on a deadline.")
	if s.Category != "meeting" {
		t.Errorf("category = %q, want meeting", s.Category)
	}
	joined := strings.Join(s.Tags, ",")
	for _, want := range []string{"budget", "release", "deadline"} {
		if !strings.Contains(joined, want) {
			t.Errorf("tags = %v, missing %q", s.Tags, want)
		}
	}
}

func TestDeriveTitleTruncates(t *testing.T) {
	title := deriveTitle([]string{"one two three four five six seven eight nine ten."})
	if title != "one two three four five six seven eight" {
		t.Errorf("title = %q", title)
	}
}
