package summarize

import (
	"sort"
	"strings"

	"github.com/recapkit/recapkit/transcript"
)

// Deterministic extractive fallback. Pure string processing: it scores
// sentences and assembles a summary without any model, so it cannot fail.
// Used whenever the configured provider errors out or returns an answer too
// short to be useful.

const extractTop = 5

var salienceWords = []string{
	"important", "key", "conclusion", "decision", "decided", "agreed",
	"action", "must", "critical", "summary", "deadline", "next step",
}

var categoryWords = map[string][]string{
	"meeting":   {"agenda", "meeting", "standup", "sync", "minutes"},
	"interview": {"interview", "candidate", "experience", "role"},
	"lecture":   {"lecture", "today we will", "chapter", "homework"},
	"call":      {"call", "phone", "speaking", "hold on"},
}

var tagWords = []string{
	"budget", "design", "release", "bug", "hiring", "planning",
	"deadline", "review", "launch", "testing", "roadmap", "customer",
}

// Extract builds a StructuredSummary from the transcript alone.
func Extract(text string) StructuredSummary {
	sentences := transcript.SplitSentences(text)
	picked := pickSentences(sentences, extractTop)

	s := StructuredSummary{
		Title:           deriveTitle(sentences),
		Category:        deriveCategory(text),
		Overview:        strings.Join(firstN(sentences, 2), " "),
		KeyPoints:       pickSentences(sentences, 3),
		DetailedSummary: strings.Join(picked, " "),
		Topics:          deriveTags(text),
		Tags:            deriveTags(text),
	}
	if s.Title == "" {
		s.Title = "Recording"
	}
	if s.Category == "" {
		s.Category = "conversation"
	}
	return s
}

// pickSentences scores every sentence and returns the top n in their
// original order.
func pickSentences(sentences []string, n int) []string {
	if len(sentences) == 0 {
		return nil
	}
	type scored struct {
		idx   int
		score int
	}
	all := make([]scored, len(sentences))
	for i, s := range sentences {
		all[i] = scored{idx: i, score: scoreSentence(s, i, len(sentences))}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].score > all[b].score })
	if n > len(all) {
		n = len(all)
	}
	top := all[:n]
	sort.Slice(top, func(a, b int) bool { return top[a].idx < top[b].idx })

	out := make([]string, 0, n)
	for _, t := range top {
		out = append(out, sentences[t.idx])
	}
	return out
}

func scoreSentence(s string, idx, total int) int {
	score := 0

	// Openings set the subject, closings carry conclusions.
	if idx < 3 {
		score += 2
	}
	if total > 3 && idx >= total-2 {
		score++
	}

	if w := len(strings.Fields(s)); w >= 8 && w <= 25 {
		score += 2
	}

	lower := strings.ToLower(s)
	for _, kw := range salienceWords {
		if strings.Contains(lower, kw) {
			score += 3
		}
	}
	return score
}

func deriveTitle(sentences []string) string {
	if len(sentences) == 0 {
		return ""
	}
	words := strings.Fields(sentences[0])
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.TrimRight(strings.Join(words, " "), ".!?,")
}

func deriveCategory(text string) string {
	lower := strings.ToLower(text)
	bestCat, bestHits := "", 0
	// Deterministic order regardless of map iteration.
	for _, cat := range []string{"meeting", "interview", "lecture", "call"} {
		hits := 0
		for _, kw := range categoryWords[cat] {
			hits += strings.Count(lower, kw)
		}
		if hits > bestHits {
			bestCat, bestHits = cat, hits
		}
	}
	return bestCat
}

func deriveTags(text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for _, kw := range tagWords {
		if strings.Contains(lower, kw) {
			tags = append(tags, kw)
		}
	}
	return tags
}

func firstN(ss []string, n int) []string {
	if n > len(ss) {
		n = len(ss)
	}
	return ss[:n]
}
