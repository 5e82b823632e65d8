package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxSentenceGap is the largest silence between two consecutive timed
// fragments that still counts as the same sentence.
const maxSentenceGap = 1.5 // sec

var (
	stampLine  = regexp.MustCompile(`^\s*\[([0-9:.]+)\s*-->\s*([0-9:.]+)\]\s*(.*)$`)
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

// Synthesize turns raw annotated transcription output into sentence-level
// segments. Lines of the form "[mm:ss.mmm --> mm:ss.mmm] text" become timed
// fragments which are grouped into sentences; input without timestamp
// markers degrades to a plain sentence split with zero-duration segments,
// and input that cannot be split at all becomes a single segment.
func Synthesize(raw, language string) []Segment {
	frags := scanTimedFragments(raw, language)
	if len(frags) > 0 {
		return groupSentences(frags)
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	var out []Segment
	for _, s := range SplitSentences(text) {
		out = append(out, Segment{Text: s, Language: language})
	}
	if len(out) == 0 {
		out = append(out, Segment{Text: text, Language: language})
	}
	return out
}

// SplitSentences splits text on sentence-ending punctuation, keeping the
// punctuation attached to its sentence.
func SplitSentences(text string) []string {
	var out []string
	for _, m := range sentenceRe.FindAllString(text, -1) {
		if s := strings.TrimSpace(m); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func scanTimedFragments(raw, language string) []Segment {
	var frags []Segment
	for _, line := range strings.Split(raw, "\n") {
		m := stampLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		start, err := parseStamp(m[1])
		if err != nil {
			continue
		}
		end, err := parseStamp(m[2])
		if err != nil {
			continue
		}
		text := strings.TrimSpace(m[3])
		if text == "" {
			continue
		}
		frags = append(frags, Segment{Text: text, Start: start, End: end, Language: language})
	}
	return frags
}

// parseStamp accepts hh:mm:ss.mmm, mm:ss.mmm and mm:ss forms. The
// fractional seconds go through decimal arithmetic so values like
// "01:02.500" survive the round trip exactly.
func parseStamp(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("timestamp %q: want mm:ss or hh:mm:ss", s)
	}

	sec, err := decimal.NewFromString(parts[len(parts)-1])
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: %w", s, err)
	}
	total := sec
	mult := int64(60)
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: %w", s, err)
		}
		total = total.Add(decimal.NewFromInt(n * mult))
		mult *= 60
	}
	return total.InexactFloat64(), nil
}

// groupSentences folds word/phrase-level fragments into sentence-level
// segments. A sentence closes when its buffered text ends in terminal
// punctuation, when the gap to the next fragment exceeds maxSentenceGap,
// or when the input runs out.
func groupSentences(frags []Segment) []Segment {
	var (
		out   []Segment
		texts []string
		start float64
		end   float64
	)
	flush := func() {
		if len(texts) == 0 {
			return
		}
		out = append(out, Segment{
			Text:     strings.Join(texts, " "),
			Start:    start,
			End:      end,
			Language: frags[0].Language,
		})
		texts = nil
	}

	for i, f := range frags {
		if len(texts) == 0 {
			start = f.Start
		}
		texts = append(texts, f.Text)
		end = f.End

		if endsSentence(f.Text) {
			flush()
			continue
		}
		if i+1 < len(frags) && frags[i+1].Start-f.End > maxSentenceGap {
			flush()
		}
	}
	flush()
	return out
}

func endsSentence(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	switch t[len(t)-1] {
	case '.', '!', '?', ',':
		return true
	}
	return false
}
