package summarize

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Parse tiers, reported for logging and tests.
const (
	TierDirect   = 1
	TierSanitize = 2
	TierRegex    = 3
)

// ParseStructured decodes whatever text a provider returned into a
// StructuredSummary. It never fails: a direct decode is tried first, then a
// control-character sanitizing pass, and finally per-field regex
// extraction, which at worst yields an empty structure.
func ParseStructured(raw string) (StructuredSummary, int) {
	text := stripFences(raw)

	var s StructuredSummary
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return s, TierDirect
	}

	if err := json.Unmarshal([]byte(sanitizeStrings(text)), &s); err == nil {
		return s, TierSanitize
	}

	return extractFields(text), TierRegex
}

// stripFences removes surrounding markdown code-fence markers, including an
// optional language tag after the opening fence.
func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```"))
	if lower := strings.ToLower(cleaned); strings.HasPrefix(lower, "json") {
		cleaned = strings.TrimSpace(cleaned[4:])
	}
	if idx := strings.LastIndex(cleaned, "```"); idx != -1 {
		cleaned = cleaned[:idx]
	}
	return strings.TrimSpace(cleaned)
}

// sanitizeStrings replaces literal newlines and carriage returns found
// inside quoted JSON strings with single spaces. One linear scan, tracking
// in-string and escape state; structure outside strings is left untouched.
func sanitizeStrings(text string) string {
	var (
		b        strings.Builder
		inString bool
		escaped  bool
	)
	b.Grow(len(text))
	for _, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			case r == '\n' || r == '\r':
				b.WriteByte(' ')
				continue
			}
		} else if r == '"' {
			inString = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

var (
	quotedItem = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
	quotedVal  = regexp.MustCompile(`:\s*"((?:[^"\\]|\\.)*)"`)
)

// extractFields pulls each top-level canonical field out independently with
// a targeted regex. Nested object arrays (participants, actionItems) are
// flattened to their string values; this tier is a known lossy path.
func extractFields(text string) StructuredSummary {
	s := StructuredSummary{
		Title:           scalarField(text, "title"),
		Category:        scalarField(text, "category"),
		Context:         scalarField(text, "context"),
		Overview:        scalarField(text, "overview"),
		DetailedSummary: scalarField(text, "detailedSummary"),
		EmotionalTone:   scalarField(text, "emotionalTone"),
		KeyPoints:       arrayField(text, "keyPoints"),
		NotableQuotes:   arrayField(text, "notableQuotes"),
		Decisions:       arrayField(text, "decisions"),
		QuestionsRaised: arrayField(text, "questionsRaised"),
		Topics:          arrayField(text, "topics"),
		Tags:            arrayField(text, "tags"),
	}
	for _, v := range nestedValues(text, "participants") {
		s.Participants = append(s.Participants, Participant{Name: v})
	}
	for _, v := range nestedValues(text, "actionItems") {
		s.ActionItems = append(s.ActionItems, ActionItem{Task: v})
	}
	return s
}

func scalarField(text, field string) string {
	re := regexp.MustCompile(`"` + field + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return unescape(m[1])
}

func arrayField(text, field string) []string {
	body := arrayBody(text, field)
	if body == "" {
		return nil
	}
	var out []string
	for _, m := range quotedItem.FindAllStringSubmatch(body, -1) {
		if v := unescape(m[1]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// nestedValues collects the string values of an array of objects, dropping
// the keys and any non-string members.
func nestedValues(text, field string) []string {
	body := arrayBody(text, field)
	if body == "" {
		return nil
	}
	var out []string
	for _, m := range quotedVal.FindAllStringSubmatch(body, -1) {
		if v := unescape(m[1]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func arrayBody(text, field string) string {
	re := regexp.MustCompile(`(?s)"` + field + `"\s*:\s*\[(.*?)\]`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

var unescaper = strings.NewReplacer(`\"`, `"`, `\n`, "\n", `\t`, "\t", `\\`, `\`)

func unescape(v string) string {
	return strings.TrimSpace(unescaper.Replace(v))
}
