package summarize

import (
	"fmt"
	"strings"
)

// BuildPrompt produces the canonical summarization prompt. The model is
// told to answer with nothing but one JSON object matching the
// StructuredSummary schema; when diarization succeeded the known speaker
// labels are listed up front so the model can attribute contributions.
func BuildPrompt(transcript string, speakers []string) string {
	var b strings.Builder

	if len(speakers) > 0 {
		fmt.Fprintf(&b, "The conversation below has %d participants: %s.\n",
			len(speakers), strings.Join(speakers, ", "))
		b.WriteString("Attribute contributions to these names where possible.\n\n")
	}

	b.WriteString(`Analyze the transcript and respond with ONLY a single JSON object, no prose, no code fences, using exactly this schema:

{
  "title": "short descriptive title",
  "category": "meeting|interview|lecture|call|conversation|other",
  "participants": [{"name": "", "style": "", "points": [""], "quote": ""}],
  "context": "setting and purpose, one or two sentences",
  "overview": "two or three sentence overview",
  "keyPoints": ["the most important points"],
  "detailedSummary": "several paragraphs covering the full discussion",
  "notableQuotes": ["verbatim quotes worth keeping"],
  "decisions": ["decisions or conclusions reached"],
  "questionsRaised": ["open questions"],
  "actionItems": [{"owner": "", "task": "", "context": ""}],
  "topics": ["topics discussed"],
  "emotionalTone": "overall tone and group dynamics",
  "tags": ["short lowercase tags"]
}

Omit a field's content rather than inventing it. Transcript:

`)
	b.WriteString(transcript)
	return b.String()
}
