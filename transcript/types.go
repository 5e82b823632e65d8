package transcript

// Segment is a contiguous span of transcript text. Times are seconds from
// the start of the recording; a zero Start and End marks a segment whose
// source carried no timing information.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Speaker  string  `json:"speaker,omitempty"`
	Language string  `json:"language,omitempty"`
}

// Timed reports whether the segment carries a genuine time range.
func (s Segment) Timed() bool {
	return s.End > s.Start || s.Start > 0
}

// HasTimedSegments reports whether any segment in the slice carries a
// genuine (non-degenerate) time range.
func HasTimedSegments(segs []Segment) bool {
	for _, s := range segs {
		if s.Timed() {
			return true
		}
	}
	return false
}

// Join concatenates segment texts with single spaces.
func Join(segs []Segment) string {
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += " "
		}
		out += s.Text
	}
	return out
}
