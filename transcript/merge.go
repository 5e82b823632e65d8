package transcript

import (
	"strings"

	"github.com/recapkit/recapkit/diarize"
)

// Merge combines transcript segments with diarization intervals. When the
// segments carry genuine timestamps the diarization labels are matched by
// temporal overlap; otherwise the flat transcript is redistributed across
// the intervals sentence by sentence.
func Merge(segs []Segment, intervals []diarize.Interval, flatText string) []Segment {
	if len(intervals) == 0 {
		return segs
	}
	if HasTimedSegments(segs) {
		return MergeByOverlap(segs, intervals)
	}
	return RedistributeSentences(flatText, intervals)
}

// MergeByOverlap assigns each segment the label of the diarization interval
// it overlaps the most. Only a strictly greater intersection replaces the
// current best, so exact ties go to the interval seen first in input order.
// A segment overlapping nothing keeps its original speaker.
func MergeByOverlap(segs []Segment, intervals []diarize.Interval) []Segment {
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[i] = s
		best := 0.0
		for _, iv := range intervals {
			o := overlap(s.Start, s.End, iv.Start, iv.End)
			if o > best {
				best = o
				out[i].Speaker = iv.Speaker
			}
		}
	}
	return out
}

func overlap(aStart, aEnd, bStart, bEnd float64) float64 {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// RedistributeSentences synthesizes speaker-attributed segments when the
// transcript has no usable timestamps. Sentences are dealt out evenly
// across the intervals, ceil(sentences/intervals) apiece; whatever remains
// after the last interval is appended to the final segment's text without
// touching its time bounds.
func RedistributeSentences(text string, intervals []diarize.Interval) []Segment {
	sentences := SplitSentences(text)
	if len(sentences) == 0 || len(intervals) == 0 {
		return nil
	}

	perInterval := (len(sentences) + len(intervals) - 1) / len(intervals)
	var out []Segment
	next := 0
	for _, iv := range intervals {
		if next >= len(sentences) {
			break
		}
		end := next + perInterval
		if end > len(sentences) {
			end = len(sentences)
		}
		out = append(out, Segment{
			Text:    strings.Join(sentences[next:end], " "),
			Start:   iv.Start,
			End:     iv.End,
			Speaker: iv.Speaker,
		})
		next = end
	}
	if next < len(sentences) && len(out) > 0 {
		last := &out[len(out)-1]
		last.Text += " " + strings.Join(sentences[next:], " ")
	}
	return out
}
