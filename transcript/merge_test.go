package transcript

import (
	"strings"
	"testing"

	"github.com/recapkit/recapkit/diarize"
)

func TestMergeByOverlapPicksLargestIntersection(t *testing.T) {
	segs := []Segment{{Text: "hi", Start: 0, End: 2}}
	intervals := []diarize.Interval{
		{Start: 0, End: 0.5, Speaker: "Speaker 1"},
		{Start: 0.5, End: 2, Speaker: "Speaker 2"},
	}
	out := MergeByOverlap(segs, intervals)
	if out[0].Speaker != "Speaker 2" {
		t.Errorf("speaker = %q, want Speaker 2", out[0].Speaker)
	}
}

func TestMergeByOverlapTieGoesToFirstSeen(t *testing.T) {
	segs := []Segment{{Text: "hi", Start: 0, End: 2}}
	intervals := []diarize.Interval{
		{Start: 0, End: 1, Speaker: "Speaker 1"},
		{Start: 1, End: 2, Speaker: "Speaker 2"},
	}
	out := MergeByOverlap(segs, intervals)
	if out[0].Speaker != "Speaker 1" {
		t.Errorf("speaker = %q, want Speaker 1 (first seen wins exact ties)", out[0].Speaker)
	}
}

func TestMergeByOverlapZeroOverlapKeepsOriginal(t *testing.T) {
	segs := []Segment{{Text: "hi", Start: 10, End: 12, Speaker: "narrator"}}
	intervals := []diarize.Interval{{Start: 0, End: 5, Speaker: "Speaker 1"}}
	out := MergeByOverlap(segs, intervals)
	if out[0].Speaker != "narrator" {
		t.Errorf("speaker = %q, want original kept", out[0].Speaker)
	}
}

func TestMergeByOverlapDoesNotMutateInput(t *testing.T) {
	segs := []Segment{{Text: "hi", Start: 0, End: 2}}
	intervals := []diarize.Interval{{Start: 0, End: 2, Speaker: "Speaker 1"}}
	MergeByOverlap(segs, intervals)
	if segs[0].Speaker != "" {
		t.Errorf("input mutated: %+v", segs[0])
	}
}

func TestRedistributeSentencesScenario(t *testing.T) {
	intervals := []diarize.Interval{
		{Start: 0, End: 2, Speaker: "Speaker 1"},
		{Start: 2, End: 5, Speaker: "Speaker 2"},
	}
	out := RedistributeSentences("Hello there. This is important. Thanks bye.", intervals)
	if len(out) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(out), out)
	}
	if out[0].Text != "Hello there. This is important." {
		t.Errorf("segment 0 = %q", out[0].Text)
	}
	if out[0].Start != 0 || out[0].End != 2 || out[0].Speaker != "Speaker 1" {
		t.Errorf("segment 0 = %+v", out[0])
	}
	if out[1].Text != "Thanks bye." {
		t.Errorf("segment 1 = %q", out[1].Text)
	}
	if out[1].Start != 2 || out[1].End != 5 || out[1].Speaker != "Speaker 2" {
		t.Errorf("segment 1 = %+v", out[1])
	}
}

// No sentence may be dropped or duplicated, whatever the interval count.
func TestRedistributeSentencesConservation(t *testing.T) {
	text := "One. Two. Three. Four. Five. Six. Seven."
	for nIntervals := 1; nIntervals <= 9; nIntervals++ {
		intervals := make([]diarize.Interval, nIntervals)
		for i := range intervals {
			intervals[i] = diarize.Interval{
				Start:   float64(i),
				End:     float64(i + 1),
				Speaker: diarize.Label(i),
			}
		}
		out := RedistributeSentences(text, intervals)

		total := 0
		for _, s := range out {
			total += len(SplitSentences(s.Text))
		}
		if total != 7 {
			t.Errorf("nIntervals=%d: %d sentences survived, want 7", nIntervals, total)
		}
		for i, s := range out {
			if s.Start != intervals[i].Start || s.End != intervals[i].End {
				t.Errorf("nIntervals=%d: segment %d bounds %v-%v differ from interval", nIntervals, i, s.Start, s.End)
			}
		}
	}
}

func TestMergeSelectsStrategy(t *testing.T) {
	intervals := []diarize.Interval{
		{Start: 0, End: 2, Speaker: "Speaker 1"},
		{Start: 2, End: 5, Speaker: "Speaker 2"},
	}

	// Degenerate timestamps force synthetic redistribution.
	flat := "Hello there. This is important. Thanks bye."
	zero := []Segment{{Text: flat}}
	out := Merge(zero, intervals, flat)
	if len(out) != 2 {
		t.Fatalf("synthetic path: got %d segments, want 2", len(out))
	}

	// Genuine timestamps keep the existing segments and label them.
	timed := []Segment{{Text: "Hello there.", Start: 0, End: 1.8}}
	out = Merge(timed, intervals, flat)
	if len(out) != 1 || out[0].Speaker != "Speaker 1" {
		t.Fatalf("overlap path: %+v", out)
	}

	// No intervals: segments pass through untouched.
	if got := Merge(timed, nil, flat); !strings.Contains(got[0].Text, "Hello") || got[0].Speaker != "" {
		t.Fatalf("no-interval path: %+v", got)
	}
}
