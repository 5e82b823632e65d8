package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/recapkit/recapkit/transcript"
)

// Stage names, published as lifecycle signals and persisted for debugging.
const (
	StagePending      = "pending"
	StageTranscribing = "transcribing"
	StageDiarizing    = "diarizing"
	StageSummarizing  = "summarizing"
	StageFinalized    = "finalized"
	StageFailed       = "failed"
)

// Error taxonomy. Only capture and transcription errors abort a run;
// everything downstream degrades and still yields a record.
var (
	ErrNoSpeech          = errors.New("no speech detected")
	ErrCaptureBusy       = errors.New("capture device busy")
	ErrCapturePermission = errors.New("capture permission denied")
	ErrCaptureActive     = errors.New("a capture session is already active")
)

// Record is the finalized result of one processing run. It is composed
// once by the pipeline and never mutated afterwards; re-processing a
// recording produces a fresh Record under the same content hash.
type Record struct {
	ID              string               `json:"id"`
	AudioPath       string               `json:"audio_path"`
	Transcript      string               `json:"transcript"`
	SummaryMarkdown string               `json:"summary_markdown"`
	Title           string               `json:"title"`
	Category        string               `json:"category"`
	Tags            []string             `json:"tags"`
	Segments        []transcript.Segment `json:"segments"`
	SpeakerNames    map[string]string    `json:"speaker_names,omitempty"`
	Language        string               `json:"language,omitempty"`
	DurationSec     float64              `json:"duration_sec,omitempty"`
	IsProcessed     bool                 `json:"is_processed"`
	ErrorMessage    string               `json:"error_message,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

// Store is the persistence collaborator; its on-disk format is its own
// business.
type Store interface {
	Save(ctx context.Context, rec *Record) error
}
