package diarize

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// PreferredSampleRate is what the clustering engines are trained on. Other
// rates are accepted but logged as a mismatch.
const PreferredSampleRate = 16000

// Interval is a speaker-attributed span of the recording.
type Interval struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// Turn is what the clustering engine emits: a time span attributed to a
// cluster id. Cluster ids are assigned in discovery order, not temporal
// order.
type Turn struct {
	Start   float64
	End     float64
	Cluster int
}

// Engine performs unsupervised speaker clustering over mono PCM. The
// speaker count is discovered by the engine, never fixed by the caller.
type Engine interface {
	Cluster(ctx context.Context, samples []float32, sampleRate int) ([]Turn, error)
}

// EngineLoader constructs an Engine. Loading typically downloads model
// weights, so the adapter memoizes the result for the process lifetime.
type EngineLoader func(ctx context.Context) (Engine, error)

// Adapter wraps an external speaker-clustering engine behind WAV decoding
// and label synthesis. Construct one per process and hand it to the
// pipeline; errors from it are treated as an optional enhancement failing,
// never as fatal.
type Adapter struct {
	load EngineLoader
	log  *logrus.Entry

	// fallback is tried when the WAV container cannot be parsed, e.g. a
	// generic media reader. May be nil.
	fallback func(path string) (*Audio, error)

	once   sync.Once
	engine Engine
	loadErr error
}

func NewAdapter(load EngineLoader, log *logrus.Entry) *Adapter {
	return &Adapter{load: load, log: log}
}

// WithFallbackReader sets the reader used when WAV parsing fails.
func (a *Adapter) WithFallbackReader(fn func(path string) (*Audio, error)) *Adapter {
	a.fallback = fn
	return a
}

// Run diarizes the audio file and returns speaker-labeled intervals in
// engine order, plus the unique labels sorted for downstream name mapping.
func (a *Adapter) Run(ctx context.Context, audioPath string) ([]Interval, []string, error) {
	audio, err := a.decode(audioPath)
	if err != nil {
		return nil, nil, err
	}
	if audio.SampleRate != PreferredSampleRate {
		a.log.WithFields(logrus.Fields{
			"path": audioPath,
			"rate": audio.SampleRate,
			"want": PreferredSampleRate,
		}).Warn("diarize: sample rate mismatch")
	}

	eng, err := a.engineHandle(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load diarization engine: %w", err)
	}
	turns, err := eng.Cluster(ctx, audio.Samples, audio.SampleRate)
	if err != nil {
		return nil, nil, fmt.Errorf("cluster speakers: %w", err)
	}

	intervals := make([]Interval, 0, len(turns))
	seen := map[string]bool{}
	for _, t := range turns {
		label := Label(t.Cluster)
		intervals = append(intervals, Interval{Start: t.Start, End: t.End, Speaker: label})
		seen[label] = true
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return intervals, labels, nil
}

// Label converts a zero-based cluster id to its display label.
func Label(cluster int) string {
	return fmt.Sprintf("Speaker %d", cluster+1)
}

func (a *Adapter) decode(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	audio, err := DecodeWAV(f)
	if err == nil {
		return audio, nil
	}
	if a.fallback != nil {
		a.log.WithError(err).Debug("diarize: wav parse failed, trying fallback reader")
		if audio, ferr := a.fallback(path); ferr == nil {
			return audio, nil
		}
	}
	return nil, fmt.Errorf("decode %s: %w", path, err)
}

// engineHandle loads the engine on first use and reuses it afterwards.
func (a *Adapter) engineHandle(ctx context.Context) (Engine, error) {
	a.once.Do(func() {
		a.engine, a.loadErr = a.load(ctx)
	})
	return a.engine, a.loadErr
}
