package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/recapkit/recapkit/b3"
	"github.com/recapkit/recapkit/config"
	"github.com/recapkit/recapkit/diarize"
	"github.com/recapkit/recapkit/notify"
	"github.com/recapkit/recapkit/provider"
	"github.com/recapkit/recapkit/summarize"
	"github.com/recapkit/recapkit/transcript"
)

// Pipeline sequences one recording through transcription, diarization,
// merging and summarization, applying the per-stage failure policy: an
// empty transcript is the only fatal condition, everything downstream
// degrades and still finalizes a record.
type Pipeline struct {
	cfg   *config.Config
	diar  *diarize.Adapter
	store Store
	hub   *notify.Hub
	log   *logrus.Entry

	// openProvider is provider.Open unless a test swaps it out.
	openProvider func(id string, s provider.Settings) (provider.Provider, error)
}

func New(cfg *config.Config, diar *diarize.Adapter, st Store, hub *notify.Hub, log *logrus.Entry) *Pipeline {
	return &Pipeline{
		cfg:          cfg,
		diar:         diar,
		store:        st,
		hub:          hub,
		log:          log,
		openProvider: provider.Open,
	}
}

// Submit starts a processing run in the background and returns
// immediately. Runs are independent: nothing here serializes one recording
// behind another, and a started run cannot be cancelled.
func (p *Pipeline) Submit(audioPath string) {
	go func() {
		if _, err := p.Process(context.Background(), audioPath); err != nil {
			p.log.WithError(err).WithField("path", audioPath).Error("processing failed")
		}
	}()
}

// Process runs the full pipeline for one recording and persists the
// finalized record. The returned record is always populated with whatever
// partial results were produced, even when err is non-nil.
func (p *Pipeline) Process(ctx context.Context, audioPath string) (*Record, error) {
	// Settings are pinned here; edits made while the run is in flight
	// apply to the next run only.
	snap := p.cfg.Snapshot()

	rec := &Record{AudioPath: audioPath, CreatedAt: time.Now().UTC()}
	if id, err := b3.HashFile(audioPath); err == nil {
		rec.ID = id
	} else {
		return rec, fmt.Errorf("hash recording: %w", err)
	}
	log := p.log.WithField("recording", short(rec.ID))

	p.publish(rec, StagePending, nil)

	// Transcription: the one stage that can kill the run.
	p.publish(rec, StageTranscribing, nil)
	raw, language, err := p.transcribe(ctx, &snap, audioPath, rec)
	if err != nil {
		return p.fail(ctx, rec, err)
	}
	rec.Language = language

	segs := transcript.Synthesize(raw, language)
	if len(segs) == 0 {
		return p.fail(ctx, rec, ErrNoSpeech)
	}
	flat := transcript.Join(segs)

	var notes []string

	// Diarization is an optional enhancement: any failure is swallowed
	// and the run continues without speaker attribution.
	var speakers []string
	if snap.Diarization.Enabled && p.diar != nil {
		p.publish(rec, StageDiarizing, nil)
		intervals, labels, derr := p.diar.Run(ctx, audioPath)
		if derr != nil {
			log.WithError(derr).Warn("diarization failed, continuing without speakers")
		} else if len(intervals) > 0 {
			segs = transcript.Merge(segs, intervals, flat)
			flat = transcript.Join(segs)
			speakers = labels
			rec.SpeakerNames = identityNames(labels)
		}
	}
	rec.Segments = segs
	rec.Transcript = flat

	// Summarization never fails: provider errors cascade into the
	// deterministic extractive summarizer.
	p.publish(rec, StageSummarizing, nil)
	res := p.summarize(ctx, &snap, flat, speakers, &notes, log)
	rec.SummaryMarkdown = res.Markdown
	rec.Title = res.Title
	rec.Category = res.Category
	rec.Tags = res.Tags

	rec.IsProcessed = true
	rec.ErrorMessage = strings.Join(notes, "; ")
	p.persist(ctx, rec, log)
	p.publish(rec, StageFinalized, nil)
	return rec, nil
}

func (p *Pipeline) transcribe(ctx context.Context, snap *config.Config, audioPath string, rec *Record) (string, string, error) {
	id := snap.Transcription.Provider
	prov, err := p.openProvider(id, settingsFor(snap, id))
	if err != nil {
		return "", "", fmt.Errorf("open transcription provider %s: %w", id, err)
	}

	rec.DurationSec = probeDuration(audioPath)
	tr, err := prov.Transcribe(ctx, audioPath, rec.DurationSec)
	if err != nil {
		return "", "", fmt.Errorf("transcribe: %w", err)
	}
	if strings.TrimSpace(tr.Text) == "" {
		return "", "", ErrNoSpeech
	}
	return tr.Text, tr.Language, nil
}

func (p *Pipeline) summarize(ctx context.Context, snap *config.Config, flat string, speakers []string, notes *[]string, log *logrus.Entry) summarize.Result {
	var completer summarize.Completer
	id := snap.Summarization.Provider
	if id != "" {
		prov, err := p.openProvider(id, settingsFor(snap, id))
		if err != nil {
			log.WithError(err).Warn("summarization provider unavailable")
			*notes = append(*notes, fmt.Sprintf("summarization provider %s unavailable", id))
		} else {
			completer = prov
		}
	}

	res := summarize.NewOrchestrator(completer, log).Summarize(ctx, flat, speakers)
	if res.Fallback && completer != nil {
		*notes = append(*notes, "summary produced by extractive fallback")
	}
	return res
}

// fail finalizes a record for a fatal stage error. The record still
// persists, marked processed, with the failure surfaced as its error
// message rather than as data loss.
func (p *Pipeline) fail(ctx context.Context, rec *Record, err error) (*Record, error) {
	rec.IsProcessed = true
	rec.ErrorMessage = err.Error()
	p.persist(ctx, rec, p.log)
	p.publish(rec, StageFailed, err)
	return rec, err
}

func (p *Pipeline) persist(ctx context.Context, rec *Record, log *logrus.Entry) {
	if p.store != nil {
		if err := p.store.Save(ctx, rec); err != nil {
			log.WithError(err).Error("persist record")
		}
	}
	if p.cfg.Paths.Outputs != "" {
		if _, err := writeBundle(p.cfg.Paths.Outputs, rec); err != nil {
			log.WithError(err).Warn("write output bundle")
		}
	}
}

func (p *Pipeline) publish(rec *Record, stage string, err error) {
	if p.hub == nil {
		return
	}
	ev := notify.Event{RecordingID: rec.ID, Stage: stage}
	if err != nil {
		ev.Error = err.Error()
	}
	p.hub.Publish(ev)
}

func settingsFor(snap *config.Config, id string) provider.Settings {
	pc := snap.ProviderFor(id)
	return provider.Settings{
		BaseURL:        pc.BaseURL,
		APIKey:         pc.APIKey,
		Model:          pc.Model,
		ConnectTimeout: snap.Timeouts.Connect(),
		ReceiveTimeout: snap.Timeouts.Receive(),
	}
}

// probeDuration is best effort: only plain WAV input reports a duration.
func probeDuration(path string) float64 {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	audio, err := diarize.DecodeWAV(f)
	if err != nil {
		return 0
	}
	return audio.Duration()
}

// identityNames seeds the label -> display-name map; users rename speakers
// later through the persistence collaborator.
func identityNames(labels []string) map[string]string {
	m := make(map[string]string, len(labels))
	for _, l := range labels {
		m[l] = l
	}
	return m
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
