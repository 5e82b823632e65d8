package summarize

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// Completer is the one capability the orchestrator needs from a provider:
// turn a prompt into raw model text. Networked and local providers both fit
// behind it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// minAnswerLen guards against providers that "succeed" with an empty or
// truncated answer; anything shorter falls through to the extractive path.
const minAnswerLen = 50

// Orchestrator builds the canonical prompt, dispatches it to the configured
// provider and degrades to the deterministic extractive summarizer when the
// provider fails. It never returns an error: some summary always comes back.
type Orchestrator struct {
	completer Completer
	log       *logrus.Entry
}

func NewOrchestrator(c Completer, log *logrus.Entry) *Orchestrator {
	return &Orchestrator{completer: c, log: log}
}

// Summarize runs the cascade for one transcript.
func (o *Orchestrator) Summarize(ctx context.Context, transcriptText string, speakers []string) Result {
	if o.completer == nil {
		o.log.Info("summarize: no provider configured, using extractive summarizer")
		return o.extractive(transcriptText)
	}

	raw, err := o.completer.Complete(ctx, BuildPrompt(transcriptText, speakers))
	if err != nil {
		o.log.WithError(err).Warn("summarize: provider failed, falling back")
		return o.extractive(transcriptText)
	}
	if len(strings.TrimSpace(raw)) < minAnswerLen {
		o.log.WithField("len", len(raw)).Warn("summarize: answer too short, falling back")
		return o.extractive(transcriptText)
	}

	summary, tier := ParseStructured(raw)
	if tier != TierDirect {
		o.log.WithField("tier", tier).Info("summarize: structured response needed recovery")
	}
	return o.finish(summary, false)
}

func (o *Orchestrator) extractive(transcriptText string) Result {
	return o.finish(Extract(transcriptText), true)
}

func (o *Orchestrator) finish(s StructuredSummary, fallback bool) Result {
	return Result{
		Summary:  s,
		Markdown: RenderMarkdown(s),
		Title:    s.Title,
		Category: s.Category,
		Tags:     s.Tags,
		Fallback: fallback,
	}
}
