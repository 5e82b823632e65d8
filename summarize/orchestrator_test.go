package summarize

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeCompleter struct {
	answer string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("test", true)
}

func TestOrchestratorHappyPath(t *testing.T) {
	fc := &fakeCompleter{answer: validJSON}
	res := NewOrchestrator(fc, testLog()).Summarize(context.Background(), "Hello there.", []string{"Speaker 1"})

	if res.Fallback {
		t.Fatal("unexpected fallback")
	}
	if res.Title != "Standup" || res.Category != "meeting" {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(res.Markdown, "## Overview") {
		t.Errorf("markdown missing skeleton:\n%s", res.Markdown)
	}
	if !strings.Contains(fc.prompt, "Speaker 1") {
		t.Error("prompt missing participant preamble")
	}
	if !strings.Contains(fc.prompt, `"detailedSummary"`) {
		t.Error("prompt missing schema")
	}
}

func TestOrchestratorFallsBackOnError(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("429 too many requests")}
	res := NewOrchestrator(fc, testLog()).Summarize(context.Background(),
		"Hello there. This is important. Thanks bye.", nil)

	if !res.Fallback {
		t.Fatal("expected extractive fallback")
	}
	if res.Markdown == "" || res.Title == "" {
		t.Errorf("fallback result incomplete: %+v", res)
	}
}

func TestOrchestratorFallsBackOnShortAnswer(t *testing.T) {
	fc := &fakeCompleter{answer: "{}"}
	res := NewOrchestrator(fc, testLog()).Summarize(context.Background(),
		"Hello there. This is important.", nil)
	if !res.Fallback {
		t.Fatal("a near-empty answer must trigger the fallback")
	}
}

func TestOrchestratorNilCompleter(t *testing.T) {
	res := NewOrchestrator(nil, testLog()).Summarize(context.Background(), "Hello there.", nil)
	if !res.Fallback {
		t.Fatal("expected fallback with no provider")
	}
	if !strings.Contains(res.Markdown, "## Detailed Summary") {
		t.Errorf("markdown skeleton missing:\n%s", res.Markdown)
	}
}

func TestBuildPromptWithoutSpeakers(t *testing.T) {
	p := BuildPrompt("text", nil)
	if strings.Contains(p, "participants:") {
		t.Error("no preamble expected without speakers")
	}
	if !strings.Contains(p, "ONLY a single JSON object") {
		t.Error("prompt must demand bare JSON")
	}
}
