package provider

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRegistryKnowsAllBackends(t *testing.T) {
	want := []string{"ollama", "ondevice", "openai", "whisperd"}
	if got := IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestOpenUnknownProvider(t *testing.T) {
	_, err := Open("clippy", Settings{})
	if !errors.Is(err, ErrUnknown) {
		t.Errorf("err = %v, want ErrUnknown", err)
	}
}

func TestOpenOpenAIRequiresKey(t *testing.T) {
	if _, err := Open("openai", Settings{}); err == nil {
		t.Error("openai without key must fail to open")
	}
	if _, err := Open("openai", Settings{APIKey: "sk-x"}); err != nil {
		t.Errorf("openai with key: %v", err)
	}
}

func TestCapabilityTable(t *testing.T) {
	caps, err := Capabilities()
	if err != nil {
		t.Fatal(err)
	}
	byID := map[string]Capability{}
	for _, c := range caps {
		byID[c.ID] = c
	}
	for _, id := range IDs() {
		if _, ok := byID[id]; !ok {
			t.Errorf("capability table missing registered provider %q", id)
		}
	}
	if !byID["openai"].RequiresKey {
		t.Error("openai must require a key")
	}
	if byID["ollama"].RequiresKey {
		t.Error("ollama must not require a key")
	}
}

func TestOnDeviceIsUnavailable(t *testing.T) {
	p, err := Open("ondevice", Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Complete(context.Background(), "hi"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Complete err = %v, want ErrUnavailable", err)
	}
	if _, err := p.Transcribe(context.Background(), "x.wav", 0); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Transcribe err = %v, want ErrUnavailable", err)
	}
	if ok, _ := p.TestConnection(context.Background()); ok {
		t.Error("ondevice must report unavailable")
	}
}

func TestWhisperdDoesNotSummarize(t *testing.T) {
	p, err := Open("whisperd", Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Complete(context.Background(), "hi"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestAnnotatePreservesTimings(t *testing.T) {
	got := annotate([]whisperdSegment{
		{Start: 0, End: 1.5, Text: " Hello there. "},
		{Start: 3661.25, End: 3662, Text: "Deep in."},
		{Start: 5, End: 6, Text: "   "},
	})
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (blank segment dropped):\n%s", len(lines), got)
	}
	if lines[0] != "[00:00.000 --> 00:01.500] Hello there." {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "[01:01:01.250 --> 01:01:02.000] Deep in." {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestStampRounding(t *testing.T) {
	if s := stamp(59.9996); s != "01:00.000" {
		t.Errorf("stamp(59.9996) = %q", s)
	}
	if s := stamp(-1); s != "00:00.000" {
		t.Errorf("stamp(-1) = %q", s)
	}
}

func TestSettingsTimeoutsDefault(t *testing.T) {
	c := Settings{}.httpClient()
	if c.Timeout != DefaultReceiveTimeout {
		t.Errorf("receive timeout = %v", c.Timeout)
	}
}
