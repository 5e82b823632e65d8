package diarize

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeEngine struct {
	turns []Turn
	err   error
}

func (f *fakeEngine) Cluster(ctx context.Context, samples []float32, rate int) ([]Turn, error) {
	return f.turns, f.err
}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("test", true)
}

func writeTestWAV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rec.wav")
	if err := os.WriteFile(path, wav16(1, 16000, 0, 100, -100, 200), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAdapterLabelsClustersInDiscoveryOrder(t *testing.T) {
	eng := &fakeEngine{turns: []Turn{
		{Start: 0, End: 2, Cluster: 1},
		{Start: 2, End: 5, Cluster: 0},
		{Start: 5, End: 6, Cluster: 1},
	}}
	a := NewAdapter(func(ctx context.Context) (Engine, error) { return eng, nil }, testLog())

	intervals, labels, err := a.Run(context.Background(), writeTestWAV(t))
	if err != nil {
		t.Fatal(err)
	}

	want := []Interval{
		{Start: 0, End: 2, Speaker: "Speaker 2"},
		{Start: 2, End: 5, Speaker: "Speaker 1"},
		{Start: 5, End: 6, Speaker: "Speaker 2"},
	}
	if !reflect.DeepEqual(intervals, want) {
		t.Errorf("intervals = %+v, want %+v", intervals, want)
	}
	if !reflect.DeepEqual(labels, []string{"Speaker 1", "Speaker 2"}) {
		t.Errorf("labels = %v", labels)
	}
}

func TestAdapterMemoizesEngine(t *testing.T) {
	loads := 0
	loader := func(ctx context.Context) (Engine, error) {
		loads++
		return &fakeEngine{}, nil
	}
	a := NewAdapter(loader, testLog())
	path := writeTestWAV(t)

	for i := 0; i < 3; i++ {
		if _, _, err := a.Run(context.Background(), path); err != nil {
			t.Fatal(err)
		}
	}
	if loads != 1 {
		t.Errorf("engine loaded %d times, want 1", loads)
	}
}

func TestAdapterEngineErrorSurfaces(t *testing.T) {
	boom := errors.New("gpu on fire")
	a := NewAdapter(func(ctx context.Context) (Engine, error) {
		return &fakeEngine{err: boom}, nil
	}, testLog())

	_, _, err := a.Run(context.Background(), writeTestWAV(t))
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped engine error", err)
	}
}

func TestAdapterFallbackReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.opus")
	if err := os.WriteFile(path, []byte("not a wav at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	called := false
	a := NewAdapter(func(ctx context.Context) (Engine, error) {
		return &fakeEngine{turns: []Turn{{Start: 0, End: 1, Cluster: 0}}}, nil
	}, testLog()).WithFallbackReader(func(p string) (*Audio, error) {
		called = true
		return &Audio{Samples: []float32{0}, SampleRate: 16000}, nil
	})

	intervals, _, err := a.Run(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("fallback reader never consulted")
	}
	if len(intervals) != 1 || intervals[0].Speaker != "Speaker 1" {
		t.Errorf("intervals = %+v", intervals)
	}
}

func TestAdapterNoFallbackFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.bin")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := NewAdapter(func(ctx context.Context) (Engine, error) {
		return &fakeEngine{}, nil
	}, testLog())

	if _, _, err := a.Run(context.Background(), path); err == nil {
		t.Error("want decode error")
	}
}

func TestLabel(t *testing.T) {
	if Label(0) != "Speaker 1" || Label(4) != "Speaker 5" {
		t.Errorf("Label mapping broken: %q %q", Label(0), Label(4))
	}
}
