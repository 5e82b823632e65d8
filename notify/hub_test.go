package notify

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("test", true)
}

func TestSubscribeReceivesPublished(t *testing.T) {
	h := NewHub(testLog())
	ch := h.Subscribe()

	h.Publish(Event{RecordingID: "abc", Stage: "finalized"})

	select {
	case ev := <-ch:
		if ev.RecordingID != "abc" || ev.Stage != "finalized" {
			t.Errorf("event = %+v", ev)
		}
		if ev.At.IsZero() {
			t.Error("timestamp not stamped")
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

// A full subscriber buffer must never block the pipeline.
func TestPublishNeverBlocks(t *testing.T) {
	h := NewHub(testLog())
	h.Subscribe() // nobody drains it

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Publish(Event{RecordingID: "x", Stage: "transcribing"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}
