package notify

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event is the only thing UI collaborators ever see from the pipeline:
// lifecycle signals, no payloads.
type Event struct {
	RecordingID string    `json:"recording_id"`
	Stage       string    `json:"stage"`
	Error       string    `json:"error,omitempty"`
	At          time.Time `json:"at"`
}

// Hub fans lifecycle events out to attached WebSocket connections and
// in-process subscribers. Construct one per process and pass the handle
// around; there is no global hub.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
	subs  []chan Event
	log   *logrus.Entry
}

func NewHub(log *logrus.Entry) *Hub {
	return &Hub{conns: make(map[*websocket.Conn]bool), log: log}
}

// Publish delivers the event to every listener. Slow in-process
// subscribers are skipped rather than blocking the pipeline.
func (h *Hub) Publish(ev Event) {
	ev.At = time.Now().UTC()

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(ev); err != nil {
			h.log.WithError(err).Debug("notify: dropping websocket client")
			conn.Close()
			delete(h.conns, conn)
		}
	}
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Attach registers a WebSocket connection for event delivery. The hub owns
// closing it once writes fail.
func (h *Hub) Attach(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()
}

// Subscribe returns a buffered in-process event channel.
func (h *Hub) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.subs = append(h.subs, ch)
	h.mu.Unlock()
	return ch
}
