package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"time"
)

var (
	// ErrUnsupported marks an operation a backend simply does not offer,
	// e.g. summarization on a transcription-only service.
	ErrUnsupported = errors.New("operation not supported by provider")

	// ErrUnavailable marks a backend whose runtime is not present on this
	// machine.
	ErrUnavailable = errors.New("provider capability unavailable")

	ErrUnknown = errors.New("unknown provider")
)

// Transcription is the raw output of a speech-to-text backend. Text may
// carry inline "[mm:ss.mmm --> mm:ss.mmm]" markers when the backend emits
// timings; the segment synthesizer downstream understands both forms.
type Transcription struct {
	Text     string
	Language string
}

// Provider is one summarization/transcription backend. The pipeline only
// ever talks to this interface, never to a concrete vendor.
type Provider interface {
	ID() string
	Models() []string

	Transcribe(ctx context.Context, audioPath string, durationSec float64) (Transcription, error)

	// Complete sends a prompt to the backing model and returns its raw
	// text answer. Summarization goes through this.
	Complete(ctx context.Context, prompt string) (string, error)

	TestConnection(ctx context.Context) (bool, string)
}

// Settings carries the per-provider configuration snapshot.
type Settings struct {
	BaseURL        string
	APIKey         string
	Model          string
	ConnectTimeout time.Duration
	ReceiveTimeout time.Duration
}

// Defaults per the resource model: generous receive window for slow
// on-premise backends, but a bounded connect.
const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultReceiveTimeout = 10 * time.Minute
)

func (s Settings) httpClient() *http.Client {
	connect := s.ConnectTimeout
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	receive := s.ReceiveTimeout
	if receive <= 0 {
		receive = DefaultReceiveTimeout
	}
	return &http.Client{
		Timeout: receive,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: connect}).DialContext,
		},
	}
}

// Factory builds a provider from settings.
type Factory func(Settings) (Provider, error)

var registry = map[string]Factory{}

// Register adds a provider factory; called from each vendor's init.
func Register(id string, f Factory) {
	registry[id] = f
}

// Open instantiates the provider with the given id.
func Open(id string, s Settings) (Provider, error) {
	f, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, id)
	}
	return f(s)
}

// IDs lists the registered provider ids, sorted.
func IDs() []string {
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
