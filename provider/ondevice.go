package provider

import (
	"context"
	"fmt"
)

func init() {
	Register("ondevice", func(s Settings) (Provider, error) {
		return &onDevice{}, nil
	})
}

// onDevice is the placeholder for a local-inference backend whose runtime
// never shipped. Detection reports the capability as unavailable and every
// operation fails the same way; this path is knowingly non-functional
// rather than dynamically probing for an SDK.
type onDevice struct{}

// DetectOnDevice reports whether the on-device runtime is present. It is
// not: there is no runtime to load.
func DetectOnDevice() (bool, string) {
	return false, "on-device inference runtime is not available"
}

func (onDevice) ID() string { return "ondevice" }

func (onDevice) Models() []string { return nil }

func (onDevice) Transcribe(ctx context.Context, audioPath string, durationSec float64) (Transcription, error) {
	return Transcription{}, fmt.Errorf("ondevice transcribe: %w", ErrUnavailable)
}

func (onDevice) Complete(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("ondevice complete: %w", ErrUnavailable)
}

func (onDevice) TestConnection(ctx context.Context) (bool, string) {
	ok, msg := DetectOnDevice()
	return ok, msg
}
