package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

func init() {
	Register("whisperd", func(s Settings) (Provider, error) {
		if s.BaseURL == "" {
			s.BaseURL = "http://localhost:9090"
		}
		return &whisperd{settings: s, client: s.httpClient()}, nil
	})
}

// whisperd is a self-hosted ASR microservice: multipart upload to
// /transcribe, timed segments back. Transcription only.
type whisperd struct {
	settings Settings
	client   *http.Client
}

func (d *whisperd) ID() string { return "whisperd" }

func (d *whisperd) Models() []string {
	return []string{"base", "small", "medium", "large-v3"}
}

type whisperdSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type whisperdResponse struct {
	Segments []whisperdSegment `json:"segments"`
	Language string            `json:"language"`
}

func (d *whisperd) Transcribe(ctx context.Context, audioPath string, durationSec float64) (Transcription, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return Transcription{}, err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return Transcription{}, fmt.Errorf("open %s: %w", audioPath, err)
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return Transcription{}, fmt.Errorf("copy audio: %w", err)
	}
	if d.settings.Model != "" {
		if err := w.WriteField("model", d.settings.Model); err != nil {
			return Transcription{}, err
		}
	}
	if err = w.Close(); err != nil {
		return Transcription{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.settings.BaseURL+"/transcribe", &b)
	if err != nil {
		return Transcription{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return Transcription{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Transcription{}, fmt.Errorf("whisperd %s: %s",
			resp.Status, strings.TrimSpace(string(body)))
	}

	var out whisperdResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Transcription{}, fmt.Errorf("whisperd decode: %w", err)
	}
	return Transcription{Text: annotate(out.Segments), Language: out.Language}, nil
}

// annotate renders timed segments back into the inline bracket form the
// segment synthesizer parses, preserving the timings across the provider
// boundary.
func annotate(segs []whisperdSegment) string {
	var b strings.Builder
	for _, s := range segs {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "[%s --> %s] %s\n", stamp(s.Start), stamp(s.End), text)
	}
	return b.String()
}

func stamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	ms := int64(sec*1000 + 0.5)
	h := ms / 3600000
	m := ms % 3600000 / 60000
	s := ms % 60000 / 1000
	frac := ms % 1000
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, frac)
	}
	return fmt.Sprintf("%02d:%02d.%03d", m, s, frac)
}

func (d *whisperd) Complete(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("whisperd complete: %w", ErrUnsupported)
}

func (d *whisperd) TestConnection(ctx context.Context) (bool, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.settings.BaseURL+"/health", nil)
	if err != nil {
		return false, err.Error()
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return false, err.Error()
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Sprintf("whisperd: %s", resp.Status)
	}
	return true, "ok"
}
