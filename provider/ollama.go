package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

func init() {
	Register("ollama", func(s Settings) (Provider, error) {
		if s.BaseURL == "" {
			s.BaseURL = "http://localhost:11434"
		}
		if s.Model == "" {
			s.Model = "llama3.1"
		}
		return &ollama{settings: s, client: s.httpClient()}, nil
	})
}

// ollama drives a local inference server. No key, and the receive timeout
// matters: CPU-bound generations on long transcripts routinely take
// minutes.
type ollama struct {
	settings Settings
	client   *http.Client
}

func (o *ollama) ID() string { return "ollama" }

func (o *ollama) Models() []string {
	return []string{"llama3.1", "mistral", "qwen2.5"}
}

type ollamaGenerate struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (o *ollama) Complete(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(ollamaGenerate{Model: o.settings.Model, Prompt: prompt})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.settings.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ollama decode: %w", err)
	}
	return out.Response, nil
}

func (o *ollama) Transcribe(ctx context.Context, audioPath string, durationSec float64) (Transcription, error) {
	return Transcription{}, fmt.Errorf("ollama transcribe: %w", ErrUnsupported)
}

func (o *ollama) TestConnection(ctx context.Context) (bool, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.settings.BaseURL+"/api/tags", nil)
	if err != nil {
		return false, err.Error()
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return false, err.Error()
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Sprintf("ollama: %s", resp.Status)
	}
	return true, "ok"
}
