package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

func init() {
	Register("openai", func(s Settings) (Provider, error) {
		if s.APIKey == "" {
			return nil, errors.New("openai: api key not configured")
		}
		if s.BaseURL == "" {
			s.BaseURL = "https://api.openai.com/v1"
		}
		if s.Model == "" {
			s.Model = "gpt-4o-mini"
		}
		return &openAI{settings: s, client: s.httpClient()}, nil
	})
}

// openAI talks to the OpenAI REST surface; any OpenAI-compatible gateway
// works through the base URL override.
type openAI struct {
	settings Settings
	client   *http.Client
}

func (o *openAI) ID() string { return "openai" }

func (o *openAI) Models() []string {
	return []string{"gpt-4o-mini", "gpt-4o", "whisper-1"}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *openAI) Complete(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model:    o.settings.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.settings.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.settings.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("openai chat %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openai chat decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openai chat: empty choices")
	}
	return out.Choices[0].Message.Content, nil
}

type openAITranscription struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (o *openAI) Transcribe(ctx context.Context, audioPath string, durationSec float64) (Transcription, error) {
	fd, err := os.Open(audioPath)
	if err != nil {
		return Transcription{}, fmt.Errorf("open %s: %w", audioPath, err)
	}
	defer fd.Close()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	if err := w.WriteField("model", "whisper-1"); err != nil {
		return Transcription{}, err
	}
	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return Transcription{}, err
	}
	if _, err = io.Copy(fw, fd); err != nil {
		return Transcription{}, fmt.Errorf("copy audio: %w", err)
	}
	if err = w.Close(); err != nil {
		return Transcription{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.settings.BaseURL+"/audio/transcriptions", &b)
	if err != nil {
		return Transcription{}, err
	}
	req.Header.Set("Authorization", "Bearer "+o.settings.APIKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return Transcription{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Transcription{}, fmt.Errorf("openai transcribe %s: %s",
			resp.Status, strings.TrimSpace(string(body)))
	}

	var out openAITranscription
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Transcription{}, fmt.Errorf("openai transcribe decode: %w", err)
	}
	// Plain text only: no timings here, the synthesizer degrades to a
	// sentence split downstream.
	return Transcription{Text: out.Text, Language: out.Language}, nil
}

func (o *openAI) TestConnection(ctx context.Context) (bool, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.settings.BaseURL+"/models", nil)
	if err != nil {
		return false, err.Error()
	}
	req.Header.Set("Authorization", "Bearer "+o.settings.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return false, err.Error()
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Sprintf("openai: %s", resp.Status)
	}
	return true, "ok"
}
