package diarize

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

// HTTPEngine talks to a speaker-clustering microservice: raw mono PCM in,
// cluster-attributed turns out. The service discovers the speaker count
// itself.
type HTTPEngine struct {
	baseURL string
	client  *http.Client
}

// NewHTTPEngineLoader returns a loader for the adapter. Construction is
// where a self-hosted service would pull model weights, so it pings the
// service once up front and the adapter memoizes the handle.
func NewHTTPEngineLoader(baseURL string, timeout time.Duration) EngineLoader {
	return func(ctx context.Context) (Engine, error) {
		eng := &HTTPEngine{
			baseURL: strings.TrimRight(baseURL, "/"),
			client:  &http.Client{Timeout: timeout},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, eng.baseURL+"/health", nil)
		if err != nil {
			return nil, err
		}
		resp, err := eng.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("diarization engine unreachable: %w", err)
		}
		resp.Body.Close()
		return eng, nil
	}
}

type clusterResponse struct {
	Turns []struct {
		Start   float64 `json:"start"`
		End     float64 `json:"end"`
		Cluster int     `json:"cluster"`
	} `json:"turns"`
	NumSpeakers int `json:"num_speakers"`
}

// Cluster ships the samples as little-endian float32 and decodes the
// attributed turns.
func (e *HTTPEngine) Cluster(ctx context.Context, samples []float32, sampleRate int) ([]Turn, error) {
	body := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(body[i*4:], math.Float32bits(s))
	}

	url := fmt.Sprintf("%s/cluster?rate=%d", e.baseURL, sampleRate)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("cluster %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var out clusterResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("cluster decode: %w", err)
	}

	turns := make([]Turn, 0, len(out.Turns))
	for _, t := range out.Turns {
		turns = append(turns, Turn{Start: t.Start, End: t.End, Cluster: t.Cluster})
	}
	return turns, nil
}
