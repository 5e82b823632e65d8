package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Bundle is the on-disk debugging artifact written next to every run; the
// authoritative copy of the record lives with the persistence collaborator.
type Bundle struct {
	SessionID   string    `json:"session_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Record      *Record   `json:"record"`
}

func mkSessionDir(outputsRoot, recordingID string) (string, string, error) {
	ts := time.Now().Format("20060102-150405")
	sid := fmt.Sprintf("run_%s_%s", ts, short(recordingID))
	dir := filepath.Join(outputsRoot, sid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	return sid, dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeBundle(outputsRoot string, rec *Record) (string, error) {
	sid, dir, err := mkSessionDir(outputsRoot, rec.ID)
	if err != nil {
		return "", err
	}

	bundle := Bundle{SessionID: sid, GeneratedAt: time.Now().UTC(), Record: rec}
	if err := writeJSON(filepath.Join(dir, "record.json"), bundle); err != nil {
		return "", err
	}
	if rec.SummaryMarkdown != "" {
		if err := os.WriteFile(filepath.Join(dir, "summary.md"), []byte(rec.SummaryMarkdown), 0o644); err != nil {
			return "", err
		}
	}
	return dir, nil
}
