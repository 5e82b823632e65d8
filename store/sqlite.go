package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/recapkit/recapkit/orchestrator"
	"github.com/recapkit/recapkit/transcript"
)

const schema = `
create table if not exists recordings (
	id               text primary key,
	audio_path       text not null,
	transcript       text not null default '',
	summary_markdown text not null default '',
	title            text not null default '',
	category         text not null default '',
	tags             text not null default '[]',
	segments         text not null default '[]',
	speaker_names    text not null default '{}',
	language         text not null default '',
	duration_sec     real not null default 0,
	is_processed     integer not null default 0,
	error_message    text not null default '',
	created_at       timestamp not null
);
`

// SQLiteStore is the persistence collaborator. Structured sub-objects are
// stored as JSON text columns; the schema is an implementation detail the
// pipeline never sees.
type SQLiteStore struct {
	db *sql.DB
}

var _ orchestrator.Store = (*SQLiteStore)(nil)

func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Save upserts the finalized record. Re-processing the same audio replaces
// the previous run's row under the same content hash.
func (s *SQLiteStore) Save(ctx context.Context, rec *orchestrator.Record) error {
	tags, err := json.Marshal(orEmpty(rec.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	segments, err := json.Marshal(orEmptySegs(rec.Segments))
	if err != nil {
		return fmt.Errorf("encode segments: %w", err)
	}
	names, err := json.Marshal(orEmptyMap(rec.SpeakerNames))
	if err != nil {
		return fmt.Errorf("encode speaker names: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		insert into recordings (
			id, audio_path, transcript, summary_markdown, title, category,
			tags, segments, speaker_names, language, duration_sec,
			is_processed, error_message, created_at
		) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		on conflict (id) do update set
			audio_path = excluded.audio_path,
			transcript = excluded.transcript,
			summary_markdown = excluded.summary_markdown,
			title = excluded.title,
			category = excluded.category,
			tags = excluded.tags,
			segments = excluded.segments,
			speaker_names = excluded.speaker_names,
			language = excluded.language,
			duration_sec = excluded.duration_sec,
			is_processed = excluded.is_processed,
			error_message = excluded.error_message,
			created_at = excluded.created_at`,
		rec.ID, rec.AudioPath, rec.Transcript, rec.SummaryMarkdown,
		rec.Title, rec.Category, string(tags), string(segments), string(names),
		rec.Language, rec.DurationSec, boolInt(rec.IsProcessed),
		rec.ErrorMessage, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("persisting recording into sqlite: %w", err)
	}
	return nil
}

// Get loads one record by content hash.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*orchestrator.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, audio_path, transcript, summary_markdown, title, category,
		       tags, segments, speaker_names, language, duration_sec,
		       is_processed, error_message, created_at
		from recordings where id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("get recording %s: %w", id, err)
	}
	return rec, nil
}

// List returns all records, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]*orchestrator.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, audio_path, transcript, summary_markdown, title, category,
		       tags, segments, speaker_names, language, duration_sec,
		       is_processed, error_message, created_at
		from recordings order by created_at desc`)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	var out []*orchestrator.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list recordings: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RenameSpeaker updates the display name for one diarization label.
func (s *SQLiteStore) RenameSpeaker(ctx context.Context, id, label, name string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec.SpeakerNames == nil {
		rec.SpeakerNames = map[string]string{}
	}
	rec.SpeakerNames[label] = name

	names, err := json.Marshal(rec.SpeakerNames)
	if err != nil {
		return fmt.Errorf("encode speaker names: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"update recordings set speaker_names = $1 where id = $2", string(names), id)
	if err != nil {
		return fmt.Errorf("rename speaker: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*orchestrator.Record, error) {
	var (
		rec         orchestrator.Record
		tags        string
		segments    string
		names       string
		isProcessed int
	)
	err := row.Scan(&rec.ID, &rec.AudioPath, &rec.Transcript, &rec.SummaryMarkdown,
		&rec.Title, &rec.Category, &tags, &segments, &names, &rec.Language,
		&rec.DurationSec, &isProcessed, &rec.ErrorMessage, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(segments), &rec.Segments); err != nil {
		return nil, fmt.Errorf("decode segments: %w", err)
	}
	if err := json.Unmarshal([]byte(names), &rec.SpeakerNames); err != nil {
		return nil, fmt.Errorf("decode speaker names: %w", err)
	}
	rec.IsProcessed = isProcessed == 1
	return &rec, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptySegs(s []transcript.Segment) []transcript.Segment {
	if s == nil {
		return []transcript.Segment{}
	}
	return s
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
