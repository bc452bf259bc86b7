package vocab

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Phrase is one saved lookup.
type Phrase struct {
	ID             int64
	VideoID        string
	Text           string
	Words          []string
	SourceLanguage string
	TargetLanguage string
	Result         map[string]any
	CreatedAt      time.Time
}

// Store manages phrase persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// ErrNotFound indicates the requested phrase does not exist.
var ErrNotFound = errors.New("phrase not found")

// Open initializes or connects to the vocabulary database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("vocab path must be set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure vocab directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Save upserts a phrase. Re-analyzing the same text in the same video
// refreshes the stored result instead of duplicating the row.
func (s *Store) Save(ctx context.Context, p Phrase) (int64, error) {
	if strings.TrimSpace(p.Text) == "" {
		return 0, errors.New("phrase text must be set")
	}
	words, err := json.Marshal(p.Words)
	if err != nil {
		return 0, fmt.Errorf("encode words: %w", err)
	}
	result := []byte("{}")
	if p.Result != nil {
		result, err = json.Marshal(p.Result)
		if err != nil {
			return 0, fmt.Errorf("encode result: %w", err)
		}
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO phrases (video_id, text, words, source_language, target_language, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (video_id, text) DO UPDATE SET
			words = excluded.words,
			source_language = excluded.source_language,
			target_language = excluded.target_language,
			result = excluded.result,
			created_at = excluded.created_at`,
		p.VideoID, p.Text, string(words), p.SourceLanguage, p.TargetLanguage, string(result),
		createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("save phrase: %w", err)
	}

	// last_insert_rowid is unreliable across the upsert's update arm.
	var id int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT id FROM phrases WHERE video_id = ? AND text = ?", p.VideoID, p.Text).Scan(&id); err != nil {
		return 0, fmt.Errorf("phrase id: %w", err)
	}
	return id, nil
}

// List returns saved phrases newest first. A limit of 0 returns everything;
// a non-empty videoID restricts to one video.
func (s *Store) List(ctx context.Context, videoID string, limit int) ([]Phrase, error) {
	query := "SELECT id, video_id, text, words, source_language, target_language, result, created_at FROM phrases"
	var args []any
	if videoID != "" {
		query += " WHERE video_id = ?"
		args = append(args, videoID)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list phrases: %w", err)
	}
	defer rows.Close()

	var phrases []Phrase
	for rows.Next() {
		p, err := scanPhrase(rows)
		if err != nil {
			return nil, err
		}
		phrases = append(phrases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phrases: %w", err)
	}
	return phrases, nil
}

// Get returns one phrase by id.
func (s *Store) Get(ctx context.Context, id int64) (Phrase, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, video_id, text, words, source_language, target_language, result, created_at FROM phrases WHERE id = ?", id)
	p, err := scanPhrase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Phrase{}, ErrNotFound
	}
	return p, err
}

// Delete removes one phrase by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM phrases WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete phrase: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete phrase: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of saved phrases.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM phrases").Scan(&n); err != nil {
		return 0, fmt.Errorf("count phrases: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhrase(row rowScanner) (Phrase, error) {
	var (
		p         Phrase
		words     string
		result    string
		createdAt string
	)
	if err := row.Scan(&p.ID, &p.VideoID, &p.Text, &words, &p.SourceLanguage, &p.TargetLanguage, &result, &createdAt); err != nil {
		return Phrase{}, err
	}
	if err := json.Unmarshal([]byte(words), &p.Words); err != nil {
		return Phrase{}, fmt.Errorf("decode words for phrase %d: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(result), &p.Result); err != nil {
		return Phrase{}, fmt.Errorf("decode result for phrase %d: %w", p.ID, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Phrase{}, fmt.Errorf("parse created_at for phrase %d: %w", p.ID, err)
	}
	p.CreatedAt = ts
	return p, nil
}
