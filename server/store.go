package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/chatlytics/chatlytics/engine"
)

// ErrNotFound is returned for unknown and expired report IDs alike, so a
// caller cannot distinguish the two.
var ErrNotFound = errors.New("report not found")

// DefaultRetention is how long a stored report stays fetchable.
const DefaultRetention = 24 * time.Hour

var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS reports (
  id           TEXT PRIMARY KEY,
  created_at   INTEGER NOT NULL,
  expires_at   INTEGER NOT NULL,
  participants TEXT NOT NULL,
  result       TEXT NOT NULL
);
`,
	`
CREATE INDEX IF NOT EXISTS idx_reports_expires_at
ON reports (expires_at);
`,
}

// Store persists analysis reports in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the report database at path and runs schema
// migrations.
func OpenStore(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", filepath.ToSlash(path))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.enableWALMode(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.applyMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) enableWALMode() error {
	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode=WAL;").Scan(&mode); err != nil {
		return fmt.Errorf("enable WAL mode: %w", err)
	}
	return nil
}

func (s *Store) applyMigrations() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= len(migrations) {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i := version; i < len(migrations); i++ {
		if _, err := tx.Exec(migrations[i]); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d;", len(migrations))); err != nil {
		return fmt.Errorf("bump schema version: %w", err)
	}
	return tx.Commit()
}

// Report is one stored analysis with its retention window.
type Report struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	ExpiresAt time.Time              `json:"expires_at"`
	Result    *engine.AnalysisResult `json:"result"`
}

// SaveReport stores a result under a fresh UUID and returns the ID.
func (s *Store) SaveReport(ctx context.Context, res *engine.AnalysisResult, retention time.Duration) (string, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	body, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("SaveReport: marshal result: %w", err)
	}
	participants, err := json.Marshal(res.Participants)
	if err != nil {
		return "", fmt.Errorf("SaveReport: marshal participants: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, created_at, expires_at, participants, result) VALUES (?, ?, ?, ?, ?)`,
		id, now.Unix(), now.Add(retention).Unix(), string(participants), string(body),
	)
	if err != nil {
		return "", fmt.Errorf("SaveReport: insert: %w", err)
	}
	return id, nil
}

// GetReport fetches a live report by ID. Expired rows are treated as missing
// even before the pruner removes them.
func (s *Store) GetReport(ctx context.Context, id string) (Report, error) {
	var (
		created int64
		expires int64
		body    string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, expires_at, result FROM reports WHERE id = ? AND expires_at > ?`,
		id, time.Now().UTC().Unix(),
	).Scan(&created, &expires, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, fmt.Errorf("GetReport: query: %w", err)
	}

	var res engine.AnalysisResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return Report{}, fmt.Errorf("GetReport: unmarshal result: %w", err)
	}
	return Report{
		ID:        id,
		CreatedAt: time.Unix(created, 0).UTC(),
		ExpiresAt: time.Unix(expires, 0).UTC(),
		Result:    &res,
	}, nil
}

// PruneExpired deletes reports past their expiry and reports how many rows
// were removed.
func (s *Store) PruneExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM reports WHERE expires_at <= ?`, time.Now().UTC().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("PruneExpired: delete: %w", err)
	}
	return res.RowsAffected()
}
