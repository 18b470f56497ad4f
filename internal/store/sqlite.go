package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fintrack-dev/fintrack/internal/model"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLiteStore keeps one row per user with the record encoded as JSON.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Load implements Store. A row holding malformed JSON loads as an empty record.
func (s *SQLiteStore) Load(ctx context.Context, username string) (*model.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM records WHERE username = ?`, username).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewRecord(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading record for %s: %w", username, err)
	}

	rec, err := decodeRecord([]byte(data))
	if err != nil {
		slog.WarnContext(ctx, "discarding unreadable record", "user", username, "backend", "sqlite", "error", err)
		return model.NewRecord(), nil
	}
	return rec, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, username string, rec *model.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record for %s: %w", username, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (username, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		username, string(data), s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving record for %s: %w", username, err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
