package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// FileStore keeps every user's record in one JSON document:
//
//	{"alice": {...record...}, "bob": {...}}
//
// The whole document is rewritten on each Save. Concurrent writers are not
// coordinated; the last one wins.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by path. The file is created on
// the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Load implements Store.
func (s *FileStore) Load(ctx context.Context, username string) (*model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, ok := s.readAll(ctx)[username]
	if !ok {
		return model.NewRecord(), nil
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		slog.WarnContext(ctx, "discarding unreadable record", "user", username, "path", s.path, "error", err)
		return model.NewRecord(), nil
	}
	return rec, nil
}

// Save implements Store. Other users' entries are carried over byte for byte.
func (s *FileStore) Save(ctx context.Context, username string, rec *model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	all := s.readAll(ctx)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record for %s: %w", username, err)
	}
	all[username] = data

	out, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record store: %w", err)
	}

	if err := writeFile(s.path, out); err != nil {
		return fmt.Errorf("writing record store %s: %w", s.path, err)
	}
	return nil
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

// readAll returns the raw per-user entries. A missing, unreadable or
// malformed file yields an empty collection.
func (s *FileStore) readAll(ctx context.Context) map[string]json.RawMessage {
	all := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return all
	}
	if err != nil {
		slog.WarnContext(ctx, "record store unreadable, starting empty", "path", s.path, "error", err)
		return all
	}

	if err := json.Unmarshal(data, &all); err != nil {
		slog.WarnContext(ctx, "record store corrupt, starting empty", "path", s.path, "error", err)
		return make(map[string]json.RawMessage)
	}
	return all
}

func decodeRecord(data []byte) (*model.Record, error) {
	rec := model.NewRecord()
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, err
	}
	rec.Normalize()
	return rec, nil
}

// writeFile replaces path through a temp file in the same directory so a
// reader never sees a half-written document.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
