package store

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/gitops"
)

func TestOpen_JSON(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(config.Default(), dir)
	require.NoError(t, err)
	defer s.Close()

	fs, ok := s.(*FileStore)
	require.True(t, ok, "default backend is the JSON file store")
	assert.Equal(t, filepath.Join(dir, "records.json"), fs.Path())
}

func TestOpen_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.Path = "records.db"

	s, err := Open(cfg, t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*SQLiteStore)
	assert.True(t, ok)
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "postgres"

	_, err := Open(cfg, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage backend")
}

func TestOpen_AutoCommit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Git.AutoCommit = true

	s, err := Open(cfg, dir)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*Committing)
	require.True(t, ok)
	assert.True(t, gitops.IsRepo(dir))

	require.NoError(t, s.Save(context.Background(), "alice", sampleRecord()))

	log := exec.Command("git", "log", "--format=%s")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "record: save alice")
}
