package store

import (
	"fmt"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/gitops"
)

// Open builds the store described by cfg, rooted at dataDir.
func Open(cfg *config.Config, dataDir string) (Store, error) {
	path := config.Resolve(dataDir, cfg.Storage.Path)

	var s Store
	switch cfg.Storage.Backend {
	case "json", "":
		s = NewFileStore(path)
	case "sqlite":
		db, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		s = db
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}

	if !cfg.Git.AutoCommit {
		return s, nil
	}

	committer := &gitops.Committer{
		Dir:         dataDir,
		AuthorName:  cfg.Git.AuthorName,
		AuthorEmail: cfg.Git.AuthorEmail,
	}
	if err := committer.EnsureRepo(); err != nil {
		s.Close()
		return nil, fmt.Errorf("preparing git repo: %w", err)
	}
	return NewCommitting(s, committer), nil
}
