package store

import (
	"context"
	"log/slog"

	"github.com/fintrack-dev/fintrack/internal/gitops"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// Committing wraps a Store and commits the data directory to git after every
// successful Save. A failed commit is logged; the save itself already happened.
type Committing struct {
	Store
	committer *gitops.Committer
}

// NewCommitting wraps inner. The committer's directory must already be a repository.
func NewCommitting(inner Store, committer *gitops.Committer) *Committing {
	return &Committing{Store: inner, committer: committer}
}

// Save implements Store.
func (s *Committing) Save(ctx context.Context, username string, rec *model.Record) error {
	if err := s.Store.Save(ctx, username, rec); err != nil {
		return err
	}

	hash, err := s.committer.Commit("record: save " + username)
	if err != nil {
		slog.WarnContext(ctx, "committing data dir failed", "dir", s.committer.Dir, "error", err)
		return nil
	}
	if hash != "" {
		slog.DebugContext(ctx, "committed data dir", "user", username, "commit", hash)
	}
	return nil
}
