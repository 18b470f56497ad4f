// Package store persists financial records keyed by username.
//
// Every backend follows the same contract: Load never fails because the
// stored data is missing or corrupt (the caller gets an empty record), and
// Save replaces exactly one user's entry while leaving the others intact.
package store

import (
	"context"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// Store loads and saves one user's record by username.
type Store interface {
	// Load returns the user's record, or a fresh empty record when none
	// exists or the stored data cannot be decoded.
	Load(ctx context.Context, username string) (*model.Record, error)
	// Save replaces the user's entry with rec.
	Save(ctx context.Context, username string, rec *model.Record) error
	Close() error
}
