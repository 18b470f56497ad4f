package store

import (
	"context"
	"sync"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// MemoryStore keeps records in process memory. Records are copied on the way
// in and out so callers cannot mutate stored state by accident.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*model.Record
	saves   int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*model.Record)}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, username string) (*model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[username]
	if !ok {
		return model.NewRecord(), nil
	}
	return rec.Clone(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, username string, rec *model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[username] = rec.Clone()
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
