package store

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/gocovid/internal/covid/entity"
	"github.com/shandysiswandi/gocovid/internal/pkg/pkgerror"
)

type record struct {
	stat      entity.CountryStat
	fetchedAt time.Time
}

// InMemoryStore keeps the latest statistics per lookup key for the lifetime
// of the process.
type InMemoryStore struct {
	mu    sync.RWMutex
	stats map[string]record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		stats: make(map[string]record),
	}
}

// Get returns the cached stat and when it was fetched, or pkgerror.ErrNotFound.
func (s *InMemoryStore) Get(ctx context.Context, key string) (entity.CountryStat, time.Time, error) {
	s.mu.RLock()
	rec, ok := s.stats[key]
	s.mu.RUnlock()
	if !ok {
		return entity.CountryStat{}, time.Time{}, pkgerror.ErrNotFound
	}

	return rec.stat, rec.fetchedAt, nil
}

// Put stores stat under key unless a newer fetch is already present.
func (s *InMemoryStore) Put(ctx context.Context, key string, stat entity.CountryStat, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.stats[key]; ok && cur.fetchedAt.After(fetchedAt) {
		return nil
	}
	s.stats[key] = record{stat: stat, fetchedAt: fetchedAt}

	return nil
}

// Close implements io.Closer for interface compatibility.
func (s *InMemoryStore) Close() error {
	return nil
}
