package memstore

import (
	"context"
	"sync"

	"github.com/qlpt/rental-portal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps values in memory only. Used for tests and throwaway sessions.
type Store struct {
	values map[string]string
	lock   sync.RWMutex
}

func New() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) SetMany(_ context.Context, values map[string]string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

func (s *Store) DeleteMany(_ context.Context, keys ...string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// Snapshot returns a copy of everything stored.
func (s *Store) Snapshot() map[string]string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
