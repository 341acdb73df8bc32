package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/qlpt/rental-portal/storage"
)

var _ storage.Store = (*Store)(nil)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// Store keeps all values in one JSON object on disk. Every write rewrites the
// whole file through a temp file and rename, so readers never see a partial
// batch.
type Store struct {
	path   string
	values map[string]string
	mu     sync.RWMutex
}

// CorruptSuffix is appended to a session file that could not be decoded.
const CorruptSuffix = ".corrupt"

// Open loads path if it exists. A missing file is an empty store and an
// unreadable one is an error. A file that cannot be decoded is renamed with
// CorruptSuffix and Open returns an empty store together with an error
// wrapping storage.ErrCorrupt.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("[filestore.Open] read %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if derr := json.Unmarshal(data, &s.values); derr != nil {
		if err := os.Rename(path, path+CorruptSuffix); err != nil {
			return nil, fmt.Errorf("[filestore.Open] set aside %s: %w", path, err)
		}
		s.values = make(map[string]string)
		return s, fmt.Errorf("[filestore.Open] decode %s: %w: %w", path, storage.ErrCorrupt, derr)
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLocked()
	for k, v := range values {
		next[k] = v
	}
	return s.commitLocked(next)
}

func (s *Store) DeleteMany(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLocked()
	changed := false
	for _, k := range keys {
		if _, ok := next[k]; ok {
			delete(next, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.commitLocked(next)
}

func (s *Store) Close() error { return nil }

func (s *Store) copyLocked() map[string]string {
	next := make(map[string]string, len(s.values))
	for k, v := range s.values {
		next[k] = v
	}
	return next
}

// commitLocked persists next and only then swaps it in memory.
func (s *Store) commitLocked(next map[string]string) error {
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("[filestore.commit] encode: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("[filestore.commit] mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("[filestore.commit] temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("[filestore.commit] write: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("[filestore.commit] chmod: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("[filestore.commit] sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[filestore.commit] close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("[filestore.commit] rename: %w", err)
	}

	s.values = next
	return nil
}
