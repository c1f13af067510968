// Package memory provides an in-process BlobStore used in tests and for
// throwaway sessions.
package memory

import (
	"context"
	"sync"

	"github.com/example/agenda/internal/persistence"
)

// Store keeps blobs in a map guarded by a RWMutex.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New returns an empty store.
func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Load returns a copy of the stored blob.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return cloneBytes(data), nil
}

// Save replaces the blob under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return persistence.ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = cloneBytes(data)
	return nil
}

// Delete removes the blob under key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

func cloneBytes(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
