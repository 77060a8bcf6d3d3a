package rawstore

import (
	"context"
	"sync"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
)

// MemoryStore keeps archived payloads in memory for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore constructs an in-memory archive.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Put stores the payload under the key.
func (s *MemoryStore) Put(_ context.Context, key string, payload []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(payload))
	copy(buf, payload)
	s.objects[key] = buf
	return "memory://" + key, nil
}

// Get returns a stored payload, used by tests.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.objects[key]
	return payload, ok
}

var _ climate.Archive = (*MemoryStore)(nil)
