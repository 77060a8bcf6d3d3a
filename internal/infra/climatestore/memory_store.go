package climatestore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
	"github.com/climahealth/climahealth-api/pkg/util"
)

// MemoryStore is an in-process conditions cache for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	sample    climate.Sample
	expiresAt time.Time
}

// NewMemoryStore constructs an in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     util.NowUTC,
	}
}

// GetLatest returns the cached sample when present and unexpired.
func (s *MemoryStore) GetLatest(_ context.Context, loc climate.Location) (climate.Sample, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[memoryKey(loc)]
	if !ok {
		return climate.Sample{}, false, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		return climate.Sample{}, false, nil
	}
	return entry.sample, true, nil
}

// SaveLatest caches the sample with the given TTL.
func (s *MemoryStore) SaveLatest(_ context.Context, sample climate.Sample, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{sample: sample}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[memoryKey(sample.Location)] = entry
	return nil
}

func memoryKey(loc climate.Location) string {
	return fmt.Sprintf("%g:%g", loc.Lat, loc.Lon)
}

var _ climate.Store = (*MemoryStore)(nil)
