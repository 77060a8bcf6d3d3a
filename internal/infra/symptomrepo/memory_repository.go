package symptomrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/climahealth/climahealth-api/internal/domain/symptom"
)

// MemoryRepository provides an in-memory symptom store for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]symptom.Entry
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[uuid.UUID]symptom.Entry)}
}

// Create stores the entry.
func (r *MemoryRepository) Create(_ context.Context, entry symptom.Entry) (symptom.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return entry, nil
}

// Get fetches an entry owned by the user.
func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID, userID int64) (symptom.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return symptom.Entry{}, false, nil
	}
	return entry, true, nil
}

// Update replaces the stored entry.
func (r *MemoryRepository) Update(_ context.Context, entry symptom.Entry) (symptom.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return entry, nil
}

// Delete removes an entry owned by the user.
func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return false, nil
	}
	delete(r.entries, id)
	return true, nil
}

// List returns a filtered page of entries plus the unpaginated total.
func (r *MemoryRepository) List(_ context.Context, userID int64, filter symptom.HistoryFilter) ([]symptom.Entry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]symptom.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.UserID != userID {
			continue
		}
		if filter.Severity != "" && entry.Severity != filter.Severity {
			continue
		}
		if filter.HasAttack != nil && entry.Symptoms.Attack != *filter.HasAttack {
			continue
		}
		if filter.StartDate != nil && entry.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && entry.Date.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, entry)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if filter.SortDesc {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].Date.Before(matched[j].Date)
	})

	total := len(matched)
	if filter.Limit > 0 {
		start := 0
		if filter.Page > 1 {
			start = (filter.Page - 1) * filter.Limit
		}
		if start > total {
			start = total
		}
		end := start + filter.Limit
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

// ListSince returns the user's entries dated at or after the cutoff.
func (r *MemoryRepository) ListSince(_ context.Context, userID int64, since time.Time) ([]symptom.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []symptom.Entry
	for _, entry := range r.entries {
		if entry.UserID == userID && !entry.Date.Before(since) {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

var _ symptom.Repository = (*MemoryRepository)(nil)
