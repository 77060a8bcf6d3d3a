package climaterepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
)

// MemoryRepository provides an in-memory sample store for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	samples []climate.Sample
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create stores the sample.
func (r *MemoryRepository) Create(_ context.Context, sample climate.Sample) (climate.Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, sample)
	return sample, nil
}

// Latest returns the most recent sample for the exact coordinate.
func (r *MemoryRepository) Latest(_ context.Context, loc climate.Location) (climate.Sample, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		best  climate.Sample
		found bool
	)
	for _, sample := range r.samples {
		if sample.Location.Lat != loc.Lat || sample.Location.Lon != loc.Lon {
			continue
		}
		if !found || sample.CreatedAt.After(best.CreatedAt) {
			best = sample
			found = true
		}
	}
	return best, found, nil
}

// ListSince returns all samples taken at or after the cutoff.
func (r *MemoryRepository) ListSince(_ context.Context, since time.Time) ([]climate.Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []climate.Sample
	for _, sample := range r.samples {
		if !sample.Date.Before(since) {
			out = append(out, sample)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

var _ climate.Repository = (*MemoryRepository)(nil)
