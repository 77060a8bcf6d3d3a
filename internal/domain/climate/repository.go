package climate

import (
	"context"
	"time"
)

// Repository abstracts environmental sample persistence. Samples are
// append-only; there is no update or delete path.
type Repository interface {
	Create(ctx context.Context, sample Sample) (Sample, error)
	Latest(ctx context.Context, loc Location) (Sample, bool, error)
	ListSince(ctx context.Context, since time.Time) ([]Sample, error)
}

// Store caches the most recent conditions per location so repeated forecast
// lookups do not hit the providers.
type Store interface {
	GetLatest(ctx context.Context, loc Location) (Sample, bool, error)
	SaveLatest(ctx context.Context, sample Sample, ttl time.Duration) error
}

// Archive retains raw provider payloads for audit.
type Archive interface {
	Put(ctx context.Context, key string, payload []byte) (string, error)
}
