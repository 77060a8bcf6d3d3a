package symptom

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository abstracts symptom entry persistence.
type Repository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	Get(ctx context.Context, id uuid.UUID, userID int64) (Entry, bool, error)
	Update(ctx context.Context, entry Entry) (Entry, error)
	Delete(ctx context.Context, id uuid.UUID, userID int64) (bool, error)
	List(ctx context.Context, userID int64, filter HistoryFilter) ([]Entry, int, error)
	ListSince(ctx context.Context, userID int64, since time.Time) ([]Entry, error)
}
