package conversationrepo

import (
	"context"
	"sync"
	"time"

	"github.com/climahealth/climahealth-api/internal/domain/coach"
)

// MemoryRepository keeps conversation turns in memory for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	messages []coach.Message
	seq      int64
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Append stores one conversation turn.
func (r *MemoryRepository) Append(_ context.Context, msg coach.Message) (coach.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	msg.ID = r.seq
	msg.CreatedAt = time.Now().UTC()
	r.messages = append(r.messages, msg)
	return msg, nil
}

// Recent returns the newest turns in chronological order.
func (r *MemoryRepository) Recent(_ context.Context, userID int64, limit int) ([]coach.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []coach.Message
	for _, msg := range r.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

var _ coach.Repository = (*MemoryRepository)(nil)
