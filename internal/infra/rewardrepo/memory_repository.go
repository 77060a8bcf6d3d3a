package rewardrepo

import (
	"context"
	"sync"
	"time"

	"github.com/climahealth/climahealth-api/internal/domain/reward"
)

// MemoryRepository keeps reward state in memory for tests/dev.
type MemoryRepository struct {
	mu    sync.RWMutex
	state map[int64]reward.Rewards
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{state: make(map[int64]reward.Rewards)}
}

// Get fetches the reward state for a user.
func (r *MemoryRepository) Get(_ context.Context, userID int64) (reward.Rewards, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rewards, ok := r.state[userID]
	return rewards, ok, nil
}

// Apply adds the badge once and increments points.
func (r *MemoryRepository) Apply(_ context.Context, userID int64, badge reward.Badge, points int) (reward.Rewards, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rewards, ok := r.state[userID]
	if !ok {
		rewards = reward.Rewards{UserID: userID, Badges: []reward.Badge{}}
	}
	has := false
	for _, b := range rewards.Badges {
		if b == badge {
			has = true
			break
		}
	}
	if !has {
		rewards.Badges = append(rewards.Badges, badge)
	}
	rewards.Points += points
	rewards.UpdatedAt = time.Now().UTC()
	r.state[userID] = rewards
	return rewards, nil
}

var _ reward.Repository = (*MemoryRepository)(nil)
