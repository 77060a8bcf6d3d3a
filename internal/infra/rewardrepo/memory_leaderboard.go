package rewardrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/climahealth/climahealth-api/internal/domain/reward"
)

// MemoryLeaderboard is an in-process leaderboard for tests/dev.
type MemoryLeaderboard struct {
	mu     sync.RWMutex
	points map[int64]int
}

// NewMemoryLeaderboard constructs an in-memory leaderboard.
func NewMemoryLeaderboard() *MemoryLeaderboard {
	return &MemoryLeaderboard{points: make(map[int64]int)}
}

// AddPoints increments the user's score.
func (l *MemoryLeaderboard) AddPoints(_ context.Context, userID int64, points int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.points[userID] += points
	return nil
}

// Top returns the highest scorers. Score ties rank by lower user ID to keep
// the ordering stable.
func (l *MemoryLeaderboard) Top(_ context.Context, limit int) ([]reward.LeaderboardEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := make([]reward.LeaderboardEntry, 0, len(l.points))
	for userID, points := range l.points {
		entries = append(entries, reward.LeaderboardEntry{UserID: userID, Points: points})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

var _ reward.Leaderboard = (*MemoryLeaderboard)(nil)
