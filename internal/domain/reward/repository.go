package reward

import "context"

// Repository persists per-user reward state.
type Repository interface {
	Get(ctx context.Context, userID int64) (Rewards, bool, error)
	// Apply adds the badge (once) and increments points, creating the row
	// when missing. It returns the updated state.
	Apply(ctx context.Context, userID int64, badge Badge, points int) (Rewards, error)
}

// Leaderboard ranks users by accumulated points.
type Leaderboard interface {
	AddPoints(ctx context.Context, userID int64, points int) error
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}
