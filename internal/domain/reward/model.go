package reward

import "time"

// Badge names a completed challenge.
type Badge string

// Badge vocabulary. Unknown badges are rejected at the service boundary.
const (
	BadgeFirstLog      Badge = "first_log"
	BadgeWeekStreak    Badge = "week_streak"
	BadgeMonthStreak   Badge = "month_streak"
	BadgeAirAware      Badge = "air_aware"
	BadgeCoachChat     Badge = "coach_chat"
	BadgeInsightReader Badge = "insight_reader"
)

var knownBadges = map[Badge]struct{}{
	BadgeFirstLog:      {},
	BadgeWeekStreak:    {},
	BadgeMonthStreak:   {},
	BadgeAirAware:      {},
	BadgeCoachChat:     {},
	BadgeInsightReader: {},
}

// IsKnown reports whether the badge belongs to the vocabulary.
func (b Badge) IsKnown() bool {
	_, ok := knownBadges[b]
	return ok
}

// Rewards is a user's accumulated gamification state. Badges hold at most
// one copy of each badge; points only ever grow.
type Rewards struct {
	UserID    int64     `json:"userId"`
	Badges    []Badge   `json:"badges"`
	Points    int       `json:"points"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CompleteRequest is the challenge completion payload.
type CompleteRequest struct {
	Badge  Badge `json:"badge"`
	Points *int  `json:"points"`
}

// LeaderboardEntry ranks one user by points.
type LeaderboardEntry struct {
	UserID int64 `json:"userId"`
	Points int   `json:"points"`
	Rank   int   `json:"rank"`
}
