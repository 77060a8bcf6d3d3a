package reward

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
)

type stubRewardRepo struct {
	state map[int64]Rewards
}

func newStubRewardRepo() *stubRewardRepo {
	return &stubRewardRepo{state: make(map[int64]Rewards)}
}

func (r *stubRewardRepo) Get(_ context.Context, userID int64) (Rewards, bool, error) {
	rewards, ok := r.state[userID]
	return rewards, ok, nil
}

func (r *stubRewardRepo) Apply(_ context.Context, userID int64, badge Badge, points int) (Rewards, error) {
	rewards, ok := r.state[userID]
	if !ok {
		rewards = Rewards{UserID: userID, Badges: []Badge{}}
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

type stubLeaderboard struct {
	points map[int64]int
}

func newStubLeaderboard() *stubLeaderboard {
	return &stubLeaderboard{points: make(map[int64]int)}
}

func (l *stubLeaderboard) AddPoints(_ context.Context, userID int64, points int) error {
	l.points[userID] += points
	return nil
}

func (l *stubLeaderboard) Top(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	entries := make([]LeaderboardEntry, 0, len(l.points))
	for userID, points := range l.points {
		entries = append(entries, LeaderboardEntry{UserID: userID, Points: points})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Points > entries[j].Points })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func newRewardService(repo Repository, leaderboard Leaderboard) Service {
	return NewService(repo, leaderboard, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCompleteDefaultsPointsAndAddsBadgeOnce(t *testing.T) {
	repo := newStubRewardRepo()
	svc := newRewardService(repo, nil)

	rewards, err := svc.Complete(context.Background(), 1, CompleteRequest{Badge: BadgeFirstLog})
	require.NoError(t, err)
	require.Equal(t, 10, rewards.Points)
	require.Equal(t, []Badge{BadgeFirstLog}, rewards.Badges)

	// Repeating the badge keeps it unique but still accrues points.
	rewards, err = svc.Complete(context.Background(), 1, CompleteRequest{Badge: BadgeFirstLog})
	require.NoError(t, err)
	require.Equal(t, 20, rewards.Points)
	require.Equal(t, []Badge{BadgeFirstLog}, rewards.Badges)
}

func TestCompleteRejectsUnknownBadgeAndBadPoints(t *testing.T) {
	svc := newRewardService(newStubRewardRepo(), nil)

	_, err := svc.Complete(context.Background(), 1, CompleteRequest{Badge: "spelunking"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	bad := -5
	_, err = svc.Complete(context.Background(), 1, CompleteRequest{Badge: BadgeFirstLog, Points: &bad})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	huge := 500
	_, err = svc.Complete(context.Background(), 1, CompleteRequest{Badge: BadgeFirstLog, Points: &huge})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestRewardsEmptyStateIsZeroValue(t *testing.T) {
	svc := newRewardService(newStubRewardRepo(), nil)

	rewards, err := svc.Rewards(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), rewards.UserID)
	require.Empty(t, rewards.Badges)
	require.Zero(t, rewards.Points)
}

func TestLeaderboardRanksByPoints(t *testing.T) {
	repo := newStubRewardRepo()
	board := newStubLeaderboard()
	svc := newRewardService(repo, board)

	twenty := 20
	_, err := svc.Complete(context.Background(), 1, CompleteRequest{Badge: BadgeFirstLog})
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), 2, CompleteRequest{Badge: BadgeWeekStreak, Points: &twenty})
	require.NoError(t, err)

	entries, err := svc.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, int64(2), entries[0].UserID)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, int64(1), entries[1].UserID)
}
