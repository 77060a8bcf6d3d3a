package reward

import (
	"context"
	"log/slog"

	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
)

const (
	defaultPoints    = 10
	maxPointsPerWin  = 100
	leaderboardLimit = 10
)

// Service exposes gamification workflows.
type Service interface {
	Complete(ctx context.Context, userID int64, req CompleteRequest) (Rewards, error)
	Rewards(ctx context.Context, userID int64) (Rewards, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type service struct {
	repo        Repository
	leaderboard Leaderboard
	logger      *slog.Logger
}

// NewService wires up the reward domain. The leaderboard may be nil.
func NewService(repo Repository, leaderboard Leaderboard, logger *slog.Logger) Service {
	return &service{
		repo:        repo,
		leaderboard: leaderboard,
		logger:      logger.With("component", "reward.service"),
	}
}

func (s *service) Complete(ctx context.Context, userID int64, req CompleteRequest) (Rewards, error) {
	if !req.Badge.IsKnown() {
		return Rewards{}, apperrors.Wrap("invalid_input", "badge: unknown badge", nil)
	}
	points := defaultPoints
	if req.Points != nil {
		points = *req.Points
	}
	if points < 0 || points > maxPointsPerWin {
		return Rewards{}, apperrors.Wrap("invalid_input", "points: must be between 0 and 100", nil)
	}

	rewards, err := s.repo.Apply(ctx, userID, req.Badge, points)
	if err != nil {
		return Rewards{}, apperrors.Wrap("storage_error", "failed to apply reward", err)
	}

	if s.leaderboard != nil && points > 0 {
		if err := s.leaderboard.AddPoints(ctx, userID, points); err != nil {
			s.logger.Warn("failed to update leaderboard", "error", err)
		}
	}

	s.logger.Info("challenge completed", "user_id", userID, "badge", req.Badge, "points", points)
	return rewards, nil
}

func (s *service) Rewards(ctx context.Context, userID int64) (Rewards, error) {
	rewards, found, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Rewards{}, apperrors.Wrap("storage_error", "failed to load rewards", err)
	}
	if !found {
		return Rewards{UserID: userID, Badges: []Badge{}}, nil
	}
	return rewards, nil
}

func (s *service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if s.leaderboard == nil {
		return []LeaderboardEntry{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = leaderboardLimit
	}
	entries, err := s.leaderboard.Top(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to load leaderboard", err)
	}
	return entries, nil
}
