package rewardrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climahealth/climahealth-api/internal/domain/reward"
)

// PostgresRepository persists reward state in Postgres. Badges are stored
// as a text array; the upsert keeps them unique.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get fetches the reward row for a user.
func (r *PostgresRepository) Get(ctx context.Context, userID int64) (reward.Rewards, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, badges, points, updated_at
		FROM rewards
		WHERE user_id = $1
		LIMIT 1
	`, userID)
	rewards, err := scanRewards(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reward.Rewards{}, false, nil
		}
		return reward.Rewards{}, false, err
	}
	return rewards, true, nil
}

// Apply adds the badge once and increments points, creating the row when
// missing.
func (r *PostgresRepository) Apply(ctx context.Context, userID int64, badge reward.Badge, points int) (reward.Rewards, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO rewards (user_id, badges, points)
		VALUES ($1, ARRAY[$2]::text[], $3)
		ON CONFLICT (user_id) DO UPDATE SET
			badges = CASE
				WHEN $2 = ANY(rewards.badges) THEN rewards.badges
				ELSE array_append(rewards.badges, $2)
			END,
			points     = rewards.points + $3,
			updated_at = now()
		RETURNING user_id, badges, points, updated_at
	`, userID, string(badge), points)
	return scanRewards(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRewards(row rowScanner) (reward.Rewards, error) {
	var (
		rewards reward.Rewards
		badges  []string
		updated time.Time
	)
	if err := row.Scan(&rewards.UserID, &badges, &rewards.Points, &updated); err != nil {
		return reward.Rewards{}, err
	}
	rewards.Badges = make([]reward.Badge, 0, len(badges))
	for _, b := range badges {
		rewards.Badges = append(rewards.Badges, reward.Badge(b))
	}
	rewards.UpdatedAt = updated.UTC()
	return rewards, nil
}

var _ reward.Repository = (*PostgresRepository)(nil)
