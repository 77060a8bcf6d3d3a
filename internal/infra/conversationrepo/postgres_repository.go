package conversationrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climahealth/climahealth-api/internal/domain/coach"
)

// PostgresRepository persists conversation turns in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Append inserts one conversation turn.
func (r *PostgresRepository) Append(ctx context.Context, msg coach.Message) (coach.Message, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO conversation_messages (user_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, role, content, created_at
	`, msg.UserID, msg.Role, msg.Content)
	return scanMessage(row)
}

// Recent returns the newest turns in chronological order.
func (r *PostgresRepository) Recent(ctx context.Context, userID int64, limit int) ([]coach.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, role, content, created_at
		FROM (
			SELECT id, user_id, role, content, created_at
			FROM conversation_messages
			WHERE user_id = $1
			ORDER BY id DESC
			LIMIT $2
		) newest
		ORDER BY id ASC
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []coach.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (coach.Message, error) {
	var msg coach.Message
	var created time.Time
	if err := row.Scan(&msg.ID, &msg.UserID, &msg.Role, &msg.Content, &created); err != nil {
		return coach.Message{}, err
	}
	msg.CreatedAt = created.UTC()
	return msg, nil
}

var _ coach.Repository = (*PostgresRepository)(nil)
