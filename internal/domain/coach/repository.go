package coach

import "context"

// Repository persists conversation turns per user.
type Repository interface {
	Append(ctx context.Context, msg Message) (Message, error)
	Recent(ctx context.Context, userID int64, limit int) ([]Message, error)
}
