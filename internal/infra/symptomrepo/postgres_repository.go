package symptomrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climahealth/climahealth-api/internal/domain/symptom"
)

// PostgresRepository persists symptom entries in Postgres. The symptoms,
// medication, and environment blocks are stored as jsonb; derived fields are
// stored in dedicated columns so history filters can use them.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const entryColumns = `id, user_id, date, symptoms, medication, environment, notes,
	severity, follow_up_required, overall_score, created_at, updated_at`

// Create inserts a new entry row.
func (r *PostgresRepository) Create(ctx context.Context, entry symptom.Entry) (symptom.Entry, error) {
	symptoms, medication, environment, err := encodeBlocks(entry)
	if err != nil {
		return symptom.Entry{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO symptom_logs (id, user_id, date, symptoms, medication, environment, notes,
			severity, follow_up_required, overall_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+entryColumns+`
	`, entry.ID, entry.UserID, entry.Date, symptoms, medication, environment, entry.Notes,
		entry.Severity, entry.FollowUpRequired, entry.OverallScore)
	return scanEntry(row)
}

// Get fetches an entry owned by the user.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID, userID int64) (symptom.Entry, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM symptom_logs
		WHERE id = $1 AND user_id = $2
		LIMIT 1
	`, id, userID)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return symptom.Entry{}, false, nil
		}
		return symptom.Entry{}, false, err
	}
	return entry, true, nil
}

// Update replaces the mutable fields of an entry.
func (r *PostgresRepository) Update(ctx context.Context, entry symptom.Entry) (symptom.Entry, error) {
	symptoms, medication, environment, err := encodeBlocks(entry)
	if err != nil {
		return symptom.Entry{}, err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE symptom_logs
		SET date = $3, symptoms = $4, medication = $5, environment = $6, notes = $7,
			severity = $8, follow_up_required = $9, overall_score = $10, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+entryColumns+`
	`, entry.ID, entry.UserID, entry.Date, symptoms, medication, environment, entry.Notes,
		entry.Severity, entry.FollowUpRequired, entry.OverallScore)
	return scanEntry(row)
}

// Delete removes an entry owned by the user.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM symptom_logs
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// List returns a filtered page of entries plus the unpaginated total.
func (r *PostgresRepository) List(ctx context.Context, userID int64, filter symptom.HistoryFilter) ([]symptom.Entry, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Severity != "" {
		args = append(args, filter.Severity)
		where = append(where, fmt.Sprintf("severity = $%d", len(args)))
	}
	if filter.HasAttack != nil {
		args = append(args, *filter.HasAttack)
		where = append(where, fmt.Sprintf("(symptoms->>'attack')::boolean = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM symptom_logs WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "ASC"
	if filter.SortDesc {
		order = "DESC"
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * filter.Limit
	}
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM symptom_logs
		WHERE %s
		ORDER BY date %s
		LIMIT $%d OFFSET $%d
	`, entryColumns, clause, order, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]symptom.Entry, 0, filter.Limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}

// ListSince returns the user's entries dated at or after the cutoff.
func (r *PostgresRepository) ListSince(ctx context.Context, userID int64, since time.Time) ([]symptom.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM symptom_logs
		WHERE user_id = $1 AND date >= $2
		ORDER BY date ASC
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []symptom.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func encodeBlocks(entry symptom.Entry) (symptoms, medication, environment []byte, err error) {
	if symptoms, err = json.Marshal(entry.Symptoms); err != nil {
		return nil, nil, nil, err
	}
	if medication, err = json.Marshal(entry.Medication); err != nil {
		return nil, nil, nil, err
	}
	if environment, err = json.Marshal(entry.Environment); err != nil {
		return nil, nil, nil, err
	}
	return symptoms, medication, environment, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (symptom.Entry, error) {
	var (
		entry                         symptom.Entry
		symptoms, medication, environ []byte
		date, created, updated        time.Time
	)
	if err := row.Scan(&entry.ID, &entry.UserID, &date, &symptoms, &medication, &environ,
		&entry.Notes, &entry.Severity, &entry.FollowUpRequired, &entry.OverallScore,
		&created, &updated); err != nil {
		return symptom.Entry{}, err
	}
	if err := json.Unmarshal(symptoms, &entry.Symptoms); err != nil {
		return symptom.Entry{}, err
	}
	if err := json.Unmarshal(medication, &entry.Medication); err != nil {
		return symptom.Entry{}, err
	}
	if err := json.Unmarshal(environ, &entry.Environment); err != nil {
		return symptom.Entry{}, err
	}
	entry.Date = date.UTC()
	entry.CreatedAt = created.UTC()
	entry.UpdatedAt = updated.UTC()
	return entry, nil
}

var _ symptom.Repository = (*PostgresRepository)(nil)
