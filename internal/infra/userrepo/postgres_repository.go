package userrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climahealth/climahealth-api/internal/domain/auth"
)

// PostgresRepository persists users in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const userColumns = `id, email, name, password_hash, lat, lon, city, country, units, notifications, created_at, updated_at`

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, email, name, passwordHash string) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns+`
	`, email, name, passwordHash)
	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return auth.User{}, auth.ErrEmailExists
		}
		return auth.User{}, err
	}
	return user, nil
}

// GetByEmail fetches a user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (auth.User, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
		LIMIT 1
	`, email)
	return scanUserOptional(row)
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (auth.User, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
		LIMIT 1
	`, id)
	return scanUserOptional(row)
}

// UpdateProfile persists profile fields.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, user auth.User) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, lat = $3, lon = $4, city = $5, country = $6,
		    units = $7, notifications = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, user.ID, user.Name, user.Location.Lat, user.Location.Lon,
		user.Location.City, user.Location.Country,
		user.Preferences.Units, user.Preferences.Notifications)
	return scanUser(row)
}

// GetIdentity returns an identity by provider and subject.
func (r *PostgresRepository) GetIdentity(ctx context.Context, provider, providerSubject string) (auth.Identity, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at
		FROM user_identities
		WHERE provider = $1 AND provider_subject = $2
		LIMIT 1
	`, provider, providerSubject)
	return scanIdentityOptional(row)
}

// GetIdentityByUser returns an identity by user and provider.
func (r *PostgresRepository) GetIdentityByUser(ctx context.Context, userID int64, provider string) (auth.Identity, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at
		FROM user_identities
		WHERE user_id = $1 AND provider = $2
		LIMIT 1
	`, userID, provider)
	return scanIdentityOptional(row)
}

// UpsertIdentity stores or updates the identity mapping. An empty refresh
// token never overwrites a stored one.
func (r *PostgresRepository) UpsertIdentity(ctx context.Context, identity auth.Identity) (auth.Identity, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_identities (user_id, provider, provider_subject, provider_email, refresh_token)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider, provider_subject) DO UPDATE SET
			provider_email = COALESCE(NULLIF(EXCLUDED.provider_email, ''), user_identities.provider_email),
			refresh_token  = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), user_identities.refresh_token),
			updated_at     = now()
		RETURNING id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at
	`, identity.UserID, identity.Provider, identity.ProviderSubject, identity.ProviderEmail, identity.RefreshToken)
	return scanIdentity(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (auth.User, error) {
	var user auth.User
	var created, updated time.Time
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.Location.Lat, &user.Location.Lon, &user.Location.City, &user.Location.Country,
		&user.Preferences.Units, &user.Preferences.Notifications, &created, &updated); err != nil {
		return auth.User{}, err
	}
	user.CreatedAt = created.UTC()
	user.UpdatedAt = updated.UTC()
	return user, nil
}

func scanUserOptional(row rowScanner) (auth.User, bool, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, false, nil
		}
		return auth.User{}, false, err
	}
	return user, true, nil
}

func scanIdentity(row rowScanner) (auth.Identity, error) {
	var identity auth.Identity
	var created, updated time.Time
	if err := row.Scan(&identity.ID, &identity.UserID, &identity.Provider,
		&identity.ProviderSubject, &identity.ProviderEmail, &identity.RefreshToken,
		&created, &updated); err != nil {
		return auth.Identity{}, err
	}
	identity.CreatedAt = created.UTC()
	identity.UpdatedAt = updated.UTC()
	return identity, nil
}

func scanIdentityOptional(row rowScanner) (auth.Identity, bool, error) {
	identity, err := scanIdentity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Identity{}, false, nil
		}
		return auth.Identity{}, false, err
	}
	return identity, true, nil
}

var _ auth.Repository = (*PostgresRepository)(nil)
