package climaterepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
)

// PostgresRepository persists environmental samples in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const sampleColumns = `id, lat, lon, city, country, date, aqi, temperature, humidity, pollen, risk_level, raw_ref, created_at`

// Create inserts a sample row. Samples are append-only.
func (r *PostgresRepository) Create(ctx context.Context, sample climate.Sample) (climate.Sample, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO climate_samples (id, lat, lon, city, country, date, aqi, temperature, humidity, pollen, risk_level, raw_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+sampleColumns+`
	`, sample.ID, sample.Location.Lat, sample.Location.Lon, sample.Location.City, sample.Location.Country,
		sample.Date, sample.AQI, sample.Temperature, sample.Humidity, sample.Pollen,
		sample.RiskLevel, sample.RawRef)
	return scanSample(row)
}

// Latest returns the most recent sample for the exact coordinate.
func (r *PostgresRepository) Latest(ctx context.Context, loc climate.Location) (climate.Sample, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+sampleColumns+`
		FROM climate_samples
		WHERE lat = $1 AND lon = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, loc.Lat, loc.Lon)
	sample, err := scanSample(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return climate.Sample{}, false, nil
		}
		return climate.Sample{}, false, err
	}
	return sample, true, nil
}

// ListSince returns all samples taken at or after the cutoff.
func (r *PostgresRepository) ListSince(ctx context.Context, since time.Time) ([]climate.Sample, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sampleColumns+`
		FROM climate_samples
		WHERE date >= $1
		ORDER BY date ASC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []climate.Sample
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (climate.Sample, error) {
	var sample climate.Sample
	var date, created time.Time
	if err := row.Scan(&sample.ID, &sample.Location.Lat, &sample.Location.Lon,
		&sample.Location.City, &sample.Location.Country, &date,
		&sample.AQI, &sample.Temperature, &sample.Humidity, &sample.Pollen,
		&sample.RiskLevel, &sample.RawRef, &created); err != nil {
		return climate.Sample{}, err
	}
	sample.Date = date.UTC()
	sample.CreatedAt = created.UTC()
	return sample, nil
}

var _ climate.Repository = (*PostgresRepository)(nil)
