package insight

import (
	"context"
	"log/slog"
	"time"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
	"github.com/climahealth/climahealth-api/internal/domain/symptom"
	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
	"github.com/climahealth/climahealth-api/pkg/util"
)

// EntryFetcher retrieves a user's symptom history since a point in time.
// The returned order is not assumed beyond what each implementation
// documents; the engine sorts where order matters.
type EntryFetcher interface {
	ListSince(ctx context.Context, userID int64, since time.Time) ([]symptom.Entry, error)
}

// SampleFetcher retrieves environmental history since a point in time.
type SampleFetcher interface {
	ListSince(ctx context.Context, since time.Time) ([]climate.Sample, error)
}

// Service builds per-user insight reports.
type Service interface {
	BuildReport(ctx context.Context, userID int64, windowDays int) (Report, error)
}

type service struct {
	cfg     Config
	entries EntryFetcher
	samples SampleFetcher
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires up the insight engine.
func NewService(cfg Config, entries EntryFetcher, samples SampleFetcher, logger *slog.Logger) Service {
	if cfg.DefaultWindowDays <= 0 {
		cfg.DefaultWindowDays = DefaultConfig().DefaultWindowDays
	}
	if cfg.JoinTolerance <= 0 {
		cfg.JoinTolerance = DefaultConfig().JoinTolerance
	}
	return &service{
		cfg:     cfg,
		entries: entries,
		samples: samples,
		logger:  logger.With("component", "insight.service"),
		now:     util.NowUTC,
	}
}

// BuildReport retrieves the windowed history, runs the correlation analysis
// and assembles the report. A fetch failure aborts the whole report; there
// is no retry and no partial fallback.
func (s *service) BuildReport(ctx context.Context, userID int64, windowDays int) (Report, error) {
	if windowDays <= 0 {
		windowDays = s.cfg.DefaultWindowDays
	}
	end := s.now().UTC()
	start := end.AddDate(0, 0, -windowDays)

	entries, err := s.entries.ListSince(ctx, userID, start)
	if err != nil {
		return Report{}, apperrors.Wrap("fetch_failed", "failed to fetch symptom history", err)
	}
	samples, err := s.samples.ListSince(ctx, start)
	if err != nil {
		return Report{}, apperrors.Wrap("fetch_failed", "failed to fetch environmental history", err)
	}

	summary, correlations, trends := analyze(entries, samples, start, end, s.cfg.JoinTolerance)
	recommendations := recommend(summary, correlations)

	s.logger.Info("insight report built",
		"user_id", userID, "window_days", windowDays,
		"logs", summary.TotalLogs, "attacks", summary.AttackCount,
		"recommendations", len(recommendations))

	return Report{
		Summary:         summary,
		Correlations:    correlations,
		Trends:          trends,
		Recommendations: recommendations,
		Period: Period{
			Days:      windowDays,
			StartDate: start,
			EndDate:   end,
		},
	}, nil
}
