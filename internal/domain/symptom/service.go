package symptom

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
	"github.com/climahealth/climahealth-api/pkg/util"
)

// Service exposes symptom log workflows.
type Service interface {
	Log(ctx context.Context, userID int64, req LogRequest) (Entry, error)
	History(ctx context.Context, userID int64, filter HistoryFilter) (HistoryPage, error)
	Get(ctx context.Context, userID int64, id uuid.UUID) (Entry, error)
	Update(ctx context.Context, userID int64, id uuid.UUID, req LogRequest) (Entry, error)
	Delete(ctx context.Context, userID int64, id uuid.UUID) error
	Stats(ctx context.Context, userID int64, period string) (Stats, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a Service instance.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "symptom.service"),
		now:    util.NowUTC,
	}
}

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

func (s *service) Log(ctx context.Context, userID int64, req LogRequest) (Entry, error) {
	now := s.now().UTC()
	if err := req.Validate(now); err != nil {
		return Entry{}, err
	}

	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}

	entry := Entry{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        date,
		Symptoms:    req.Symptoms,
		Medication:  req.Medication,
		Environment: req.Environment,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	entry.Derive()

	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return Entry{}, apperrors.Wrap("storage_error", "failed to store symptom log", err)
	}

	if created.FollowUpRequired {
		s.logger.Warn("severe symptom log created, follow-up required",
			"user_id", userID, "entry_id", created.ID, "severity", created.Severity)
	}
	return created, nil
}

func (s *service) History(ctx context.Context, userID int64, filter HistoryFilter) (HistoryPage, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}

	entries, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return HistoryPage{}, apperrors.Wrap("storage_error", "failed to list symptom logs", err)
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	return HistoryPage{
		Entries:     entries,
		CurrentPage: filter.Page,
		TotalPages:  totalPages,
		TotalLogs:   total,
		HasNextPage: filter.Page < totalPages,
		HasPrevPage: filter.Page > 1,
		Limit:       filter.Limit,
	}, nil
}

func (s *service) Get(ctx context.Context, userID int64, id uuid.UUID) (Entry, error) {
	entry, found, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return Entry{}, apperrors.Wrap("storage_error", "failed to load symptom log", err)
	}
	if !found {
		return Entry{}, apperrors.Wrap("not_found", ErrNotFound.Error(), nil)
	}
	return entry, nil
}

func (s *service) Update(ctx context.Context, userID int64, id uuid.UUID, req LogRequest) (Entry, error) {
	now := s.now().UTC()
	if err := req.Validate(now); err != nil {
		return Entry{}, err
	}

	entry, found, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return Entry{}, apperrors.Wrap("storage_error", "failed to load symptom log", err)
	}
	if !found {
		return Entry{}, apperrors.Wrap("not_found", ErrNotFound.Error(), nil)
	}

	entry.Symptoms = req.Symptoms
	entry.Medication = req.Medication
	entry.Environment = req.Environment
	entry.Notes = req.Notes
	if req.Date != nil {
		entry.Date = req.Date.UTC()
	}
	entry.UpdatedAt = now
	entry.Derive()

	updated, err := s.repo.Update(ctx, entry)
	if err != nil {
		return Entry{}, apperrors.Wrap("storage_error", "failed to update symptom log", err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return apperrors.Wrap("storage_error", "failed to delete symptom log", err)
	}
	if !deleted {
		return apperrors.Wrap("not_found", ErrNotFound.Error(), nil)
	}
	return nil
}

var periodPattern = regexp.MustCompile(`^(\d+)([dmy])$`)

func (s *service) Stats(ctx context.Context, userID int64, period string) (Stats, error) {
	if period == "" {
		period = "30d"
	}
	match := periodPattern.FindStringSubmatch(period)
	if match == nil {
		return Stats{}, apperrors.Wrap("invalid_input", `period: use a format like "30d", "7d" or "1y"`, nil)
	}
	amount, err := strconv.Atoi(match[1])
	if err != nil || amount <= 0 {
		return Stats{}, apperrors.Wrap("invalid_input", "period: amount must be a positive integer", nil)
	}

	end := s.now().UTC()
	var start time.Time
	switch match[2] {
	case "d":
		start = end.AddDate(0, 0, -amount)
	case "m":
		start = end.AddDate(0, -amount, 0)
	case "y":
		start = end.AddDate(-amount, 0, 0)
	}

	entries, err := s.repo.ListSince(ctx, userID, start)
	if err != nil {
		return Stats{}, apperrors.Wrap("storage_error", "failed to aggregate symptom logs", err)
	}

	stats := Stats{
		PeriodStart:  start,
		PeriodEnd:    end,
		PeriodAmount: amount,
		PeriodUnit:   match[2],
	}
	var wheezing, cough, breathlessness, chestTightness int
	for _, entry := range entries {
		stats.TotalLogs++
		if entry.Symptoms.Attack {
			stats.TotalAttacks++
		}
		wheezing += entry.Symptoms.Wheezing
		cough += entry.Symptoms.Cough
		breathlessness += intOrZero(entry.Symptoms.Breathlessness)
		chestTightness += intOrZero(entry.Symptoms.ChestTightness)
		switch entry.Severity {
		case SeveritySevere:
			stats.SevereCases++
		case SeverityModerate:
			stats.ModerateCases++
		case SeverityMild:
			stats.MildCases++
		}
	}
	if stats.TotalLogs > 0 {
		n := float64(stats.TotalLogs)
		stats.AvgWheezing = float64(wheezing) / n
		stats.AvgCough = float64(cough) / n
		stats.AvgBreathlessness = float64(breathlessness) / n
		stats.AvgChestTightness = float64(chestTightness) / n
	}
	return stats, nil
}
