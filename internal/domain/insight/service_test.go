package insight

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
	"github.com/climahealth/climahealth-api/internal/domain/symptom"
	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
)

type stubEntryFetcher struct {
	entries []symptom.Entry
	err     error
}

func (f *stubEntryFetcher) ListSince(_ context.Context, _ int64, since time.Time) ([]symptom.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []symptom.Entry
	for _, entry := range f.entries {
		if !entry.Date.Before(since) {
			out = append(out, entry)
		}
	}
	return out, nil
}

type stubSampleFetcher struct {
	samples []climate.Sample
	err     error
}

func (f *stubSampleFetcher) ListSince(_ context.Context, since time.Time) ([]climate.Sample, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []climate.Sample
	for _, sample := range f.samples {
		if !sample.Date.Before(since) {
			out = append(out, sample)
		}
	}
	return out, nil
}

func newInsightService(entries EntryFetcher, samples SampleFetcher, now time.Time) *service {
	return &service{
		cfg:     DefaultConfig(),
		entries: entries,
		samples: samples,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     func() time.Time { return now },
	}
}

func TestBuildReportEndToEnd(t *testing.T) {
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

	// Ten entries over the last week, three of them attacks. Two attacks
	// have a high-AQI sample nearby; the third has no sample in range.
	entries := make([]symptom.Entry, 0, 10)
	for i := 0; i < 7; i++ {
		entries = append(entries, entryAt(now.AddDate(0, 0, -i).Add(-2*time.Hour), false, symptom.TriggerDust))
	}
	attackTimes := []time.Time{
		now.AddDate(0, 0, -1),
		now.AddDate(0, 0, -3),
		now.AddDate(0, 0, -5),
	}
	for _, ts := range attackTimes {
		entries = append(entries, entryAt(ts, true, symptom.TriggerPollen, symptom.TriggerDust))
	}

	samples := []climate.Sample{
		sampleAt(attackTimes[0].Add(-time.Hour), 150),
		sampleAt(attackTimes[1].Add(2*time.Hour), 120),
	}

	svc := newInsightService(&stubEntryFetcher{entries: entries}, &stubSampleFetcher{samples: samples}, now)

	report, err := svc.BuildReport(context.Background(), 1, 7)
	require.NoError(t, err)

	require.Equal(t, 10, report.Summary.TotalLogs)
	require.Equal(t, 3, report.Summary.AttackCount)
	require.Equal(t, 67, report.Correlations.AQI.HighAQIAttackPercentage)

	require.Equal(t, symptom.TriggerDust, report.Correlations.Triggers.MostCommon[0].Trigger)
	require.Equal(t, 10, report.Correlations.Triggers.MostCommon[0].Count)

	require.Len(t, report.Recommendations, 3)
	require.Equal(t, "environmental", report.Recommendations[0].Type)
	require.Equal(t, "trigger_management", report.Recommendations[1].Type)
	require.Contains(t, report.Recommendations[1].Message, "dust")
	require.Equal(t, "medical", report.Recommendations[2].Type)

	require.Equal(t, 7, report.Period.Days)
	require.Equal(t, now, report.Period.EndDate)
	require.Equal(t, now.AddDate(0, 0, -7), report.Period.StartDate)
}

func TestBuildReportDefaultsWindow(t *testing.T) {
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
	svc := newInsightService(&stubEntryFetcher{}, &stubSampleFetcher{}, now)

	report, err := svc.BuildReport(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Equal(t, 30, report.Period.Days)
	require.Equal(t, now.AddDate(0, 0, -30), report.Period.StartDate)
}

func TestBuildReportRepeatIsIdentical(t *testing.T) {
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
	entries := []symptom.Entry{
		entryAt(now.AddDate(0, 0, -2), true, symptom.TriggerSmoke),
		entryAt(now.AddDate(0, 0, -4), false, symptom.TriggerPollen),
	}
	samples := []climate.Sample{sampleAt(now.AddDate(0, 0, -2), 130)}
	svc := newInsightService(&stubEntryFetcher{entries: entries}, &stubSampleFetcher{samples: samples}, now)

	first, err := svc.BuildReport(context.Background(), 1, 7)
	require.NoError(t, err)
	second, err := svc.BuildReport(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBuildReportFetchFailureAborts(t *testing.T) {
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

	svc := newInsightService(&stubEntryFetcher{err: errors.New("db down")}, &stubSampleFetcher{}, now)
	_, err := svc.BuildReport(context.Background(), 1, 7)
	require.True(t, apperrors.IsCode(err, "fetch_failed"))

	svc = newInsightService(&stubEntryFetcher{}, &stubSampleFetcher{err: errors.New("db down")}, now)
	_, err = svc.BuildReport(context.Background(), 1, 7)
	require.True(t, apperrors.IsCode(err, "fetch_failed"))
}

func TestBuildReportEmptyHistory(t *testing.T) {
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
	svc := newInsightService(&stubEntryFetcher{}, &stubSampleFetcher{}, now)

	report, err := svc.BuildReport(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Zero(t, report.Summary.TotalLogs)
	require.Equal(t, "No attacks recorded in this period", report.Correlations.AQI.Message)
	require.Empty(t, report.Recommendations)
}
