package climate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	samples []Sample
	latest  *Sample
}

func (r *stubRepo) Create(_ context.Context, sample Sample) (Sample, error) {
	r.samples = append(r.samples, sample)
	return sample, nil
}

func (r *stubRepo) Latest(_ context.Context, _ Location) (Sample, bool, error) {
	if r.latest == nil {
		return Sample{}, false, nil
	}
	return *r.latest, true, nil
}

func (r *stubRepo) ListSince(_ context.Context, _ time.Time) ([]Sample, error) {
	return r.samples, nil
}

type stubStore struct {
	saved  []Sample
	cached *Sample
	getErr error
}

func (s *stubStore) GetLatest(_ context.Context, _ Location) (Sample, bool, error) {
	if s.getErr != nil {
		return Sample{}, false, s.getErr
	}
	if s.cached == nil {
		return Sample{}, false, nil
	}
	return *s.cached, true, nil
}

func (s *stubStore) SaveLatest(_ context.Context, sample Sample, _ time.Duration) error {
	s.saved = append(s.saved, sample)
	return nil
}

type stubArchive struct {
	keys []string
	err  error
}

func (a *stubArchive) Put(_ context.Context, key string, _ []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	return "archive://" + key, nil
}

type stubWeather struct {
	temperature *float64
	humidity    *float64
	err         error
}

func (w *stubWeather) Current(_ context.Context, _, _ float64) (*float64, *float64, []byte, error) {
	if w.err != nil {
		return nil, nil, nil, w.err
	}
	return w.temperature, w.humidity, []byte(`{"main":{}}`), nil
}

type stubAirQuality struct {
	aqi *float64
	err error
}

func (a *stubAirQuality) Current(_ context.Context, _, _ float64) (*float64, []byte, error) {
	if a.err != nil {
		return nil, nil, a.err
	}
	return a.aqi, []byte(`{"data":{}}`), nil
}

type stubPollen struct {
	pollen *float64
	err    error
}

func (p *stubPollen) Current(_ context.Context, _, _ float64) (*float64, []byte, error) {
	if p.err != nil {
		return nil, nil, p.err
	}
	return p.pollen, []byte(`{"risk":{}}`), nil
}

func newClimateService(repo Repository, store Store, archive Archive, weather WeatherProvider, air AirQualityProvider, pollen PollenProvider, now time.Time) *service {
	return &service{
		cfg:        Config{CacheTTL: 30 * time.Minute},
		repo:       repo,
		store:      store,
		archive:    archive,
		weather:    weather,
		airQuality: air,
		pollen:     pollen,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        func() time.Time { return now },
	}
}

func TestFetchCurrentClassifiesAndPersists(t *testing.T) {
	repo := &stubRepo{}
	store := &stubStore{}
	archive := &stubArchive{}
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	svc := newClimateService(repo, store, archive,
		&stubWeather{temperature: f(38), humidity: f(85)},
		&stubAirQuality{aqi: f(180)},
		&stubPollen{pollen: f(4)},
		now)

	sample, err := svc.FetchCurrent(context.Background(), Location{Lat: 12.97, Lon: 77.59})
	require.NoError(t, err)
	require.Equal(t, RiskHigh, sample.RiskLevel)
	require.Equal(t, now, sample.Date)
	require.Len(t, repo.samples, 1)
	require.Len(t, store.saved, 1)
	require.Len(t, archive.keys, 1)
	require.Contains(t, archive.keys[0], "samples/2024-07-01/")
	require.Equal(t, "archive://"+archive.keys[0], sample.RawRef)
}

func TestFetchCurrentDegradesFailedProviderToNil(t *testing.T) {
	repo := &stubRepo{}
	svc := newClimateService(repo, nil, nil,
		&stubWeather{err: errors.New("timeout")},
		&stubAirQuality{aqi: f(100)},
		&stubPollen{err: errors.New("quota")},
		time.Now().UTC())

	sample, err := svc.FetchCurrent(context.Background(), Location{})
	require.NoError(t, err)
	require.Nil(t, sample.Temperature)
	require.Nil(t, sample.Humidity)
	require.NotNil(t, sample.AQI)
	// With no weather readings the estimate is zero, not absent.
	require.NotNil(t, sample.Pollen)
	require.Zero(t, *sample.Pollen)
	require.Equal(t, RiskLow, sample.RiskLevel)
}

func TestFetchCurrentWithoutAnyProviders(t *testing.T) {
	repo := &stubRepo{}
	svc := newClimateService(repo, nil, nil, nil, nil, nil, time.Now().UTC())

	sample, err := svc.FetchCurrent(context.Background(), Location{Lat: 12.97, Lon: 77.59})
	require.NoError(t, err)
	require.Nil(t, sample.AQI)
	require.Nil(t, sample.Temperature)
	require.Nil(t, sample.Humidity)
	require.NotNil(t, sample.Pollen)
	require.Zero(t, *sample.Pollen)
	require.Equal(t, RiskLow, sample.RiskLevel)
	require.Len(t, repo.samples, 1)
}

func TestFetchCurrentEstimatesPollenFromWeather(t *testing.T) {
	repo := &stubRepo{}
	svc := newClimateService(repo, nil, nil,
		&stubWeather{temperature: f(20), humidity: f(40)},
		&stubAirQuality{aqi: f(50)},
		&stubPollen{err: errors.New("unavailable")},
		time.Now().UTC())

	sample, err := svc.FetchCurrent(context.Background(), Location{})
	require.NoError(t, err)
	require.NotNil(t, sample.Pollen)
	require.InDelta(t, 4.0, *sample.Pollen, 1e-9)
	require.Equal(t, RiskModerate, sample.RiskLevel)
}

func TestFetchCurrentWithoutPollenProvider(t *testing.T) {
	repo := &stubRepo{}
	svc := newClimateService(repo, nil, nil,
		&stubWeather{temperature: f(28), humidity: f(60)},
		&stubAirQuality{aqi: f(50)},
		nil,
		time.Now().UTC())

	sample, err := svc.FetchCurrent(context.Background(), Location{})
	require.NoError(t, err)
	require.NotNil(t, sample.Pollen)
	require.InDelta(t, 2.5, *sample.Pollen, 1e-9)
}

func TestFetchCurrentArchiveFailureDoesNotAbort(t *testing.T) {
	repo := &stubRepo{}
	svc := newClimateService(repo, nil, &stubArchive{err: errors.New("bucket gone")},
		&stubWeather{temperature: f(20), humidity: f(50)},
		&stubAirQuality{aqi: f(40)},
		&stubPollen{pollen: f(1)},
		time.Now().UTC())

	sample, err := svc.FetchCurrent(context.Background(), Location{})
	require.NoError(t, err)
	require.Empty(t, sample.RawRef)
	require.Len(t, repo.samples, 1)
}

func TestLatestPrefersCacheAndFallsBack(t *testing.T) {
	cached := Sample{RiskLevel: RiskModerate}
	persisted := Sample{RiskLevel: RiskHigh}
	repo := &stubRepo{latest: &persisted}

	svc := newClimateService(repo, &stubStore{cached: &cached}, nil, nil, nil, nil, time.Now().UTC())
	sample, found, err := svc.Latest(context.Background(), Location{})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, RiskModerate, sample.RiskLevel)

	// A cache error degrades to the repository, not to a failure.
	svc = newClimateService(repo, &stubStore{getErr: errors.New("conn refused")}, nil, nil, nil, nil, time.Now().UTC())
	sample, found, err = svc.Latest(context.Background(), Location{})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, RiskHigh, sample.RiskLevel)
}

func TestTodayForecastRecomputeBypassesCache(t *testing.T) {
	cached := Sample{RiskLevel: RiskLow}
	repo := &stubRepo{}
	svc := newClimateService(repo, &stubStore{cached: &cached}, nil,
		&stubWeather{temperature: f(38), humidity: f(85)},
		&stubAirQuality{aqi: f(180)},
		&stubPollen{pollen: f(4)},
		time.Now().UTC())

	sample, err := svc.TodayForecast(context.Background(), Location{}, true)
	require.NoError(t, err)
	require.Equal(t, RiskHigh, sample.RiskLevel)
	require.Len(t, repo.samples, 1)

	// Without recompute the cached sample is returned untouched.
	sample, err = svc.TodayForecast(context.Background(), Location{}, false)
	require.NoError(t, err)
	require.Equal(t, RiskLow, sample.RiskLevel)
	require.Len(t, repo.samples, 1)
}
