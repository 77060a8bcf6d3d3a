package climate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
	"github.com/climahealth/climahealth-api/pkg/util"
)

// WeatherProvider hands back temperature and humidity for a coordinate, or
// an error when the upstream is unreachable. A nil provider leaves the
// readings unavailable.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (temperature, humidity *float64, raw []byte, err error)
}

// AirQualityProvider hands back the current AQI for a coordinate. A nil
// provider leaves the reading unavailable.
type AirQualityProvider interface {
	Current(ctx context.Context, lat, lon float64) (aqi *float64, raw []byte, err error)
}

// PollenProvider hands back a pollen score in [0,5] for a coordinate. It is
// optional; a nil provider falls back to the weather-based estimate.
type PollenProvider interface {
	Current(ctx context.Context, lat, lon float64) (pollen *float64, raw []byte, err error)
}

// Service exposes environmental condition workflows.
type Service interface {
	FetchCurrent(ctx context.Context, loc Location) (Sample, error)
	Latest(ctx context.Context, loc Location) (Sample, bool, error)
	TodayForecast(ctx context.Context, loc Location, recompute bool) (Sample, error)
}

// Config drives caching behavior for the climate domain.
type Config struct {
	CacheTTL time.Duration
}

type service struct {
	cfg        Config
	repo       Repository
	store      Store
	archive    Archive
	weather    WeatherProvider
	airQuality AirQualityProvider
	pollen     PollenProvider
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires up the climate domain. The pollen provider may be nil.
func NewService(cfg Config, repo Repository, store Store, archive Archive, weather WeatherProvider, airQuality AirQualityProvider, pollen PollenProvider, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		repo:       repo,
		store:      store,
		archive:    archive,
		weather:    weather,
		airQuality: airQuality,
		pollen:     pollen,
		logger:     logger.With("component", "climate.service"),
		now:        util.NowUTC,
	}
}

// FetchCurrent pulls fresh readings from every provider, derives the pollen
// estimate when needed, classifies risk and persists the sample. Provider
// failures degrade the affected reading to unavailable instead of failing
// the whole fetch; risk classification is total over missing inputs.
func (s *service) FetchCurrent(ctx context.Context, loc Location) (Sample, error) {
	readings, rawPayloads := s.collectReadings(ctx, loc)

	sample := Sample{
		ID:          uuid.New(),
		Location:    loc,
		Date:        s.now().UTC(),
		AQI:         readings.AQI,
		Temperature: readings.Temperature,
		Humidity:    readings.Humidity,
		Pollen:      readings.Pollen,
		RiskLevel:   ClassifyRisk(readings.AQI, readings.Pollen, readings.Temperature, readings.Humidity),
		CreatedAt:   s.now().UTC(),
	}

	sample.RawRef = s.archiveRaw(ctx, sample, rawPayloads)

	created, err := s.repo.Create(ctx, sample)
	if err != nil {
		return Sample{}, apperrors.Wrap("storage_error", "failed to store environmental sample", err)
	}

	if s.store != nil {
		if err := s.store.SaveLatest(ctx, created, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache latest conditions", "error", err)
		}
	}

	s.logger.Info("environmental sample recorded",
		"lat", loc.Lat, "lon", loc.Lon, "risk", created.RiskLevel,
		"pollen_estimated", readings.PollenEstimated)
	return created, nil
}

func (s *service) Latest(ctx context.Context, loc Location) (Sample, bool, error) {
	if s.store != nil {
		sample, found, err := s.store.GetLatest(ctx, loc)
		if err != nil {
			s.logger.Warn("conditions cache lookup failed", "error", err)
		} else if found {
			return sample, true, nil
		}
	}
	sample, found, err := s.repo.Latest(ctx, loc)
	if err != nil {
		return Sample{}, false, apperrors.Wrap("storage_error", "failed to load latest conditions", err)
	}
	return sample, found, nil
}

// TodayForecast returns the latest known conditions for the location,
// fetching fresh readings when none exist or a recompute is requested.
func (s *service) TodayForecast(ctx context.Context, loc Location, recompute bool) (Sample, error) {
	if !recompute {
		sample, found, err := s.Latest(ctx, loc)
		if err != nil {
			return Sample{}, err
		}
		if found {
			return sample, nil
		}
	}
	return s.FetchCurrent(ctx, loc)
}

type rawPayloads struct {
	Weather    json.RawMessage `json:"weather,omitempty"`
	AirQuality json.RawMessage `json:"aqi,omitempty"`
	Pollen     json.RawMessage `json:"pollen,omitempty"`
	Estimated  bool            `json:"pollenEstimated,omitempty"`
}

func (s *service) collectReadings(ctx context.Context, loc Location) (Readings, rawPayloads) {
	var readings Readings
	var raw rawPayloads

	if s.weather != nil {
		temperature, humidity, weatherRaw, err := s.weather.Current(ctx, loc.Lat, loc.Lon)
		if err != nil {
			s.logger.Warn("weather provider unavailable", "error", err)
		} else {
			readings.Temperature = temperature
			readings.Humidity = humidity
			raw.Weather = weatherRaw
		}
	}

	if s.airQuality != nil {
		aqi, aqiRaw, err := s.airQuality.Current(ctx, loc.Lat, loc.Lon)
		if err != nil {
			s.logger.Warn("air quality provider unavailable", "error", err)
		} else {
			readings.AQI = aqi
			raw.AirQuality = aqiRaw
		}
	}

	if s.pollen != nil {
		pollen, pollenRaw, err := s.pollen.Current(ctx, loc.Lat, loc.Lon)
		if err == nil {
			readings.Pollen = pollen
			raw.Pollen = pollenRaw
			return readings, raw
		}
		s.logger.Warn("pollen provider unavailable, estimating from weather", "error", err)
	}

	estimate := EstimatePollen(readings.Temperature, readings.Humidity)
	readings.Pollen = &estimate
	readings.PollenEstimated = true
	raw.Estimated = true
	return readings, raw
}

func (s *service) archiveRaw(ctx context.Context, sample Sample, raw rawPayloads) string {
	if s.archive == nil {
		return ""
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		s.logger.Warn("failed to encode raw provider payloads", "error", err)
		return ""
	}
	key := fmt.Sprintf("samples/%s/%s.json", sample.Date.Format("2006-01-02"), sample.ID)
	ref, err := s.archive.Put(ctx, key, payload)
	if err != nil {
		s.logger.Warn("failed to archive raw provider payloads", "error", err)
		return ""
	}
	return ref
}
