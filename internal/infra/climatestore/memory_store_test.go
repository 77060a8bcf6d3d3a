package climatestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
)

func TestMemoryStoreExpiresByTTL(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	loc := climate.Location{Lat: 12.97, Lon: 77.59}
	sample := climate.Sample{Location: loc, RiskLevel: climate.RiskModerate}
	require.NoError(t, store.SaveLatest(context.Background(), sample, 30*time.Minute))

	got, found, err := store.GetLatest(context.Background(), loc)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, climate.RiskModerate, got.RiskLevel)

	now = now.Add(31 * time.Minute)
	_, found, err = store.GetLatest(context.Background(), loc)
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore()
	loc := climate.Location{Lat: 1, Lon: 2}
	require.NoError(t, store.SaveLatest(context.Background(), climate.Sample{Location: loc}, 0))

	store.now = func() time.Time { return time.Now().UTC().AddDate(1, 0, 0) }
	_, found, err := store.GetLatest(context.Background(), loc)
	require.NoError(t, err)
	require.True(t, found)
}

func TestMemoryStoreMissesUnknownLocation(t *testing.T) {
	store := NewMemoryStore()
	_, found, err := store.GetLatest(context.Background(), climate.Location{Lat: 50, Lon: 8})
	require.NoError(t, err)
	require.False(t, found)
}
