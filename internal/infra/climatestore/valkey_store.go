package climatestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
)

// ValkeyStore caches the latest conditions per coordinate in a
// Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "climate"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// GetLatest returns the cached sample for the coordinate, if any.
func (s *ValkeyStore) GetLatest(ctx context.Context, loc climate.Location) (climate.Sample, bool, error) {
	cmd := s.client.B().Get().Key(s.latestKey(loc)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return climate.Sample{}, false, nil
		}
		return climate.Sample{}, false, err
	}
	var sample climate.Sample
	if err := json.Unmarshal([]byte(payload), &sample); err != nil {
		return climate.Sample{}, false, err
	}
	return sample, true, nil
}

// SaveLatest caches the sample with the given TTL.
func (s *ValkeyStore) SaveLatest(ctx context.Context, sample climate.Sample, ttl time.Duration) error {
	payload, err := json.Marshal(sample)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.latestKey(sample.Location)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) latestKey(loc climate.Location) string {
	return fmt.Sprintf("%s:latest:%g:%g", s.prefix, loc.Lat, loc.Lon)
}

var _ climate.Store = (*ValkeyStore)(nil)
