package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
	"github.com/climahealth/climahealth-api/internal/domain/symptom"
)

func attackAt(ts time.Time) symptom.Entry {
	return symptom.Entry{
		Date:     ts,
		Symptoms: symptom.Symptoms{Attack: true},
	}
}

func sampleAt(ts time.Time, aqi float64) climate.Sample {
	return climate.Sample{Date: ts, AQI: &aqi}
}

func TestJoinAttacksPicksNearestWithinTolerance(t *testing.T) {
	attack := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)
	// Deliberately unsorted; the join must not depend on input order.
	samples := []climate.Sample{
		sampleAt(attack.Add(-3*time.Hour), 160),
		sampleAt(attack.Add(-5*time.Hour), 80),
	}

	joined := joinAttacks([]symptom.Entry{attackAt(attack)}, samples, 4*time.Hour)
	require.Len(t, joined, 1)
	require.Equal(t, 160.0, *joined[0].Sample.AQI)
}

func TestJoinAttacksDropsMatchesOutsideTolerance(t *testing.T) {
	attack := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)
	samples := []climate.Sample{sampleAt(attack.Add(-5*time.Hour), 160)}

	joined := joinAttacks([]symptom.Entry{attackAt(attack)}, samples, 4*time.Hour)
	require.Empty(t, joined)
}

func TestJoinAttacksEmptyInputs(t *testing.T) {
	attack := attackAt(time.Now().UTC())
	sample := sampleAt(time.Now().UTC(), 120)

	require.Empty(t, joinAttacks(nil, []climate.Sample{sample}, time.Hour))
	require.Empty(t, joinAttacks([]symptom.Entry{attack}, nil, time.Hour))
}

func TestJoinAttacksIgnoresNonAttackEntries(t *testing.T) {
	ts := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)
	entries := []symptom.Entry{
		{Date: ts, Symptoms: symptom.Symptoms{Wheezing: 9}},
	}
	joined := joinAttacks(entries, []climate.Sample{sampleAt(ts, 200)}, time.Hour)
	require.Empty(t, joined)
}

func TestJoinAttacksTieBreaksOnEarlierSample(t *testing.T) {
	attack := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)
	samples := []climate.Sample{
		sampleAt(attack.Add(2*time.Hour), 50),
		sampleAt(attack.Add(-2*time.Hour), 150),
	}

	for i := 0; i < 5; i++ {
		joined := joinAttacks([]symptom.Entry{attackAt(attack)}, samples, 4*time.Hour)
		require.Len(t, joined, 1)
		require.Equal(t, 150.0, *joined[0].Sample.AQI)
	}
}

func TestJoinAttacksMultipleAttacksSharedCursor(t *testing.T) {
	base := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	samples := []climate.Sample{
		sampleAt(base.Add(1*time.Hour), 120),
		sampleAt(base.Add(10*time.Hour), 60),
		sampleAt(base.Add(20*time.Hour), 180),
	}
	entries := []symptom.Entry{
		attackAt(base.Add(21 * time.Hour)),
		attackAt(base.Add(2 * time.Hour)),
		attackAt(base.Add(9 * time.Hour)),
	}

	joined := joinAttacks(entries, samples, 4*time.Hour)
	require.Len(t, joined, 3)
	// Output follows chronological attack order regardless of input order.
	require.Equal(t, 120.0, *joined[0].Sample.AQI)
	require.Equal(t, 60.0, *joined[1].Sample.AQI)
	require.Equal(t, 180.0, *joined[2].Sample.AQI)
}
