package insight

import (
	"sort"
	"time"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
	"github.com/climahealth/climahealth-api/internal/domain/symptom"
)

// joinedAttack pairs an attack entry with its nearest environmental sample.
type joinedAttack struct {
	Entry  symptom.Entry
	Sample climate.Sample
}

// joinAttacks matches every attack entry to the environmental sample nearest
// in time, discarding matches farther than the tolerance. Both sequences are
// sorted once and walked with a single cursor, so the join costs O(n log n +
// m log m) for the sorts and O(n+m) for the walk. Non-attack entries are not
// joined; correlation is attack-focused.
func joinAttacks(entries []symptom.Entry, samples []climate.Sample, tolerance time.Duration) []joinedAttack {
	if len(samples) == 0 {
		return nil
	}

	attacks := make([]symptom.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Symptoms.Attack {
			attacks = append(attacks, entry)
		}
	}
	if len(attacks) == 0 {
		return nil
	}
	sort.SliceStable(attacks, func(i, j int) bool {
		return attacks[i].Date.Before(attacks[j].Date)
	})

	sorted := make([]climate.Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	joined := make([]joinedAttack, 0, len(attacks))
	idx := 0
	for _, entry := range attacks {
		// Advance only while the next sample is strictly closer; on a
		// distance tie the earlier sample wins, which keeps the join
		// deterministic.
		for idx+1 < len(sorted) &&
			absDuration(sorted[idx+1].Date.Sub(entry.Date)) < absDuration(sorted[idx].Date.Sub(entry.Date)) {
			idx++
		}
		if absDuration(sorted[idx].Date.Sub(entry.Date)) <= tolerance {
			joined = append(joined, joinedAttack{Entry: entry, Sample: sorted[idx]})
		}
	}
	return joined
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
