package insight

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/climahealth/climahealth-api/internal/domain/climate"
	"github.com/climahealth/climahealth-api/internal/domain/symptom"
)

const highAQIThreshold = 100

var dayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// analyze computes the summary, correlation and trend blocks over the
// windowed history. Records outside [start, end] never participate.
func analyze(entries []symptom.Entry, samples []climate.Sample, start, end time.Time, tolerance time.Duration) (Summary, Correlations, Trends) {
	entries = filterEntries(entries, start, end)
	samples = filterSamples(samples, start, end)

	summary := summarize(entries)
	correlations := Correlations{
		AQI:      aqiCorrelation(entries, samples, summary.AttackCount, tolerance),
		Triggers: triggerCorrelation(entries),
	}
	trends := Trends{TimePatterns: timePatterns(entries)}
	return summary, correlations, trends
}

func summarize(entries []symptom.Entry) Summary {
	summary := Summary{
		SeverityDistribution: map[symptom.Severity]int{
			symptom.SeverityMild:     0,
			symptom.SeverityModerate: 0,
			symptom.SeveritySevere:   0,
		},
	}

	var wheezing, cough int
	for _, entry := range entries {
		summary.TotalLogs++
		if entry.Symptoms.Attack {
			summary.AttackCount++
		}
		wheezing += entry.Symptoms.Wheezing
		cough += entry.Symptoms.Cough
		summary.SeverityDistribution[entry.Severity]++
	}
	if summary.TotalLogs > 0 {
		summary.AverageWheezing = float64(wheezing) / float64(summary.TotalLogs)
		summary.AverageCough = float64(cough) / float64(summary.TotalLogs)
	}
	return summary
}

// aqiCorrelation reports what share of all attacks happened under high AQI.
// The numerator counts only attacks with a joined sample while the
// denominator counts every attack; the mismatch is intentional and preserved
// for continuity of reported statistics.
func aqiCorrelation(entries []symptom.Entry, samples []climate.Sample, totalAttacks int, tolerance time.Duration) AQICorrelation {
	if totalAttacks == 0 {
		return AQICorrelation{
			HighAQIAttackPercentage: 0,
			Message:                 "No attacks recorded in this period",
		}
	}

	highAQIAttacks := 0
	for _, joined := range joinAttacks(entries, samples, tolerance) {
		if joined.Sample.AQI != nil && *joined.Sample.AQI >= highAQIThreshold {
			highAQIAttacks++
		}
	}

	pct := roundPercent(highAQIAttacks, totalAttacks)
	return AQICorrelation{
		HighAQIAttackPercentage: pct,
		Message:                 fmt.Sprintf("%d%% of your attacks occurred when AQI was >= %d", pct, highAQIThreshold),
	}
}

func triggerCorrelation(entries []symptom.Entry) TriggerCorrelation {
	counts := make(map[symptom.Trigger]int)
	firstSeen := make(map[symptom.Trigger]int)
	order := 0

	for _, entry := range entries {
		for _, trigger := range entry.Symptoms.Triggers {
			if _, seen := counts[trigger]; !seen {
				firstSeen[trigger] = order
				order++
			}
			counts[trigger]++
		}
	}

	ranked := make([]TriggerCount, 0, len(counts))
	for trigger, count := range counts {
		ranked = append(ranked, TriggerCount{
			Trigger:    trigger,
			Count:      count,
			Percentage: roundPercent(count, len(entries)),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Trigger] < firstSeen[ranked[j].Trigger]
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	return TriggerCorrelation{MostCommon: ranked}
}

func timePatterns(entries []symptom.Entry) TimePatterns {
	var hourly [24]int
	var daily [7]int
	for _, entry := range entries {
		ts := entry.Date.UTC()
		hourly[ts.Hour()]++
		daily[int(ts.Weekday())]++
	}

	hours := make([]HourCount, 24)
	for hour, count := range hourly {
		hours[hour] = HourCount{Hour: hour, Count: count}
	}
	sort.SliceStable(hours, func(i, j int) bool {
		if hours[i].Count != hours[j].Count {
			return hours[i].Count > hours[j].Count
		}
		return hours[i].Hour < hours[j].Hour
	})

	days := make([]DayCount, 7)
	dayIndex := make(map[string]int, 7)
	for day, count := range daily {
		days[day] = DayCount{Day: dayNames[day], Count: count}
		dayIndex[dayNames[day]] = day
	}
	sort.SliceStable(days, func(i, j int) bool {
		if days[i].Count != days[j].Count {
			return days[i].Count > days[j].Count
		}
		return dayIndex[days[i].Day] < dayIndex[days[j].Day]
	})

	return TimePatterns{PeakHours: hours[:3], PeakDays: days[:3]}
}

func filterEntries(entries []symptom.Entry, start, end time.Time) []symptom.Entry {
	filtered := make([]symptom.Entry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Date.Before(start) && !entry.Date.After(end) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func filterSamples(samples []climate.Sample, start, end time.Time) []climate.Sample {
	filtered := make([]climate.Sample, 0, len(samples))
	for _, sample := range samples {
		if !sample.Date.Before(start) && !sample.Date.After(end) {
			filtered = append(filtered, sample)
		}
	}
	return filtered
}

func roundPercent(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(100 * float64(numerator) / float64(denominator)))
}
