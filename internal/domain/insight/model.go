package insight

import (
	"time"

	"github.com/climahealth/climahealth-api/internal/domain/symptom"
)

// Summary carries the headline counts for the report window.
type Summary struct {
	TotalLogs            int                      `json:"totalLogs"`
	AttackCount          int                      `json:"attackCount"`
	AverageWheezing      float64                  `json:"averageWheezing"`
	AverageCough         float64                  `json:"averageCough"`
	SeverityDistribution map[symptom.Severity]int `json:"severityDistribution"`
}

// AQICorrelation relates attacks to high-AQI conditions. The percentage is
// computed against all attacks in the window, not only the joined ones; this
// matches the historical reports and must not be "fixed" silently.
type AQICorrelation struct {
	HighAQIAttackPercentage int    `json:"highAqiAttackPercentage"`
	Message                 string `json:"message"`
}

// TriggerCount ranks one trigger tag by how many entries carried it.
type TriggerCount struct {
	Trigger    symptom.Trigger `json:"trigger"`
	Count      int             `json:"count"`
	Percentage int             `json:"percentage"`
}

// TriggerCorrelation lists the most common triggers in the window.
type TriggerCorrelation struct {
	MostCommon []TriggerCount `json:"mostCommon"`
}

// Correlations groups every correlation block.
type Correlations struct {
	AQI      AQICorrelation     `json:"aqi"`
	Triggers TriggerCorrelation `json:"triggers"`
}

// HourCount is one bucket of the hour-of-day histogram.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// DayCount is one bucket of the day-of-week histogram.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// TimePatterns holds the peak buckets of the temporal histograms.
type TimePatterns struct {
	PeakHours []HourCount `json:"peakHours"`
	PeakDays  []DayCount  `json:"peakDays"`
}

// Trends groups trend blocks.
type Trends struct {
	TimePatterns TimePatterns `json:"timePatterns"`
}

// Recommendation is one advisory line.
type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// Period describes the report window.
type Period struct {
	Days      int       `json:"days"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Report is the assembled insight output. It is ephemeral; callers may
// persist or serialize it but the engine never does.
type Report struct {
	Summary         Summary          `json:"summary"`
	Correlations    Correlations     `json:"correlations"`
	Trends          Trends           `json:"trends"`
	Recommendations []Recommendation `json:"recommendations"`
	Period          Period           `json:"period"`
}

// Config drives the report computation.
type Config struct {
	// DefaultWindowDays is used when a caller passes a non-positive window.
	DefaultWindowDays int
	// JoinTolerance bounds the nearest-sample match for attack entries.
	JoinTolerance time.Duration
}

// DefaultConfig mirrors the historical report parameters.
func DefaultConfig() Config {
	return Config{
		DefaultWindowDays: 30,
		JoinTolerance:     4 * time.Hour,
	}
}
