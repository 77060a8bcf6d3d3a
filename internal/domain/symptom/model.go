package symptom

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies a single symptom entry.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Trigger is a suspected cause tag drawn from a fixed vocabulary.
type Trigger string

const (
	TriggerPollen     Trigger = "pollen"
	TriggerDust       Trigger = "dust"
	TriggerSmoke      Trigger = "smoke"
	TriggerExercise   Trigger = "exercise"
	TriggerStress     Trigger = "stress"
	TriggerWeather    Trigger = "weather"
	TriggerFood       Trigger = "food"
	TriggerMedication Trigger = "medication"
	TriggerPollution  Trigger = "pollution"
	TriggerPetDander  Trigger = "pet_dander"
	TriggerMold       Trigger = "mold"
	TriggerOther      Trigger = "other"
)

// Triggers lists the accepted trigger vocabulary.
var Triggers = []Trigger{
	TriggerPollen, TriggerDust, TriggerSmoke, TriggerExercise, TriggerStress,
	TriggerWeather, TriggerFood, TriggerMedication, TriggerPollution,
	TriggerPetDander, TriggerMold, TriggerOther,
}

// Symptoms holds the raw measurements of one logged event. Wheezing and cough
// are required; breathlessness and chest tightness may be absent.
type Symptoms struct {
	Wheezing       int       `json:"wheezing"`
	Cough          int       `json:"cough"`
	Breathlessness *int      `json:"breathlessness,omitempty"`
	ChestTightness *int      `json:"chestTightness,omitempty"`
	Attack         bool      `json:"attack"`
	Triggers       []Trigger `json:"triggers,omitempty"`
	PeakFlow       *float64  `json:"peakFlow,omitempty"`
}

// Medication records reliever/controller usage alongside an entry.
type Medication struct {
	RelieverUsed    bool     `json:"relieverUsed"`
	RelieverDoses   *int     `json:"relieverDoses,omitempty"`
	ControllerTaken bool     `json:"controllerTaken"`
	Other           []string `json:"otherMedications,omitempty"`
}

// Environment captures where the event happened.
type Environment struct {
	Lat           *float64 `json:"lat,omitempty"`
	Lon           *float64 `json:"lon,omitempty"`
	IndoorOutdoor string   `json:"indoorOutdoor,omitempty"`
	Activity      string   `json:"activity,omitempty"`
}

// Entry is one persisted symptom log. Severity, FollowUpRequired and
// OverallScore are derived from Symptoms on every write and never accepted
// from a caller.
type Entry struct {
	ID          uuid.UUID   `json:"id"`
	UserID      int64       `json:"userId"`
	Date        time.Time   `json:"date"`
	Symptoms    Symptoms    `json:"symptoms"`
	Medication  Medication  `json:"medication"`
	Environment Environment `json:"environment"`
	Notes       string      `json:"notes,omitempty"`

	Severity         Severity `json:"severity"`
	FollowUpRequired bool     `json:"followUpRequired"`
	OverallScore     int      `json:"overallScore"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LogRequest is the payload accepted when creating or updating an entry.
type LogRequest struct {
	Symptoms    Symptoms    `json:"symptoms"`
	Medication  Medication  `json:"medication"`
	Environment Environment `json:"environment"`
	Notes       string      `json:"notes"`
	Date        *time.Time  `json:"date,omitempty"`
}

// HistoryFilter narrows and paginates a history listing.
type HistoryFilter struct {
	Severity  Severity
	HasAttack *bool
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
	SortDesc  bool
}

// HistoryPage is a paginated slice of entries.
type HistoryPage struct {
	Entries     []Entry `json:"logs"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
	TotalLogs   int     `json:"totalLogs"`
	HasNextPage bool    `json:"hasNextPage"`
	HasPrevPage bool    `json:"hasPrevPage"`
	Limit       int     `json:"limit"`
}

// Stats aggregates a user's history over a period.
type Stats struct {
	TotalLogs         int       `json:"totalLogs"`
	TotalAttacks      int       `json:"totalAttacks"`
	AvgWheezing       float64   `json:"avgWheezing"`
	AvgCough          float64   `json:"avgCough"`
	AvgBreathlessness float64   `json:"avgBreathlessness"`
	AvgChestTightness float64   `json:"avgChestTightness"`
	SevereCases       int       `json:"severeCases"`
	ModerateCases     int       `json:"moderateCases"`
	MildCases         int       `json:"mildCases"`
	PeriodStart       time.Time `json:"periodStart"`
	PeriodEnd         time.Time `json:"periodEnd"`
	PeriodAmount      int       `json:"periodAmount"`
	PeriodUnit        string    `json:"periodUnit"`
}
