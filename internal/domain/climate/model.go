package climate

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel classifies environmental conditions.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// Location identifies where a sample was taken.
type Location struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city,omitempty"`
	Country string  `json:"country,omitempty"`
}

// Sample is one environmental reading. Numeric fields are nil when the
// upstream provider could not supply them; RiskLevel is always recomputed
// from the four inputs at creation and never accepted from a caller. The raw
// provider payloads are retained for audit only and never read downstream.
type Sample struct {
	ID          uuid.UUID `json:"id"`
	Location    Location  `json:"location"`
	Date        time.Time `json:"date"`
	AQI         *float64  `json:"aqi"`
	Temperature *float64  `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	Pollen      *float64  `json:"pollen"`
	RiskLevel   RiskLevel `json:"riskLevel"`
	RawRef      string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Readings bundles the numeric observations returned by the providers.
type Readings struct {
	Temperature *float64
	Humidity    *float64
	AQI         *float64
	Pollen      *float64
	// PollenEstimated is true when the pollen score was derived from
	// weather instead of a dedicated provider.
	PollenEstimated bool
}
