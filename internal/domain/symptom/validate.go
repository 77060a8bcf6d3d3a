package symptom

import (
	"fmt"
	"time"

	apperrors "github.com/climahealth/climahealth-api/pkg/errors"
)

const maxNotesLen = 500

func invalidField(field, message string) error {
	return apperrors.Wrap("invalid_input", fmt.Sprintf("%s: %s", field, message), nil)
}

// Validate rejects malformed payloads before any classification runs. The
// returned error names the specific offending field.
func (r LogRequest) Validate(now time.Time) error {
	if r.Symptoms.Wheezing < 0 || r.Symptoms.Wheezing > 10 {
		return invalidField("symptoms.wheezing", "must be between 0 and 10")
	}
	if r.Symptoms.Cough < 0 || r.Symptoms.Cough > 10 {
		return invalidField("symptoms.cough", "must be between 0 and 10")
	}
	if v := r.Symptoms.Breathlessness; v != nil && (*v < 0 || *v > 10) {
		return invalidField("symptoms.breathlessness", "must be between 0 and 10")
	}
	if v := r.Symptoms.ChestTightness; v != nil && (*v < 0 || *v > 10) {
		return invalidField("symptoms.chestTightness", "must be between 0 and 10")
	}
	if v := r.Symptoms.PeakFlow; v != nil && (*v < 50 || *v > 800) {
		return invalidField("symptoms.peakFlow", "must be between 50 and 800")
	}
	for _, trigger := range r.Symptoms.Triggers {
		if !validTrigger(trigger) {
			return invalidField("symptoms.triggers", fmt.Sprintf("unknown trigger %q", trigger))
		}
	}
	if r.Date != nil && r.Date.After(now) {
		return invalidField("date", "cannot be in the future")
	}
	if v := r.Medication.RelieverDoses; v != nil && (*v < 0 || *v > 20) {
		return invalidField("medication.relieverDoses", "must be between 0 and 20")
	}
	if lat := r.Environment.Lat; lat != nil && (*lat < -90 || *lat > 90) {
		return invalidField("environment.lat", "must be between -90 and 90")
	}
	if lon := r.Environment.Lon; lon != nil && (*lon < -180 || *lon > 180) {
		return invalidField("environment.lon", "must be between -180 and 180")
	}
	if len(r.Notes) > maxNotesLen {
		return invalidField("notes", "cannot exceed 500 characters")
	}
	return nil
}

func validTrigger(t Trigger) bool {
	for _, known := range Triggers {
		if t == known {
			return true
		}
	}
	return false
}
