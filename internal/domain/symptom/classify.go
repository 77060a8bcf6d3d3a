package symptom

// ClassifySeverity derives the severity and follow-up flag from raw symptom
// measurements. Absent optional fields count as zero; the divisor stays 4 so
// an entry with only wheezing and cough reported is not inflated. An attack
// forces severe regardless of the average.
func ClassifySeverity(s Symptoms) (Severity, bool) {
	avg := float64(s.Wheezing+s.Cough+intOrZero(s.Breathlessness)+intOrZero(s.ChestTightness)) / 4

	severity := SeverityMild
	switch {
	case s.Attack || avg >= 7:
		severity = SeveritySevere
	case avg >= 4:
		severity = SeverityModerate
	}

	followUp := s.Attack || severity == SeveritySevere
	return severity, followUp
}

// OverallScore sums the reported intensities, adds a fixed attack weight and
// caps the result at 10. Used for display banding, not for severity.
func OverallScore(s Symptoms) int {
	score := s.Wheezing + s.Cough + intOrZero(s.Breathlessness) + intOrZero(s.ChestTightness)
	if s.Attack {
		score += 5
	}
	if score > 10 {
		score = 10
	}
	return score
}

// Derive recomputes every derived field in place. Called on create and on
// every update so derived state is always a pure function of the stored one.
func (e *Entry) Derive() {
	e.Severity, e.FollowUpRequired = ClassifySeverity(e.Symptoms)
	e.OverallScore = OverallScore(e.Symptoms)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
