package insight

import "fmt"

// recommend evaluates the advisory rules in a fixed order. Each rule fires
// independently and at most once, so a report carries between zero and three
// recommendations with no placeholders for the ones that did not trigger.
func recommend(summary Summary, correlations Correlations) []Recommendation {
	recs := make([]Recommendation, 0, 3)
	emitted := make(map[string]struct{}, 3)

	emit := func(rec Recommendation) {
		if _, dup := emitted[rec.Type]; dup {
			return
		}
		emitted[rec.Type] = struct{}{}
		recs = append(recs, rec)
	}

	if correlations.AQI.HighAQIAttackPercentage > 50 {
		emit(Recommendation{
			Type:     "environmental",
			Priority: "high",
			Message:  "Consider checking air quality before going outside and wearing a mask on high AQI days",
		})
	}

	if len(correlations.Triggers.MostCommon) > 0 {
		top := correlations.Triggers.MostCommon[0]
		emit(Recommendation{
			Type:     "trigger_management",
			Priority: "medium",
			Message:  fmt.Sprintf("Your most common trigger is %s. Consider discussing avoidance strategies with your healthcare provider", top.Trigger),
		})
	}

	if summary.AttackCount > 2 {
		emit(Recommendation{
			Type:     "medical",
			Priority: "high",
			Message:  "You've had multiple attacks recently. Please consult with your healthcare provider about your asthma management plan",
		})
	}

	return recs
}
