package climate

// Neutral defaults applied when a reading is unavailable, chosen so absence
// never inflates risk.
const (
	defaultAQI         = 0
	defaultPollen      = 0
	defaultTemperature = 25
	defaultHumidity    = 60
)

// ClassifyRisk scores environmental readings into a risk level. Each axis
// contributes independently with no normalization; the threshold table is a
// compatibility contract and must not drift.
func ClassifyRisk(aqi, pollen, temperature, humidity *float64) RiskLevel {
	aqiVal := floatOr(aqi, defaultAQI)
	pollenVal := floatOr(pollen, defaultPollen)
	tempVal := floatOr(temperature, defaultTemperature)
	humidityVal := floatOr(humidity, defaultHumidity)

	score := 0
	switch {
	case aqiVal >= 150:
		score += 2
	case aqiVal >= 100:
		score++
	}
	switch {
	case pollenVal >= 3:
		score += 2
	case pollenVal >= 2:
		score++
	}
	if tempVal >= 35 || tempVal <= 15 {
		score++
	}
	if humidityVal <= 30 || humidityVal >= 80 {
		score++
	}

	switch {
	case score >= 4:
		return RiskHigh
	case score >= 2:
		return RiskModerate
	default:
		return RiskLow
	}
}

// EstimatePollen derives a pollen score in [0,5] from weather when no pollen
// provider is available. Temperate, moderately dry conditions score highest.
func EstimatePollen(temperature, humidity *float64) float64 {
	if temperature == nil || humidity == nil {
		return 0
	}
	temp, hum := *temperature, *humidity

	var risk float64
	switch {
	case temp >= 15 && temp <= 25:
		risk += 2
	case temp > 25 && temp <= 30:
		risk += 1.5
	case temp > 30 || temp < 10:
		risk += 0.5
	}
	switch {
	case hum >= 30 && hum <= 50:
		risk += 2
	case hum > 50 && hum <= 70:
		risk++
	case hum > 70:
		risk += 0.5
	}
	if risk > 5 {
		risk = 5
	}
	return risk
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
