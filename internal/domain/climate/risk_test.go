package climate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestClassifyRiskDefaultsToLow(t *testing.T) {
	// Missing inputs fall back to neutral values and never inflate risk.
	require.Equal(t, RiskLow, ClassifyRisk(nil, nil, nil, nil))
}

func TestClassifyRiskAQIBoundaries(t *testing.T) {
	// 149 contributes nothing, 150 contributes the full +2.
	require.Equal(t, RiskLow, ClassifyRisk(f(149), nil, nil, nil))
	require.Equal(t, RiskModerate, ClassifyRisk(f(150), nil, nil, nil))
	require.Equal(t, RiskLow, ClassifyRisk(f(100), nil, nil, nil))
}

func TestClassifyRiskPollenBoundaries(t *testing.T) {
	require.Equal(t, RiskLow, ClassifyRisk(nil, f(2), nil, nil))
	require.Equal(t, RiskModerate, ClassifyRisk(nil, f(3), nil, nil))
}

func TestClassifyRiskTemperatureAndHumidityBoundaries(t *testing.T) {
	// Each extreme contributes exactly +1; 15 and 35 are inclusive.
	require.Equal(t, RiskModerate, ClassifyRisk(nil, nil, f(15), f(30)))
	require.Equal(t, RiskModerate, ClassifyRisk(nil, nil, f(35), f(80)))
	require.Equal(t, RiskLow, ClassifyRisk(nil, nil, f(16), f(31)))
	require.Equal(t, RiskLow, ClassifyRisk(nil, nil, f(34), f(79)))
}

func TestClassifyRiskScoreThresholds(t *testing.T) {
	// Score of exactly 4: AQI +2, pollen +2.
	require.Equal(t, RiskHigh, ClassifyRisk(f(150), f(3), nil, nil))
	// Score of exactly 2: AQI +1, temperature +1.
	require.Equal(t, RiskModerate, ClassifyRisk(f(100), nil, f(36), nil))
	// Score of 1 stays low.
	require.Equal(t, RiskLow, ClassifyRisk(nil, nil, f(36), nil))
}

func TestClassifyRiskDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		require.Equal(t, RiskHigh, ClassifyRisk(f(180), f(4), f(38), f(85)))
	}
}

func TestEstimatePollen(t *testing.T) {
	// Temperate and moderately dry scores the maximum contributions.
	require.InDelta(t, 4.0, EstimatePollen(f(20), f(40)), 1e-9)
	require.InDelta(t, 2.5, EstimatePollen(f(28), f(60)), 1e-9)
	require.InDelta(t, 1.0, EstimatePollen(f(32), f(75)), 1e-9)
	// Either reading missing disables the estimate entirely.
	require.Zero(t, EstimatePollen(nil, f(40)))
	require.Zero(t, EstimatePollen(f(20), nil))
}
