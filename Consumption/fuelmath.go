package Consumption

import (
	"math"

	"Osprey/Models"
)

// DefaultTolerancePercent is the conventional anomaly band applied when a
// rule does not carry its own tolerance.
const DefaultTolerancePercent = 30.0

// Candidate causes reported with an anomaly, ordered by likelihood.
var (
	overConsumptionCauses = []string{
		"Fuel leak or theft",
		"Mechanical issue (injection, compression)",
		"Inefficient driving or vehicle overload",
	}
	underConsumptionCauses = []string{
		"Erroneous fuel or odometer logging",
		"Reduced load or favorable conditions",
	}
)

// Classification is the outcome of comparing an observed efficiency against
// the expected baseline.
type Classification struct {
	IsAnomaly        bool     `json:"is_anomaly"`
	DeviationPercent float64  `json:"deviation_percent"`
	Reason           string   `json:"reason,omitempty"`
	PossibleCauses   []string `json:"possible_causes,omitempty"`
}

// ComputeEfficiency derives fuel consumption in L/100km from a liters and
// kilometers pair. Zero or negative distance is a defined edge case, not an
// error: the efficiency is reported as 0.
func ComputeEfficiency(liters, kilometers float64) float64 {
	if kilometers <= 0 {
		return 0
	}
	return round3(liters / (kilometers / 100))
}

// ClassifyDeviation compares an observed L/100km figure against the expected
// baseline within a tolerance band (percent). A zero expected baseline is
// reported as exactly 100 percent deviation; that keeps the division defined
// and matches the historical convention of this detector.
func ClassifyDeviation(expected, observed, tolerancePercent float64) Classification {
	deviation := observed - expected

	deviationPercent := 100.0
	if expected != 0 {
		deviationPercent = deviation / expected * 100
	}

	result := Classification{
		IsAnomaly:        math.Abs(deviationPercent) > tolerancePercent,
		DeviationPercent: round2(deviationPercent),
	}
	if !result.IsAnomaly {
		return result
	}

	if deviationPercent > 0 {
		result.Reason = Models.ReasonOverConsumption
		result.PossibleCauses = overConsumptionCauses
	} else {
		result.Reason = Models.ReasonUnderConsumption
		result.PossibleCauses = underConsumptionCauses
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
