package Models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Alert reasons for consumption anomalies
const (
	ReasonOverConsumption  = "over"
	ReasonUnderConsumption = "under"
)

// ConsumptionRule is the expected-efficiency baseline for one vehicle.
// One rule should logically apply per vehicle; the ledger does not enforce
// vehicle-uniqueness and resolves the first rule in insertion order.
type ConsumptionRule struct {
	gorm.Model
	RuleID           string  `json:"rule_id" gorm:"uniqueIndex;size:64"`
	VehicleID        string  `json:"vehicle_id" gorm:"index"`
	ExpectedLPer100  float64 `json:"expected_l_per_100"`
	TolerancePercent float64 `json:"tolerance_percent"`
}

// FuelReading is one odometer/liters observation. LPer100 is always derived
// by the ledger, never supplied by callers. Immutable once recorded.
type FuelReading struct {
	gorm.Model
	ReadingID  string  `json:"reading_id" gorm:"uniqueIndex;size:64"`
	VehicleID  string  `json:"vehicle_id" gorm:"index"`
	Date       string  `json:"date"` // "2006-01-02"
	Liters     float64 `json:"liters"`
	Kilometers float64 `json:"kilometers"`
	LPer100    float64 `json:"l_per_100"`
}

// ConsumptionAlert records one detected anomaly. At most one per reading,
// append-only.
type ConsumptionAlert struct {
	gorm.Model
	AlertID          string  `json:"alert_id" gorm:"uniqueIndex;size:64"`
	VehicleID        string  `json:"vehicle_id" gorm:"index"`
	Date             string  `json:"date"`
	ReadingID        string  `json:"reading_id"`
	Observed         float64 `json:"observed"`
	Expected         float64 `json:"expected"`
	DeviationPercent float64 `json:"deviation_percent"`
	Reason           string  `json:"reason"`

	PossibleCauses     []string       `json:"possible_causes" gorm:"-"`
	JSONPossibleCauses datatypes.JSON `json:"-"`
}

// BeforeSave serializes the causes list into the JSON column
func (a *ConsumptionAlert) BeforeSave(tx *gorm.DB) error {
	data, err := json.Marshal(a.PossibleCauses)
	if err != nil {
		return err
	}
	a.JSONPossibleCauses = data
	return nil
}

// AfterFind restores the causes list from the JSON column
func (a *ConsumptionAlert) AfterFind(tx *gorm.DB) error {
	if len(a.JSONPossibleCauses) == 0 {
		return nil
	}
	return json.Unmarshal(a.JSONPossibleCauses, &a.PossibleCauses)
}
