package Consumption

import (
	"strings"
	"testing"

	"Osprey/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordReadingRaisesAlert(t *testing.T) {
	ledger := NewLedger()
	ledger.SetRule(Models.ConsumptionRule{
		RuleID:           "rule-1",
		VehicleID:        "truck-7",
		ExpectedLPer100:  8,
		TolerancePercent: 30,
	})

	reading, alert := ledger.RecordReading(Models.FuelReading{
		ReadingID:  "r-1",
		VehicleID:  "truck-7",
		Date:       "2025-06-10",
		Liters:     15,
		Kilometers: 100,
	})

	assert.Equal(t, 15.0, reading.LPer100)
	require.NotNil(t, alert)
	assert.Equal(t, "alert-1", alert.AlertID)
	assert.Equal(t, "r-1", alert.ReadingID)
	assert.Equal(t, 15.0, alert.Observed)
	assert.Equal(t, 8.0, alert.Expected)
	assert.Equal(t, 87.5, alert.DeviationPercent)
	assert.Equal(t, Models.ReasonOverConsumption, alert.Reason)
	assert.NotEmpty(t, alert.PossibleCauses)
}

func TestRecordReadingWithoutRule(t *testing.T) {
	ledger := NewLedger()

	reading, alert := ledger.RecordReading(Models.FuelReading{
		VehicleID:  "truck-9",
		Date:       "2025-06-10",
		Liters:     15,
		Kilometers: 100,
	})

	assert.Nil(t, alert)
	assert.NotEmpty(t, reading.ReadingID)
	assert.Equal(t, 15.0, reading.LPer100)
}

func TestRecordReadingWithinTolerance(t *testing.T) {
	ledger := NewLedger()
	ledger.SetRule(Models.ConsumptionRule{
		RuleID:           "rule-1",
		VehicleID:        "truck-7",
		ExpectedLPer100:  8,
		TolerancePercent: 30,
	})

	_, alert := ledger.RecordReading(Models.FuelReading{
		ReadingID:  "r-1",
		VehicleID:  "truck-7",
		Date:       "2025-06-10",
		Liters:     9,
		Kilometers: 100,
	})

	assert.Nil(t, alert)
	assert.Empty(t, ledger.ListAlerts("", "", ""))
}

func TestRecordReadingZeroDistance(t *testing.T) {
	ledger := NewLedger()
	ledger.SetRule(Models.ConsumptionRule{
		RuleID:           "rule-1",
		VehicleID:        "truck-7",
		ExpectedLPer100:  8,
		TolerancePercent: 30,
	})

	reading, alert := ledger.RecordReading(Models.FuelReading{
		ReadingID:  "r-1",
		VehicleID:  "truck-7",
		Date:       "2025-06-10",
		Liters:     40,
		Kilometers: 0,
	})

	// zero distance derives zero efficiency, 100% under the baseline
	assert.Equal(t, 0.0, reading.LPer100)
	require.NotNil(t, alert)
	assert.Equal(t, Models.ReasonUnderConsumption, alert.Reason)
	assert.Equal(t, -100.0, alert.DeviationPercent)
}

func TestSetRuleUpsertPreservesIdentity(t *testing.T) {
	ledger := NewLedger()
	first := ledger.SetRule(Models.ConsumptionRule{
		RuleID:           "rule-1",
		VehicleID:        "truck-7",
		ExpectedLPer100:  8,
		TolerancePercent: 30,
	})
	second := ledger.SetRule(Models.ConsumptionRule{
		RuleID:           "rule-1",
		VehicleID:        "truck-7",
		ExpectedLPer100:  9,
		TolerancePercent: 20,
	})

	assert.Same(t, first, second)
	assert.Equal(t, 9.0, first.ExpectedLPer100)
	assert.Equal(t, 20.0, first.TolerancePercent)
	assert.Len(t, ledger.Rules(), 1)
}

func TestRuleForVehicleFirstMatchWins(t *testing.T) {
	ledger := NewLedger()
	ledger.SetRule(Models.ConsumptionRule{RuleID: "rule-1", VehicleID: "truck-7", ExpectedLPer100: 8})
	ledger.SetRule(Models.ConsumptionRule{RuleID: "rule-2", VehicleID: "truck-7", ExpectedLPer100: 12})

	rule := ledger.RuleForVehicle("truck-7")
	require.NotNil(t, rule)
	assert.Equal(t, "rule-1", rule.RuleID)
}

func TestListReadingsDateBoundaries(t *testing.T) {
	ledger := NewLedger()
	for _, date := range []string{"2025-05-31", "2025-06-01", "2025-06-15", "2025-06-30", "2025-07-01"} {
		ledger.RecordReading(Models.FuelReading{
			ReadingID: "r-" + date,
			VehicleID: "truck-7",
			Date:      date,
			Liters:    10, Kilometers: 100,
		})
	}

	readings := ledger.ListReadings("truck-7", "2025-06-01", "2025-06-30")
	require.Len(t, readings, 3)
	assert.Equal(t, "2025-06-01", readings[0].Date)
	assert.Equal(t, "2025-06-30", readings[2].Date)

	// without bounds the whole log comes back
	assert.Len(t, ledger.ListReadings("", "", ""), 5)
	// vehicle filter is exact
	assert.Empty(t, ledger.ListReadings("truck-8", "", ""))
}

func TestAlertIDsStayMonotonicAfterRestore(t *testing.T) {
	ledger := NewLedger()
	ledger.Restore(
		[]Models.ConsumptionRule{{RuleID: "rule-1", VehicleID: "truck-7", ExpectedLPer100: 8, TolerancePercent: 30}},
		nil,
		[]Models.ConsumptionAlert{{AlertID: "alert-4", VehicleID: "truck-7", Date: "2025-06-01"}},
	)

	_, alert := ledger.RecordReading(Models.FuelReading{
		ReadingID: "r-1", VehicleID: "truck-7", Date: "2025-06-10", Liters: 15, Kilometers: 100,
	})
	require.NotNil(t, alert)
	assert.Equal(t, "alert-5", alert.AlertID)
}

func TestExportAlertsCSV(t *testing.T) {
	ledger := NewLedger()
	ledger.SetRule(Models.ConsumptionRule{RuleID: "rule-1", VehicleID: "truck-7", ExpectedLPer100: 8, TolerancePercent: 30})
	ledger.RecordReading(Models.FuelReading{
		ReadingID: "r-1", VehicleID: "truck-7", Date: "2025-06-10", Liters: 15, Kilometers: 100,
	})

	csv := ledger.ExportAlertsCSV()
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "alertId,vehicleId,date,readingId,observed,expected,deviationPercent,reason", lines[0])
	assert.Equal(t, `alert-1,truck-7,2025-06-10,r-1,15,8,87.5,"over"`, lines[1])
}
