package Consumption

import (
	"fmt"
	"strconv"
	"strings"

	"Osprey/Export"
	"Osprey/Models"

	"github.com/google/uuid"
)

// Ledger is the in-memory store for consumption rules, fuel readings and the
// alerts derived from them. It performs no locking: writes must be serialized
// by the caller (the HTTP controllers do).
type Ledger struct {
	rules    []*Models.ConsumptionRule
	readings []*Models.FuelReading
	alerts   []*Models.ConsumptionAlert
	alertSeq int
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// SetRule upserts a rule by its RuleID. An existing record keeps its identity
// and has its fields overwritten; a new rule is appended. The ledger does not
// enforce one rule per vehicle: RuleForVehicle resolves the first match in
// insertion order, so later rules for the same vehicle are shadowed.
func (l *Ledger) SetRule(rule Models.ConsumptionRule) *Models.ConsumptionRule {
	if rule.RuleID == "" {
		rule.RuleID = uuid.NewString()
	}
	for _, existing := range l.rules {
		if existing.RuleID == rule.RuleID {
			existing.VehicleID = rule.VehicleID
			existing.ExpectedLPer100 = rule.ExpectedLPer100
			existing.TolerancePercent = rule.TolerancePercent
			return existing
		}
	}
	stored := rule
	l.rules = append(l.rules, &stored)
	return &stored
}

// RuleForVehicle returns the first rule recorded for the vehicle, or nil
func (l *Ledger) RuleForVehicle(vehicleID string) *Models.ConsumptionRule {
	for _, rule := range l.rules {
		if rule.VehicleID == vehicleID {
			return rule
		}
	}
	return nil
}

// RecordReading derives the reading's L/100km figure, appends it to the log
// and evaluates the vehicle's rule if one exists. When the deviation exceeds
// the rule's tolerance band an alert is appended and returned; otherwise the
// alert is nil. Recording never fails: malformed numeric input degrades to
// the defined edge-case outputs.
func (l *Ledger) RecordReading(reading Models.FuelReading) (*Models.FuelReading, *Models.ConsumptionAlert) {
	if reading.ReadingID == "" {
		reading.ReadingID = uuid.NewString()
	}
	reading.LPer100 = ComputeEfficiency(reading.Liters, reading.Kilometers)

	stored := reading
	l.readings = append(l.readings, &stored)

	rule := l.RuleForVehicle(stored.VehicleID)
	if rule == nil {
		return &stored, nil
	}

	classification := ClassifyDeviation(rule.ExpectedLPer100, stored.LPer100, rule.TolerancePercent)
	if !classification.IsAnomaly {
		return &stored, nil
	}

	l.alertSeq++
	alert := &Models.ConsumptionAlert{
		AlertID:          fmt.Sprintf("alert-%d", l.alertSeq),
		VehicleID:        stored.VehicleID,
		Date:             stored.Date,
		ReadingID:        stored.ReadingID,
		Observed:         stored.LPer100,
		Expected:         rule.ExpectedLPer100,
		DeviationPercent: classification.DeviationPercent,
		Reason:           classification.Reason,
		PossibleCauses:   classification.PossibleCauses,
	}
	l.alerts = append(l.alerts, alert)
	return &stored, alert
}

// ListReadings filters the reading log by optional vehicle id and optional
// inclusive [from, to] date range
func (l *Ledger) ListReadings(vehicleID, from, to string) []*Models.FuelReading {
	var out []*Models.FuelReading
	for _, reading := range l.readings {
		if vehicleID != "" && reading.VehicleID != vehicleID {
			continue
		}
		if !inDateRange(reading.Date, from, to) {
			continue
		}
		out = append(out, reading)
	}
	return out
}

// ListAlerts filters the alert log by optional vehicle id and optional
// inclusive [from, to] date range
func (l *Ledger) ListAlerts(vehicleID, from, to string) []*Models.ConsumptionAlert {
	var out []*Models.ConsumptionAlert
	for _, alert := range l.alerts {
		if vehicleID != "" && alert.VehicleID != vehicleID {
			continue
		}
		if !inDateRange(alert.Date, from, to) {
			continue
		}
		out = append(out, alert)
	}
	return out
}

// Rules returns the rule log in insertion order
func (l *Ledger) Rules() []*Models.ConsumptionRule {
	return l.rules
}

// ExportAlertsCSV renders the full alert log as CSV. The reason column is
// always quoted.
func (l *Ledger) ExportAlertsCSV() string {
	var b strings.Builder
	b.WriteString("alertId,vehicleId,date,readingId,observed,expected,deviationPercent,reason\n")
	for _, alert := range l.alerts {
		fields := []string{
			Export.CSVEscape(alert.AlertID),
			Export.CSVEscape(alert.VehicleID),
			Export.CSVEscape(alert.Date),
			Export.CSVEscape(alert.ReadingID),
			formatFloat(alert.Observed),
			formatFloat(alert.Expected),
			formatFloat(alert.DeviationPercent),
			Export.CSVQuote(alert.Reason),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}
	return b.String()
}

// Restore hydrates the ledger from previously persisted records, keeping the
// alert counter ahead of every restored alert id.
func (l *Ledger) Restore(rules []Models.ConsumptionRule, readings []Models.FuelReading, alerts []Models.ConsumptionAlert) {
	for i := range rules {
		rule := rules[i]
		l.rules = append(l.rules, &rule)
	}
	for i := range readings {
		reading := readings[i]
		l.readings = append(l.readings, &reading)
	}
	for i := range alerts {
		alert := alerts[i]
		l.alerts = append(l.alerts, &alert)
		var seq int
		if _, err := fmt.Sscanf(alert.AlertID, "alert-%d", &seq); err == nil && seq > l.alertSeq {
			l.alertSeq = seq
		}
	}
}

// inDateRange keeps boundary-exact dates: a record is excluded only when it
// falls strictly before from or strictly after to. ISO dates compare
// lexicographically.
func inDateRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
