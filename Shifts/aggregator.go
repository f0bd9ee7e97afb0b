package Shifts

import (
	"log"
	"math"
	"time"

	"Osprey/Export"
	"Osprey/Models"

	"github.com/google/uuid"
)

// DefaultWeeklyLimitHours is the conventional working-hours threshold
const DefaultWeeklyLimitHours = 40.0

// PeriodHours is the bounded-period total for one driver
type PeriodHours struct {
	Hours   float64 `json:"hours"`
	Exceeds bool    `json:"exceeds"`
}

// CalculateHoursForPeriod sums, for one driver, the overlap of every assigned
// shift instance with the [from, to] query window, in hours rounded to three
// decimals. Overlapping and duplicate assignments each contribute their own
// interval. Assignments whose shift id cannot be resolved, or whose times do
// not parse, are skipped with a logged warning rather than failing the whole
// aggregation: the logs tolerate dangling references from partial imports.
func CalculateHoursForPeriod(driverID string, from, to time.Time, assignments []Models.ShiftAssignment, shifts []Models.ShiftDefinition, loc *time.Location) float64 {
	shiftsByID := make(map[string]Models.ShiftDefinition, len(shifts))
	for _, shift := range shifts {
		shiftsByID[shift.ShiftID] = shift
	}

	var total time.Duration
	for _, assignment := range assignments {
		if assignment.DriverID != driverID {
			continue
		}
		shift, ok := shiftsByID[assignment.ShiftID]
		if !ok {
			log.Printf("Warning: assignment %s references unknown shift %s, skipping", assignment.AssignmentID, assignment.ShiftID)
			continue
		}
		start, end, err := EffectiveInterval(assignment.Date, shift, loc)
		if err != nil {
			log.Printf("Warning: assignment %s has an unusable interval: %v, skipping", assignment.AssignmentID, err)
			continue
		}
		total += OverlapDuration(start, end, from, to)
	}

	hours := total.Hours()
	return math.Round(hours*1000) / 1000
}

// DriverHoursWithAlert aggregates a driver's hours over [from, to] and flags
// the total against the limit. The boundary is strict: exactly at the limit
// does not exceed.
func DriverHoursWithAlert(driverID string, from, to time.Time, assignments []Models.ShiftAssignment, shifts []Models.ShiftDefinition, limitHours float64, loc *time.Location) PeriodHours {
	hours := CalculateHoursForPeriod(driverID, from, to, assignments, shifts, loc)
	return PeriodHours{
		Hours:   hours,
		Exceeds: hours > limitHours,
	}
}

// Roster is the in-memory store for shift definitions and assignments. Like
// the consumption ledger it holds no locks; callers serialize writes.
type Roster struct {
	shifts      []*Models.ShiftDefinition
	assignments []*Models.ShiftAssignment
	location    *time.Location
}

func NewRoster(loc *time.Location) *Roster {
	if loc == nil {
		loc = time.Local
	}
	return &Roster{location: loc}
}

// CreateShift appends a shift definition to the log
func (r *Roster) CreateShift(shift Models.ShiftDefinition) *Models.ShiftDefinition {
	if shift.ShiftID == "" {
		shift.ShiftID = uuid.NewString()
	}
	stored := shift
	r.shifts = append(r.shifts, &stored)
	return &stored
}

// AssignShift appends an assignment to the log. There is no uniqueness
// constraint on (driver, date, shift): duplicates are allowed.
func (r *Roster) AssignShift(assignment Models.ShiftAssignment) *Models.ShiftAssignment {
	if assignment.AssignmentID == "" {
		assignment.AssignmentID = uuid.NewString()
	}
	stored := assignment
	r.assignments = append(r.assignments, &stored)
	return &stored
}

// ShiftByID resolves a shift definition, or nil
func (r *Roster) ShiftByID(shiftID string) *Models.ShiftDefinition {
	for _, shift := range r.shifts {
		if shift.ShiftID == shiftID {
			return shift
		}
	}
	return nil
}

// AssignmentsForDriver filters the assignment log by driver and optional
// inclusive [from, to] date range; boundary-exact dates are included.
func (r *Roster) AssignmentsForDriver(driverID, from, to string) []*Models.ShiftAssignment {
	var out []*Models.ShiftAssignment
	for _, assignment := range r.assignments {
		if assignment.DriverID != driverID {
			continue
		}
		if from != "" && assignment.Date < from {
			continue
		}
		if to != "" && assignment.Date > to {
			continue
		}
		out = append(out, assignment)
	}
	return out
}

// Assignments returns the full assignment log in insertion order
func (r *Roster) Assignments() []*Models.ShiftAssignment {
	return r.assignments
}

// Shifts returns the shift definition log in insertion order
func (r *Roster) Shifts() []*Models.ShiftDefinition {
	return r.shifts
}

// HoursForPeriod aggregates over the roster's own logs
func (r *Roster) HoursForPeriod(driverID string, from, to time.Time) float64 {
	return CalculateHoursForPeriod(driverID, from, to, r.assignmentValues(), r.shiftValues(), r.location)
}

// HoursWithAlert aggregates and flags against the limit
func (r *Roster) HoursWithAlert(driverID string, from, to time.Time, limitHours float64) PeriodHours {
	return DriverHoursWithAlert(driverID, from, to, r.assignmentValues(), r.shiftValues(), limitHours, r.location)
}

// ExportAssignmentsCSV renders the full assignment log as CSV
func (r *Roster) ExportAssignmentsCSV() string {
	header := []string{"assignmentId", "shiftId", "driverId", "date"}
	rows := make([][]string, 0, len(r.assignments))
	for _, assignment := range r.assignments {
		rows = append(rows, []string{assignment.AssignmentID, assignment.ShiftID, assignment.DriverID, assignment.Date})
	}
	return Export.TableToCSV(header, rows)
}

// Restore hydrates the roster from persisted records
func (r *Roster) Restore(shifts []Models.ShiftDefinition, assignments []Models.ShiftAssignment) {
	for i := range shifts {
		shift := shifts[i]
		r.shifts = append(r.shifts, &shift)
	}
	for i := range assignments {
		assignment := assignments[i]
		r.assignments = append(r.assignments, &assignment)
	}
}

func (r *Roster) shiftValues() []Models.ShiftDefinition {
	out := make([]Models.ShiftDefinition, 0, len(r.shifts))
	for _, shift := range r.shifts {
		out = append(out, *shift)
	}
	return out
}

func (r *Roster) assignmentValues() []Models.ShiftAssignment {
	out := make([]Models.ShiftAssignment, 0, len(r.assignments))
	for _, assignment := range r.assignments {
		out = append(out, *assignment)
	}
	return out
}
