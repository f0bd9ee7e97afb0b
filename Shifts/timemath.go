package Shifts

import (
	"fmt"
	"time"

	"Osprey/Models"
)

// ToInstant combines a calendar date with a wall-clock time into a point in
// time. The timezone is an explicit parameter: shift arithmetic must not
// depend on the ambient host timezone. A nil location means local time.
func ToInstant(dateISO, hhmm string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", dateISO+" "+hhmm, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", dateISO, hhmm, err)
	}
	return t, nil
}

// EffectiveInterval resolves the concrete start and end instants of a shift
// instance beginning on the given calendar day. When the end time is
// numerically at or before the start time the shift wraps midnight and ends
// on the following day; a shift never spans more than one wraparound. The
// effective end is always strictly after the effective start.
func EffectiveInterval(assignmentDate string, shift Models.ShiftDefinition, loc *time.Location) (time.Time, time.Time, error) {
	start, err := ToInstant(assignmentDate, shift.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ToInstant(assignmentDate, shift.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

// OverlapDuration measures the intersection of two intervals, never negative
func OverlapDuration(startA, endA, startB, endB time.Time) time.Duration {
	start := startA
	if startB.After(start) {
		start = startB
	}
	end := endA
	if endB.Before(end) {
		end = endB
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}
