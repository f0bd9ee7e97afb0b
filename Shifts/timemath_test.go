package Shifts

import (
	"testing"
	"time"

	"Osprey/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInstant(t *testing.T) {
	instant, err := ToInstant("2025-11-03", "08:30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 3, 8, 30, 0, 0, time.UTC), instant)
}

func TestToInstantInvalidInput(t *testing.T) {
	_, err := ToInstant("2025-11-03", "8h30", time.UTC)
	assert.Error(t, err)

	_, err = ToInstant("03/11/2025", "08:30", time.UTC)
	assert.Error(t, err)
}

func TestEffectiveIntervalDayShift(t *testing.T) {
	shift := Models.ShiftDefinition{ShiftID: "day", StartTime: "08:00", EndTime: "17:00"}

	start, end, err := EffectiveInterval("2025-11-03", shift, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 11, 3, 17, 0, 0, 0, time.UTC), end)
}

func TestEffectiveIntervalNightShiftWrapsMidnight(t *testing.T) {
	shift := Models.ShiftDefinition{ShiftID: "night", StartTime: "22:00", EndTime: "06:00"}

	start, end, err := EffectiveInterval("2025-11-03", shift, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 3, 22, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 11, 4, 6, 0, 0, 0, time.UTC), end)
	assert.True(t, end.After(start))
}

func TestEffectiveIntervalEqualTimesWrap(t *testing.T) {
	// end equal to start also wraps, the end is always strictly after
	shift := Models.ShiftDefinition{ShiftID: "full", StartTime: "09:00", EndTime: "09:00"}

	start, end, err := EffectiveInterval("2025-11-03", shift, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestOverlapDuration(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2025, 11, d, h, 0, 0, 0, time.UTC) }

	tests := []struct {
		name                       string
		startA, endA, startB, endB time.Time
		want                       time.Duration
	}{
		{"full containment", day(3, 8), day(3, 17), day(3, 0), day(4, 0), 9 * time.Hour},
		{"partial overlap", day(3, 8), day(3, 17), day(3, 12), day(3, 20), 5 * time.Hour},
		{"disjoint", day(3, 8), day(3, 17), day(4, 8), day(4, 17), 0},
		{"touching boundaries", day(3, 8), day(3, 17), day(3, 17), day(3, 20), 0},
		{"identical", day(3, 8), day(3, 17), day(3, 8), day(3, 17), 9 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverlapDuration(tt.startA, tt.endA, tt.startB, tt.endB))
		})
	}
}
