package Models

import "gorm.io/gorm"

// ShiftDefinition is a reusable working-hours template. EndTime may be
// numerically earlier than StartTime, meaning the shift runs past midnight
// into the following calendar day.
type ShiftDefinition struct {
	gorm.Model
	ShiftID   string `json:"shift_id" gorm:"uniqueIndex;size:64"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"` // "HH:MM"
	EndTime   string `json:"end_time"`   // "HH:MM"
}

// ShiftAssignment pins a shift definition to a driver on the calendar day
// the shift instance begins. Duplicates are allowed and each contributes its
// own interval to the aggregated hours.
type ShiftAssignment struct {
	gorm.Model
	AssignmentID string `json:"assignment_id" gorm:"uniqueIndex;size:64"`
	ShiftID      string `json:"shift_id" gorm:"index"`
	DriverID     string `json:"driver_id" gorm:"index"`
	Date         string `json:"date"` // "2006-01-02", day the shift begins
}
