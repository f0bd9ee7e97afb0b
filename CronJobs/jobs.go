package CronJobs

import (
	"fmt"
	"log"
	"time"

	"Osprey/Constants"
	"Osprey/Models"
	"Osprey/Shifts"
	"Osprey/email"

	"github.com/robfig/cron/v3"
)

// HoursWatcher periodically aggregates every driver's scheduled hours over
// the trailing seven days and reports drivers whose total exceeds the
// working-hours limit.
type HoursWatcher struct {
	cronScheduler  *cron.Cron
	limitHours     float64
	notifyByEmail  bool
	runImmediately bool
	jobID          cron.EntryID
}

// NewHoursWatcher creates a new watcher with the given configuration
func NewHoursWatcher(limitHours float64, notifyByEmail, runImmediately bool) *HoursWatcher {
	return &HoursWatcher{
		cronScheduler:  cron.New(cron.WithSeconds()),
		limitHours:     limitHours,
		notifyByEmail:  notifyByEmail,
		runImmediately: runImmediately,
	}
}

// Start schedules the daily hours check
func (w *HoursWatcher) Start() error {
	var err error
	w.jobID, err = w.cronScheduler.AddFunc("0 0 6 * * *", func() {
		log.Println("Running scheduled daily driver hours check")
		w.runHoursCheck()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	w.cronScheduler.Start()
	log.Println("Driver hours watcher started - will run daily at 6:00 AM")

	if w.runImmediately {
		log.Println("Running initial driver hours check")
		w.runHoursCheck()
	}
	return nil
}

// Stop terminates the watcher
func (w *HoursWatcher) Stop() {
	if w.cronScheduler != nil {
		w.cronScheduler.Stop()
		log.Println("Driver hours watcher stopped")
	}
}

// RunManualCheck executes a check outside the schedule
func (w *HoursWatcher) RunManualCheck() {
	log.Println("Running manual driver hours check")
	w.runHoursCheck()
}

func (w *HoursWatcher) runHoursCheck() {
	var shifts []Models.ShiftDefinition
	if err := Models.DB.Order("id ASC").Find(&shifts).Error; err != nil {
		log.Printf("Error loading shift definitions: %v\n", err)
		return
	}
	var assignments []Models.ShiftAssignment
	if err := Models.DB.Order("id ASC").Find(&assignments).Error; err != nil {
		log.Printf("Error loading shift assignments: %v\n", err)
		return
	}

	to := time.Now().In(Constants.ShiftLocation)
	from := to.AddDate(0, 0, -7)

	seen := make(map[string]bool)
	violations := 0
	for _, assignment := range assignments {
		if seen[assignment.DriverID] {
			continue
		}
		seen[assignment.DriverID] = true

		result := Shifts.DriverHoursWithAlert(assignment.DriverID, from, to, assignments, shifts, w.limitHours, Constants.ShiftLocation)
		if !result.Exceeds {
			continue
		}
		violations++
		log.Printf("Driver %s exceeds the weekly limit: %.3f hours (limit %.1f)", assignment.DriverID, result.Hours, w.limitHours)
		if w.notifyByEmail {
			w.notifyViolation(assignment.DriverID, result, from, to)
		}
	}

	if violations == 0 {
		log.Println("No working-hours violations found")
	} else {
		log.Printf("Driver hours check complete: %d violations", violations)
	}
}

func (w *HoursWatcher) notifyViolation(driverID string, result Shifts.PeriodHours, from, to time.Time) {
	if Constants.EmailConfig.SMTPServer == "" || len(Constants.AlertRecipients) == 0 {
		return
	}

	body := fmt.Sprintf(`WORKING HOURS LIMIT EXCEEDED

Driver: %s
Period: %s to %s
Scheduled hours: %.3f
Limit: %.1f hours

Please review this driver's shift assignments.`,
		driverID,
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
		result.Hours,
		w.limitHours)

	message := Models.EmailMessage{
		To:      Constants.AlertRecipients,
		Subject: fmt.Sprintf("⚠️ Working Hours Alert - Driver %s", driverID),
		Body:    body,
	}
	if err := email.SendEmail(Constants.EmailConfig, message); err != nil {
		log.Printf("Error sending hours alert email for driver %s: %v", driverID, err)
	}
}
