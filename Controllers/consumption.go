package Controllers

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"Osprey/Constants"
	"Osprey/Consumption"
	"Osprey/Export"
	"Osprey/Models"
	"Osprey/email"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ConsumptionController owns the in-memory ledger and keeps it in sync with
// the database. The ledger itself is lock-free; the controller lock
// serializes writes coming from concurrent requests and read handlers take
// the read side.
type ConsumptionController struct {
	DB       *gorm.DB
	Ledger   *Consumption.Ledger
	mu       sync.RWMutex
	validate *validator.Validate
}

// NewConsumptionController hydrates a ledger from the persisted logs
func NewConsumptionController(db *gorm.DB) (*ConsumptionController, error) {
	var rules []Models.ConsumptionRule
	if err := db.Order("id ASC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to load consumption rules: %w", err)
	}
	var readings []Models.FuelReading
	if err := db.Order("id ASC").Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to load fuel readings: %w", err)
	}
	var alerts []Models.ConsumptionAlert
	if err := db.Order("id ASC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to load consumption alerts: %w", err)
	}

	ledger := Consumption.NewLedger()
	ledger.Restore(rules, readings, alerts)
	log.Printf("Consumption ledger loaded: %d rules, %d readings, %d alerts", len(rules), len(readings), len(alerts))

	return &ConsumptionController{
		DB:       db,
		Ledger:   ledger,
		validate: validator.New(),
	}, nil
}

type ruleInput struct {
	RuleID           string   `json:"rule_id"`
	VehicleID        string   `json:"vehicle_id" validate:"required"`
	ExpectedLPer100  float64  `json:"expected_l_per_100" validate:"gt=0"`
	TolerancePercent *float64 `json:"tolerance_percent" validate:"omitempty,gte=0"`
}

// SetRule upserts a vehicle's expected-consumption rule. A request that
// omits tolerance_percent gets the default band; an explicit 0 is kept and
// flags any deviation.
func (ctrl *ConsumptionController) SetRule(c *fiber.Ctx) error {
	var input ruleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}
	if err := ctrl.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tolerance := Consumption.DefaultTolerancePercent
	if input.TolerancePercent != nil {
		tolerance = *input.TolerancePercent
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	stored := ctrl.Ledger.SetRule(Models.ConsumptionRule{
		RuleID:           input.RuleID,
		VehicleID:        input.VehicleID,
		ExpectedLPer100:  input.ExpectedLPer100,
		TolerancePercent: tolerance,
	})

	var existing Models.ConsumptionRule
	err := ctrl.DB.Where("rule_id = ?", stored.RuleID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		record := *stored
		err = ctrl.DB.Create(&record).Error
	} else if err == nil {
		existing.VehicleID = stored.VehicleID
		existing.ExpectedLPer100 = stored.ExpectedLPer100
		existing.TolerancePercent = stored.TolerancePercent
		err = ctrl.DB.Save(&existing).Error
	}
	if err != nil {
		log.Println("Error persisting rule:", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store rule"})
	}

	return c.JSON(fiber.Map{
		"message": "Rule Stored Successfully",
		"rule":    stored,
	})
}

type readingInput struct {
	ReadingID  string  `json:"reading_id"`
	VehicleID  string  `json:"vehicle_id" validate:"required"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	Liters     float64 `json:"liters" validate:"gte=0"`
	Kilometers float64 `json:"kilometers" validate:"gte=0"`
}

// RecordReading appends a fuel reading, evaluates the vehicle's rule and
// returns the reading together with the alert when one was raised
func (ctrl *ConsumptionController) RecordReading(c *fiber.Ctx) error {
	var input readingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}
	if err := ctrl.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctrl.mu.Lock()
	reading, alert := ctrl.Ledger.RecordReading(Models.FuelReading{
		ReadingID:  input.ReadingID,
		VehicleID:  input.VehicleID,
		Date:       input.Date,
		Liters:     input.Liters,
		Kilometers: input.Kilometers,
	})

	if err := ctrl.DB.Create(reading).Error; err != nil {
		log.Println("Error persisting reading:", err.Error())
	}
	if alert != nil {
		if err := ctrl.DB.Create(alert).Error; err != nil {
			log.Println("Error persisting alert:", err.Error())
		}
	}
	ctrl.mu.Unlock()

	if alert != nil {
		notifyConsumptionAnomaly(*reading, *alert)
	}

	return c.JSON(fiber.Map{
		"reading": reading,
		"alert":   alert,
	})
}

// GetReadings lists readings filtered by optional vehicle id and date range
func (ctrl *ConsumptionController) GetReadings(c *fiber.Ctx) error {
	ctrl.mu.RLock()
	readings := ctrl.Ledger.ListReadings(c.Query("vehicle_id"), c.Query("from"), c.Query("to"))
	ctrl.mu.RUnlock()
	return c.JSON(readings)
}

// GetAlerts lists alerts filtered by optional vehicle id and date range
func (ctrl *ConsumptionController) GetAlerts(c *fiber.Ctx) error {
	ctrl.mu.RLock()
	alerts := ctrl.Ledger.ListAlerts(c.Query("vehicle_id"), c.Query("from"), c.Query("to"))
	ctrl.mu.RUnlock()
	return c.JSON(alerts)
}

// ExportAlertsCSV streams the full alert log as CSV
func (ctrl *ConsumptionController) ExportAlertsCSV(c *fiber.Ctx) error {
	ctrl.mu.RLock()
	csvText := ctrl.Ledger.ExportAlertsCSV()
	ctrl.mu.RUnlock()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename=consumption_alerts.csv")
	return c.SendString(csvText)
}

// ExportAlertsExcel writes the alert log to an xlsx workbook and sends it
func (ctrl *ConsumptionController) ExportAlertsExcel(c *fiber.Ctx) error {
	ctrl.mu.RLock()
	alerts := ctrl.Ledger.ListAlerts("", "", "")
	ctrl.mu.RUnlock()

	file, err := Export.AlertsToExcel(alerts)
	if err != nil {
		log.Println("Error building alerts workbook:", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
	}

	if err := os.MkdirAll("Exports", 0755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create export directory"})
	}
	filename := fmt.Sprintf("./Exports/Consumption Alerts %s.xlsx", time.Now().Format("2006-01-02"))
	if err := file.SaveAs(filename); err != nil {
		log.Println("Error saving alerts workbook:", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save workbook"})
	}
	return c.SendFile(filename, true)
}

func notifyConsumptionAnomaly(reading Models.FuelReading, alert Models.ConsumptionAlert) {
	log.Printf("Consumption anomaly for vehicle %s: observed %.3f L/100km vs expected %.3f (%.2f%%, %s)",
		alert.VehicleID, alert.Observed, alert.Expected, alert.DeviationPercent, alert.Reason)

	if Constants.EmailConfig.SMTPServer == "" || len(Constants.AlertRecipients) == 0 {
		return
	}

	direction := "ABOVE"
	if alert.Reason == Models.ReasonUnderConsumption {
		direction = "BELOW"
	}

	causes := ""
	for _, cause := range alert.PossibleCauses {
		causes += "- " + cause + "\n"
	}

	body := fmt.Sprintf(`FUEL CONSUMPTION ANOMALY DETECTED

Vehicle Details:
- Vehicle: %s
- Date: %s
- Reading ID: %s

Consumption Details:
- Observed: %.3f L/100km
- Expected: %.3f L/100km
- Deviation: %.2f%% (%s the expected baseline)
- Liters: %.3f
- Kilometers: %.1f

Possible Causes:
%s
Action Required:
- Verify odometer and liter readings for accuracy
- Investigate the candidate causes above

Alert ID: %s
Generated: %s`,
		alert.VehicleID,
		alert.Date,
		alert.ReadingID,
		alert.Observed,
		alert.Expected,
		alert.DeviationPercent,
		direction,
		reading.Liters,
		reading.Kilometers,
		causes,
		alert.AlertID,
		time.Now().Format("2006-01-02 15:04:05"))

	message := Models.EmailMessage{
		To:      Constants.AlertRecipients,
		Subject: fmt.Sprintf("⚠️ Fuel Consumption Anomaly - Vehicle %s", alert.VehicleID),
		Body:    body,
	}
	if err := email.SendEmail(Constants.EmailConfig, message); err != nil {
		log.Printf("Error sending anomaly email for vehicle %s: %v", alert.VehicleID, err)
	} else {
		log.Printf("Anomaly email sent for vehicle %s (alert %s)", alert.VehicleID, alert.AlertID)
	}
}
