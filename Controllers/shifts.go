package Controllers

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"Osprey/Constants"
	"Osprey/Export"
	"Osprey/Models"
	"Osprey/Shifts"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ShiftController owns the in-memory roster and keeps it in sync with the
// database. Writes hold the lock exclusively; read handlers take the read
// side.
type ShiftController struct {
	DB       *gorm.DB
	Roster   *Shifts.Roster
	mu       sync.RWMutex
	validate *validator.Validate
}

// NewShiftController hydrates a roster from the persisted logs
func NewShiftController(db *gorm.DB) (*ShiftController, error) {
	var shifts []Models.ShiftDefinition
	if err := db.Order("id ASC").Find(&shifts).Error; err != nil {
		return nil, fmt.Errorf("failed to load shift definitions: %w", err)
	}
	var assignments []Models.ShiftAssignment
	if err := db.Order("id ASC").Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to load shift assignments: %w", err)
	}

	roster := Shifts.NewRoster(Constants.ShiftLocation)
	roster.Restore(shifts, assignments)
	log.Printf("Shift roster loaded: %d shifts, %d assignments", len(shifts), len(assignments))

	return &ShiftController{
		DB:       db,
		Roster:   roster,
		validate: validator.New(),
	}, nil
}

type shiftInput struct {
	ShiftID   string `json:"shift_id"`
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

// CreateShift stores a shift definition. An end time numerically at or
// before the start time means the shift runs past midnight.
func (ctrl *ShiftController) CreateShift(c *fiber.Ctx) error {
	var input shiftInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}
	if err := ctrl.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	stored := ctrl.Roster.CreateShift(Models.ShiftDefinition{
		ShiftID:   input.ShiftID,
		Name:      input.Name,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	})
	if err := ctrl.DB.Create(stored).Error; err != nil {
		log.Println("Error persisting shift:", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store shift"})
	}

	return c.JSON(fiber.Map{
		"message": "Shift Created Successfully",
		"shift":   stored,
	})
}

type assignmentInput struct {
	AssignmentID string `json:"assignment_id"`
	ShiftID      string `json:"shift_id" validate:"required"`
	DriverID     string `json:"driver_id" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
}

// AssignShift stores an assignment. A reference to an unknown shift id is
// accepted and only warned about; such assignments are skipped during
// aggregation.
func (ctrl *ShiftController) AssignShift(c *fiber.Ctx) error {
	var input assignmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}
	if err := ctrl.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if ctrl.Roster.ShiftByID(input.ShiftID) == nil {
		log.Printf("Warning: assignment references unknown shift %s", input.ShiftID)
	}

	stored := ctrl.Roster.AssignShift(Models.ShiftAssignment{
		AssignmentID: input.AssignmentID,
		ShiftID:      input.ShiftID,
		DriverID:     input.DriverID,
		Date:         input.Date,
	})
	if err := ctrl.DB.Create(stored).Error; err != nil {
		log.Println("Error persisting assignment:", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store assignment"})
	}

	return c.JSON(fiber.Map{
		"message":    "Shift Assigned Successfully",
		"assignment": stored,
	})
}

// GetDriverAssignments lists a driver's assignments within an optional
// inclusive date range
func (ctrl *ShiftController) GetDriverAssignments(c *fiber.Ctx) error {
	driverID := c.Query("driver_id")
	if driverID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "driver_id is required"})
	}
	ctrl.mu.RLock()
	assignments := ctrl.Roster.AssignmentsForDriver(driverID, c.Query("from"), c.Query("to"))
	ctrl.mu.RUnlock()
	return c.JSON(assignments)
}

// GetDriverHours aggregates a driver's scheduled hours over [from, to] and
// flags the total against the weekly limit
func (ctrl *ShiftController) GetDriverHours(c *fiber.Ctx) error {
	driverID := c.Query("driver_id")
	if driverID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "driver_id is required"})
	}

	from, to, err := parsePeriod(c.Query("from"), c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	limit := Constants.WeeklyLimitHours
	if raw := c.Query("limit_hours"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid limit_hours"})
		}
		limit = v
	}

	ctrl.mu.RLock()
	result := ctrl.Roster.HoursWithAlert(driverID, from, to, limit)
	ctrl.mu.RUnlock()
	return c.JSON(fiber.Map{
		"driver_id":   driverID,
		"from":        from.Format("2006-01-02"),
		"to":          to.Format("2006-01-02"),
		"limit_hours": limit,
		"hours":       result.Hours,
		"exceeds":     result.Exceeds,
	})
}

// ExportAssignmentsCSV streams the full assignment log as CSV
func (ctrl *ShiftController) ExportAssignmentsCSV(c *fiber.Ctx) error {
	ctrl.mu.RLock()
	csvText := ctrl.Roster.ExportAssignmentsCSV()
	ctrl.mu.RUnlock()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename=shift_assignments.csv")
	return c.SendString(csvText)
}

// ExportAssignmentsExcel writes the assignment log to an xlsx workbook
func (ctrl *ShiftController) ExportAssignmentsExcel(c *fiber.Ctx) error {
	ctrl.mu.RLock()
	file, err := Export.AssignmentsToExcel(ctrl.Roster.Assignments())
	ctrl.mu.RUnlock()
	if err != nil {
		log.Println("Error building assignments workbook:", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
	}

	if err := os.MkdirAll("Exports", 0755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create export directory"})
	}
	filename := fmt.Sprintf("./Exports/Shift Assignments %s.xlsx", time.Now().Format("2006-01-02"))
	if err := file.SaveAs(filename); err != nil {
		log.Println("Error saving assignments workbook:", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save workbook"})
	}
	return c.SendFile(filename, true)
}

// parsePeriod turns "YYYY-MM-DD" query bounds into a concrete window: from
// at midnight through the last second of the to-day, in the configured
// shift timezone.
func parsePeriod(fromStr, toStr string) (time.Time, time.Time, error) {
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("from and to are required")
	}
	from, err := time.ParseInLocation("2006-01-02", fromStr, Constants.ShiftLocation)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %v", err)
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, Constants.ShiftLocation)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %v", err)
	}
	to = to.Add(24*time.Hour - time.Second)
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not be before from")
	}
	return from, to, nil
}
