package Export

import (
	"fmt"
	"strings"

	"Osprey/Models"

	"github.com/xuri/excelize/v2"
)

// AlertsToExcel renders the alert log as an xlsx workbook with one sheet
func AlertsToExcel(alerts []*Models.ConsumptionAlert) (*excelize.File, error) {
	file := excelize.NewFile()
	const sheet = "Alerts"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	headers := map[string]string{
		"A1": "Alert ID", "B1": "Vehicle", "C1": "Date", "D1": "Reading ID",
		"E1": "Observed L/100km", "F1": "Expected L/100km", "G1": "Deviation %",
		"H1": "Reason", "I1": "Possible Causes",
	}
	for cell, value := range headers {
		file.SetCellValue(sheet, cell, value)
	}

	for i, alert := range alerts {
		row := i + 2
		file.SetCellValue(sheet, fmt.Sprintf("A%v", row), alert.AlertID)
		file.SetCellValue(sheet, fmt.Sprintf("B%v", row), alert.VehicleID)
		file.SetCellValue(sheet, fmt.Sprintf("C%v", row), alert.Date)
		file.SetCellValue(sheet, fmt.Sprintf("D%v", row), alert.ReadingID)
		file.SetCellValue(sheet, fmt.Sprintf("E%v", row), alert.Observed)
		file.SetCellValue(sheet, fmt.Sprintf("F%v", row), alert.Expected)
		file.SetCellValue(sheet, fmt.Sprintf("G%v", row), alert.DeviationPercent)
		file.SetCellValue(sheet, fmt.Sprintf("H%v", row), alert.Reason)
		file.SetCellValue(sheet, fmt.Sprintf("I%v", row), joinCauses(alert.PossibleCauses))
	}
	return file, nil
}

// AssignmentsToExcel renders the assignment log as an xlsx workbook
func AssignmentsToExcel(assignments []*Models.ShiftAssignment) (*excelize.File, error) {
	file := excelize.NewFile()
	const sheet = "Assignments"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	headers := map[string]string{
		"A1": "Assignment ID", "B1": "Shift ID", "C1": "Driver", "D1": "Date",
	}
	for cell, value := range headers {
		file.SetCellValue(sheet, cell, value)
	}

	for i, assignment := range assignments {
		row := i + 2
		file.SetCellValue(sheet, fmt.Sprintf("A%v", row), assignment.AssignmentID)
		file.SetCellValue(sheet, fmt.Sprintf("B%v", row), assignment.ShiftID)
		file.SetCellValue(sheet, fmt.Sprintf("C%v", row), assignment.DriverID)
		file.SetCellValue(sheet, fmt.Sprintf("D%v", row), assignment.Date)
	}
	return file, nil
}

func joinCauses(causes []string) string {
	return strings.Join(causes, "; ")
}
