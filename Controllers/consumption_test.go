package Controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"Osprey/Consumption"
	"Osprey/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newConsumptionTestApp(t *testing.T, name string) (*fiber.App, *ConsumptionController) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.ConsumptionRule{}, &Models.FuelReading{}, &Models.ConsumptionAlert{}))

	ctrl, err := NewConsumptionController(db)
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/rules", ctrl.SetRule)
	app.Post("/readings", ctrl.RecordReading)
	app.Get("/readings", ctrl.GetReadings)
	app.Get("/alerts", ctrl.GetAlerts)
	app.Get("/alerts/export/csv", ctrl.ExportAlertsCSV)
	return app, ctrl
}

func postJSON(t *testing.T, app *fiber.App, path, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestSetRuleAppliesDefaultTolerance(t *testing.T) {
	app, ctrl := newConsumptionTestApp(t, "rule_default_tolerance")

	status := postJSON(t, app, "/rules", `{"vehicle_id":"truck-7","expected_l_per_100":8}`)
	require.Equal(t, fiber.StatusOK, status)

	rule := ctrl.Ledger.RuleForVehicle("truck-7")
	require.NotNil(t, rule)
	assert.Equal(t, Consumption.DefaultTolerancePercent, rule.TolerancePercent)

	// 10 L/100km against 8 expected is a 25% deviation, inside the default band
	status = postJSON(t, app, "/readings", `{"vehicle_id":"truck-7","date":"2025-06-10","liters":10,"kilometers":100}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, ctrl.Ledger.ListAlerts("truck-7", "", ""))
}

func TestSetRuleKeepsExplicitZeroTolerance(t *testing.T) {
	app, ctrl := newConsumptionTestApp(t, "rule_zero_tolerance")

	status := postJSON(t, app, "/rules", `{"vehicle_id":"truck-8","expected_l_per_100":8,"tolerance_percent":0}`)
	require.Equal(t, fiber.StatusOK, status)

	rule := ctrl.Ledger.RuleForVehicle("truck-8")
	require.NotNil(t, rule)
	assert.Equal(t, 0.0, rule.TolerancePercent)

	// any deviation from the baseline trips a zero-tolerance rule
	status = postJSON(t, app, "/readings", `{"vehicle_id":"truck-8","date":"2025-06-10","liters":10,"kilometers":100}`)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, ctrl.Ledger.ListAlerts("truck-8", "", ""), 1)
}

func TestConcurrentReadingsAndQueries(t *testing.T) {
	app, ctrl := newConsumptionTestApp(t, "concurrent_readings")

	status := postJSON(t, app, "/rules", `{"vehicle_id":"truck-9","expected_l_per_100":8,"tolerance_percent":30}`)
	require.Equal(t, fiber.StatusOK, status)

	const writers = 4
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				body := fmt.Sprintf(`{"reading_id":"r-%d-%d","vehicle_id":"truck-9","date":"2025-06-10","liters":10,"kilometers":100}`, w, i)
				req := httptest.NewRequest("POST", "/readings", strings.NewReader(body))
				req.Header.Set("Content-Type", "application/json")
				resp, err := app.Test(req, -1)
				assert.NoError(t, err)
				if resp != nil {
					resp.Body.Close()
				}
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				for _, path := range []string{"/readings?vehicle_id=truck-9", "/alerts", "/alerts/export/csv"} {
					resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
					assert.NoError(t, err)
					if resp != nil {
						io.Copy(io.Discard, resp.Body)
						resp.Body.Close()
					}
				}
			}
		}()
	}
	wg.Wait()

	resp, err := app.Test(httptest.NewRequest("GET", "/readings?vehicle_id=truck-9", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var readings []Models.FuelReading
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &readings))
	assert.Len(t, readings, writers*perWriter)
	assert.Len(t, ctrl.Ledger.ListReadings("truck-9", "", ""), writers*perWriter)
}
