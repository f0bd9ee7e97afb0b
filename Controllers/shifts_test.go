package Controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"Osprey/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newShiftTestApp(t *testing.T, name string) (*fiber.App, *ShiftController) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.ShiftDefinition{}, &Models.ShiftAssignment{}))

	ctrl, err := NewShiftController(db)
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/shifts", ctrl.CreateShift)
	app.Post("/assignments", ctrl.AssignShift)
	app.Get("/assignments", ctrl.GetDriverAssignments)
	app.Get("/hours", ctrl.GetDriverHours)
	app.Get("/assignments/export/csv", ctrl.ExportAssignmentsCSV)
	return app, ctrl
}

func TestConcurrentAssignmentsAndHoursQueries(t *testing.T) {
	app, ctrl := newShiftTestApp(t, "concurrent_assignments")

	status := postJSON(t, app, "/shifts", `{"shift_id":"day","name":"Day","start_time":"08:00","end_time":"17:00"}`)
	require.Equal(t, fiber.StatusOK, status)

	const writers = 4
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				body := fmt.Sprintf(`{"assignment_id":"a-%d-%d","shift_id":"day","driver_id":"drv-1","date":"2025-11-03"}`, w, i)
				req := httptest.NewRequest("POST", "/assignments", strings.NewReader(body))
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
				paths := []string{
					"/assignments?driver_id=drv-1",
					"/hours?driver_id=drv-1&from=2025-11-01&to=2025-11-30",
					"/assignments/export/csv",
				}
				for _, path := range paths {
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

	resp, err := app.Test(httptest.NewRequest("GET", "/assignments?driver_id=drv-1", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var assignments []Models.ShiftAssignment
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &assignments))
	assert.Len(t, assignments, writers*perWriter)
	assert.Len(t, ctrl.Roster.AssignmentsForDriver("drv-1", "", ""), writers*perWriter)
}
