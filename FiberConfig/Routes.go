package FiberConfig

import (
	"log"

	"Osprey/Constants"
	"Osprey/Controllers"
	"Osprey/Models"
	"Osprey/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) error {
	consumptionController, err := Controllers.NewConsumptionController(db)
	if err != nil {
		return err
	}
	shiftController, err := Controllers.NewShiftController(db)
	if err != nil {
		return err
	}

	// API group
	api := app.Group("/api")

	// Auth
	api.Post("/Login", Controllers.Login)
	api.Get("/validate-token", Controllers.ValidateToken)
	api.Use("/Logout", Controllers.Logout)
	api.Post("/RegisterUser", middleware.Verify(Models.PermissionAdmin), Controllers.RegisterUser)
	api.Get("/FetchUsers", middleware.Verify(Models.PermissionAdmin), Controllers.FetchUsers)

	// Fleet records
	api.Post("/RegisterCar", middleware.Verify(Models.PermissionManager), Controllers.RegisterCar)
	api.Get("/GetCars", middleware.Verify(Models.PermissionViewer), Controllers.GetCars)
	api.Post("/RegisterDriver", middleware.Verify(Models.PermissionManager), Controllers.RegisterDriver)
	api.Get("/GetDrivers", middleware.Verify(Models.PermissionViewer), Controllers.GetDrivers)

	// Consumption pipeline
	consumption := api.Group("/consumption", middleware.Verify(Models.PermissionViewer))
	consumption.Post("/rules", middleware.Verify(Models.PermissionManager), consumptionController.SetRule)
	consumption.Post("/readings", middleware.Verify(Models.PermissionPlanner), consumptionController.RecordReading)
	consumption.Get("/readings", consumptionController.GetReadings)
	consumption.Get("/alerts", consumptionController.GetAlerts)
	consumption.Get("/alerts/export/csv", consumptionController.ExportAlertsCSV)
	consumption.Get("/alerts/export/excel", consumptionController.ExportAlertsExcel)

	// Shift pipeline
	shifts := api.Group("/shifts", middleware.Verify(Models.PermissionViewer))
	shifts.Post("/", middleware.Verify(Models.PermissionPlanner), shiftController.CreateShift)
	shifts.Post("/assignments", middleware.Verify(Models.PermissionPlanner), shiftController.AssignShift)
	shifts.Get("/assignments", shiftController.GetDriverAssignments)
	shifts.Get("/hours", shiftController.GetDriverHours)
	shifts.Get("/assignments/export/csv", shiftController.ExportAssignmentsCSV)
	shifts.Get("/assignments/export/excel", shiftController.ExportAssignmentsExcel)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return nil
}

func FiberConfig() {
	app := fiber.New()

	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if err := SetupRoutes(app, Models.DB); err != nil {
		log.Fatal("Failed to set up routes:", err)
	}

	log.Println("Server Up...")
	if err := app.Listen(Constants.ServerAddress); err != nil {
		log.Fatal(err)
	}
}
