package Controllers

import (
	"log"

	"Osprey/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func RegisterCar(c *fiber.Ctx) error {
	var car Models.Car
	if err := c.BodyParser(&car); err != nil {
		log.Println(err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}
	if car.VehicleID == "" {
		car.VehicleID = uuid.NewString()
	}
	if err := Models.DB.Create(&car).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Failed to register car"})
	}
	return c.JSON(fiber.Map{
		"message": "Car Registered Successfully",
		"car":     car,
	})
}

func GetCars(c *fiber.Ctx) error {
	var cars []Models.Car
	if err := Models.DB.Find(&cars).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch cars"})
	}
	return c.JSON(cars)
}

func RegisterDriver(c *fiber.Ctx) error {
	var driver Models.Driver
	if err := c.BodyParser(&driver); err != nil {
		log.Println(err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}
	if driver.DriverID == "" {
		driver.DriverID = uuid.NewString()
	}
	if err := Models.DB.Create(&driver).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Failed to register driver"})
	}
	return c.JSON(fiber.Map{
		"message": "Driver Registered Successfully",
		"driver":  driver,
	})
}

func GetDrivers(c *fiber.Ctx) error {
	var drivers []Models.Driver
	if err := Models.DB.Find(&drivers).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch drivers"})
	}
	return c.JSON(drivers)
}
