package Models

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the sqlite database and runs migrations
func Connect(databasePath string) error {
	connection, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		return err
	}
	DB = connection

	// 1. Base records with no dependencies
	if err := DB.AutoMigrate(
		&User{},
		&Driver{},
		&Car{},
	); err != nil {
		return err
	}

	// 2. Consumption pipeline logs
	if err := DB.AutoMigrate(
		&ConsumptionRule{},
		&FuelReading{},
		&ConsumptionAlert{},
	); err != nil {
		return err
	}

	// 3. Shift pipeline logs (assignments reference shift definitions)
	if err := DB.AutoMigrate(
		&ShiftDefinition{},
		&ShiftAssignment{},
	); err != nil {
		return err
	}

	log.Println("Database connected and migrated:", databasePath)
	return nil
}
