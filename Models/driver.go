package Models

import "gorm.io/gorm"

// Driver is the minimal driver record the shift and alerting pipelines
// reference by DriverID.
type Driver struct {
	gorm.Model
	DriverID    string `json:"driver_id" gorm:"uniqueIndex;size:64"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	LicenseNo   string `json:"license_no"`
	Email       string `json:"email"`
	Transporter string `json:"transporter"`
}

// Car is the minimal vehicle record consumption rules and readings
// reference by VehicleID.
type Car struct {
	gorm.Model
	VehicleID    string `json:"vehicle_id" gorm:"uniqueIndex;size:64"`
	CarNoPlate   string `json:"car_no_plate"`
	CarType      string `json:"car_type"`
	Transporter  string `json:"transporter"`
	TankCapacity int    `json:"tank_capacity"`
}
