package main

import (
	"io"
	"log"
	"os"

	"Osprey/Constants"
	"Osprey/CronJobs"
	"Osprey/FiberConfig"
	"Osprey/Models"
)

func main() {
	setupLogging()
	Constants.Load()

	if err := Models.Connect(Constants.DatabasePath); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	hoursWatcher := CronJobs.NewHoursWatcher(Constants.WeeklyLimitHours, true, false)
	if err := hoursWatcher.Start(); err != nil {
		log.Printf("Failed to start hours watcher: %v", err)
	}

	FiberConfig.FiberConfig()
}

func setupLogging() {
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
		return
	}

	logFile, err := os.OpenFile("logs/application.log",
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}

	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	log.SetFlags(log.Ldate | log.Ltime)
}
