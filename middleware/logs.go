package middleware

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LogConfig holds configuration for the request logging middleware
type LogConfig struct {
	// Enable console logging
	Console bool
	// Enable file logging
	File bool
	// Log file path
	LogFilePath string
	// Log format: "json" or "text"
	Format string
	// Skip logging for specific paths
	SkipPaths []string
}

// LogData is one logged request
type LogData struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
	IP        string        `json:"ip"`
	Error     string        `json:"error,omitempty"`
}

// DefaultLogConfig returns the default configuration for the logging middleware
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Console:     true,
		File:        true,
		LogFilePath: "logs/requests.log",
		Format:      "json",
		SkipPaths:   []string{"/health"},
	}
}

// RequestLogger logs every request with method, path, status and latency
func RequestLogger(config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.File {
		if err := os.MkdirAll("logs", 0755); err != nil {
			log.Printf("Error creating logs directory: %v\n", err)
			cfg.File = false
		}
	}

	return func(c *fiber.Ctx) error {
		for _, skipPath := range cfg.SkipPaths {
			if c.Path() == skipPath {
				return c.Next()
			}
		}

		start := time.Now()
		err := c.Next()

		data := LogData{
			Timestamp: start,
			Method:    c.Method(),
			Path:      c.Path(),
			Status:    c.Response().StatusCode(),
			Latency:   time.Since(start),
			IP:        c.IP(),
		}
		if err != nil {
			data.Error = err.Error()
		}

		logRequest(cfg, data)
		return err
	}
}

func logRequest(cfg LogConfig, data LogData) {
	var logMessage string
	switch cfg.Format {
	case "json":
		jsonData, _ := json.Marshal(data)
		logMessage = string(jsonData)
	default:
		logMessage = data.Method + " " + data.Path + " " + data.Latency.String()
	}

	if cfg.Console {
		log.Println(logMessage)
	}
	if cfg.File {
		logToFile(cfg.LogFilePath, logMessage)
	}
}

func logToFile(path, message string) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}
	defer file.Close()

	if _, err := file.WriteString(message + "\n"); err != nil {
		log.Printf("Error writing log file: %v\n", err)
	}
}
