package Constants

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"Osprey/Models"

	"github.com/joho/godotenv"
)

var (
	// DatabasePath is where the sqlite database lives
	DatabasePath = "database.db"

	// ServerAddress is the listen address for the fiber app
	ServerAddress = ":3000"

	// JWTSecret signs the auth cookies
	JWTSecret = "secret"

	// WeeklyLimitHours is the working-hours threshold checked by the
	// weekly watcher and the driver hours endpoints
	WeeklyLimitHours = 40.0

	// ShiftLocation is the timezone shift times are interpreted in
	ShiftLocation *time.Location = time.Local

	// EmailConfig holds the SMTP settings for anomaly and overtime mails.
	// Sending is skipped when SMTPServer is empty.
	EmailConfig Models.EmailConfig

	// AlertRecipients receives the anomaly and overtime notification mails
	AlertRecipients []string
)

// Load reads .env and populates the package configuration. Missing values
// keep their defaults so the server can run out of the box.
func Load() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using defaults")
	}

	if v := os.Getenv("DATABASE_PATH"); v != "" {
		DatabasePath = v
	}
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		ServerAddress = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		JWTSecret = v
	}
	if v := os.Getenv("WEEKLY_LIMIT_HOURS"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Printf("Warning: invalid WEEKLY_LIMIT_HOURS %q: %v", v, err)
		} else {
			WeeklyLimitHours = limit
		}
	}
	if v := os.Getenv("SHIFT_TIMEZONE"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			log.Printf("Warning: invalid SHIFT_TIMEZONE %q: %v, keeping local time", v, err)
		} else {
			ShiftLocation = loc
		}
	}

	EmailConfig = Models.EmailConfig{
		SMTPServer:   os.Getenv("SMTP_SERVER"),
		SMTPPort:     envInt("SMTP_PORT", 587),
		Username:     os.Getenv("SMTP_USERNAME"),
		Password:     os.Getenv("SMTP_PASSWORD"),
		FromEmail:    os.Getenv("SMTP_FROM_EMAIL"),
		FromName:     os.Getenv("SMTP_FROM_NAME"),
		TLSEnabled:   os.Getenv("SMTP_TLS") != "false",
		SkipTLSCheck: os.Getenv("SMTP_SKIP_TLS_CHECK") == "true",
	}

	if v := os.Getenv("ALERT_RECIPIENTS"); v != "" {
		AlertRecipients = splitList(v)
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s %q: %v", key, v, err)
		return fallback
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
