// Package config provides runtime configuration for the store server.
package config

import (
	"log"
	"os"
	"time"
)

// Config holds everything read from the environment at boot.
type Config struct {
	DBDSN             string
	HTTPAddr          string
	BaseURL           string
	JWTSecret         string
	GeminiAPIKey      string
	AllowRegistration bool
	StoreTimezone     string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load collects configuration from environment with defaults.
// DB_DSN has no default on purpose - the caller decides whether a
// missing database is fatal.
func Load() Config {
	return Config{
		DBDSN:             os.Getenv("DB_DSN"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		BaseURL:           getenv("BASE_URL", "http://localhost:8080"),
		JWTSecret:         getenv("JWT_SECRET", "dev_only_katha_pos_secret"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		AllowRegistration: os.Getenv("ALLOW_REGISTRATION") == "true",
		StoreTimezone:     getenv("STORE_TIMEZONE", "Asia/Kolkata"),
	}
}

// Location resolves the store timezone used for revenue day bucketing.
// Falls back to the server's local zone if the name doesn't resolve.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.StoreTimezone)
	if err != nil {
		log.Printf("Warning: unknown STORE_TIMEZONE %q, using local time", c.StoreTimezone)
		return time.Local
	}
	return loc
}
