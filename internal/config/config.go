// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything tallyd needs to start.
type Config struct {
	// Addr is the listen address for the event ingest server.
	Addr string

	// DBPath is the SQLite database file path.
	DBPath string

	// RecentLimit caps how many entries a recent-entries query shows.
	RecentLimit int

	// LogJSON switches the slog handler from colored text to JSON.
	LogJSON bool
}

// Load reads configuration from the environment. A .env file is loaded
// first if present (non-fatal if missing).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:   getEnvDefault("TALLY_ADDR", ":8080"),
		DBPath: getEnvDefault("DB_PATH", "./data/tally.db"),
	}

	limit := getEnvDefault("RECENT_LIMIT", "5")
	n, err := strconv.Atoi(limit)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("RECENT_LIMIT must be a positive integer, got %q", limit)
	}
	cfg.RecentLimit = n

	cfg.LogJSON = os.Getenv("LOG_FORMAT") == "json"

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
