// Package config loads process configuration from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the process configuration.
type Config struct {
	ListenAddr     string
	DataDir        string
	DatabasePath   string
	CatalogAPIKey  string
	SessionTTL     time.Duration
	LogFile        string
	LoginRateBurst int
}

// Load reads configuration from SHOWDECK_* environment variables, falling
// back to defaults suitable for local use.
func Load() Config {
	dataDir := envString("SHOWDECK_DATA_DIR", "./data")

	return Config{
		ListenAddr:     envString("SHOWDECK_ADDR", ":8484"),
		DataDir:        dataDir,
		DatabasePath:   envString("SHOWDECK_DB_PATH", filepath.Join(dataDir, "showdeck.db")),
		CatalogAPIKey:  os.Getenv("SHOWDECK_CATALOG_API_KEY"),
		SessionTTL:     envDuration("SHOWDECK_SESSION_TTL_HOURS", 30*24*time.Hour),
		LogFile:        os.Getenv("SHOWDECK_LOG_FILE"),
		LoginRateBurst: envInt("SHOWDECK_LOGIN_RATE_BURST", 5),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return fallback
}
