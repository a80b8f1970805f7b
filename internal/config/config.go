// Package config loads server settings from the environment with sensible
// defaults, so the binary runs with no configuration at all in development.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the server binary needs at startup.
type Config struct {
	ServerAddr      string
	MetricsAddr     string
	CatalogPath     string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		ServerAddr:      getEnv("SERVER_ADDR", ":8080"),
		MetricsAddr:     getEnv("METRICS_ADDR", ":9090"),
		CatalogPath:     getEnv("CATALOG_PATH", "data/hypercar_data.csv"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_S", 10)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
