package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseFile string // Path to SQLite database file (default: ./timesheet.db)

	JWTSecret string        // Required: HMAC secret for bearer tokens
	Issuer    string        // Issuer claim for tokens (default: timesheet)
	TokenTTL  time.Duration // Access token lifetime (default: 7 days)

	BaseURL string // Public base URL put into magic-link and invitation emails

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)

	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Magic-link cleanup interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		DatabaseFile: getEnvOrDefault("TIMESHEET_DATABASE_FILE", "timesheet.db"),

		JWTSecret: os.Getenv("TIMESHEET_JWT_SECRET"),
		Issuer:    getEnvOrDefault("TIMESHEET_ISSUER", "timesheet"),
		TokenTTL:  getEnvDurationOrDefault("TIMESHEET_TOKEN_TTL", 7*24*time.Hour),

		BaseURL: getEnvOrDefault("TIMESHEET_BASE_URL", "http://localhost:8080"),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
