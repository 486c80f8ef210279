package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer       string // Issuer claim for minted access tokens
	SigningKey   string // HS256 signing key; generated at startup when empty
	DatabaseFile string // Path to SQLite database file (default: ./mockid.db)

	AccessTTL  time.Duration // Access token lifetime (default: 4h)
	RefreshTTL time.Duration // Refresh token lifetime (default: 30 days)
	CodeTTL    time.Duration // Authorization code lifetime (default: 5m)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:              getEnvOrDefault("MOCKID_ISSUER", "mockid"),
		SigningKey:          os.Getenv("MOCKID_SIGNING_KEY"),
		DatabaseFile:        getEnvOrDefault("MOCKID_DATABASE_FILE", "mockid.db"),
		AccessTTL:           getEnvDurationOrDefault("MOCKID_ACCESS_TTL", 4*time.Hour),
		RefreshTTL:          getEnvDurationOrDefault("MOCKID_REFRESH_TTL", 30*24*time.Hour),
		CodeTTL:             getEnvDurationOrDefault("MOCKID_CODE_TTL", 5*time.Minute),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
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

	// Plain integers are treated as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
