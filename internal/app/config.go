package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ecotech-solutions/ecotech/internal/airquality"
	"github.com/ecotech-solutions/ecotech/internal/service"
	"github.com/ecotech-solutions/ecotech/pkg/cryptox"
)

type Config struct {
	DatabaseFile     string // Path to the SQLite database file (default: ./ecotech.db)
	BcryptCost       int    // Password hashing work factor (default: 12)
	MaxLoginAttempts int    // Login attempt budget per session (default: 3)

	AQIBaseURL string        // Air quality provider base URL (default: https://api.waqi.info)
	AQIToken   string        // Provider token; "demo" works keyless with tight limits
	AQITimeout time.Duration // HTTP timeout for provider calls (default: 10s)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: text)
}

// LoadConfig reads a .env file when present, then the environment.
// Credentials never live in code.
func LoadConfig() Config {
	_ = godotenv.Load() // missing .env is fine

	return Config{
		DatabaseFile:     getEnvOrDefault("ECOTECH_DATABASE_FILE", "ecotech.db"),
		BcryptCost:       getEnvIntOrDefault("ECOTECH_BCRYPT_COST", cryptox.DefaultCost),
		MaxLoginAttempts: getEnvIntOrDefault("ECOTECH_MAX_LOGIN_ATTEMPTS", service.DefaultMaxAttempts),
		AQIBaseURL:       getEnvOrDefault("ECOTECH_AQI_BASE_URL", airquality.DefaultBaseURL),
		AQIToken:         getEnvOrDefault("ECOTECH_AQI_TOKEN", "demo"),
		AQITimeout:       getEnvDurationOrDefault("ECOTECH_AQI_TIMEOUT", airquality.DefaultTimeout),
		Env:              getEnvOrDefault("ENV", "dev"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        getEnvOrDefault("LOG_FORMAT", "text"),
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

	// Plain integers are read as seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
