package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Client holds the settings of the command line client.
type Client struct {
	BaseURL string
	Timeout time.Duration
	NoColor bool
}

// LoadEnv loads the nearest .env file into the process environment.
// A missing file is not an error; the process environment is used as is.
func LoadEnv(logger *slog.Logger) {
	path, err := FindEnvTest(".env")
	if err != nil {
		logger.Debug("No .env file found, using process environment")
		return
	}
	if err := godotenv.Load(path); err != nil {
		logger.Warn("Failed to load .env file", "path", path, "error", err)
		return
	}
	logger.Debug("Environment loaded", "path", path)
}

// LoadClient reads BANK_API_URL, BANK_API_TIMEOUT and BANK_NO_COLOR.
// Malformed values fall back to their defaults.
func LoadClient(logger *slog.Logger) *Client {
	LoadEnv(logger)
	return &Client{
		BaseURL: GetEnv("BANK_API_URL", "http://localhost:3000"),
		Timeout: GetEnvAsDuration("BANK_API_TIMEOUT", 30*time.Second),
		NoColor: GetEnvAsBool("BANK_NO_COLOR", false),
	}
}

// GetEnv returns the value of key, or defaultValue when it is unset or empty.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}
