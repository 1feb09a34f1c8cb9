package config

import (
	"os"
	"strconv"
	"time"
)

// MaxImageSize is the default maximum accepted image size (10MB), applied
// to both the declared content length and the decoded payload.
const MaxImageSize = 10 * 1024 * 1024

// Config holds all configuration for the food analysis gateway.
type Config struct {
	// Server configuration
	Port string

	// Gemini configuration
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// Payload limits
	MaxImageSize int

	// Provider selection ("gemini" or "stub"; stub is for CI/local runs)
	LLMProvider string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server defaults
		Port: getEnv("PORT", "8080"),

		// Gemini defaults
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		GeminiTimeout: getDurationEnv("GEMINI_TIMEOUT", 30*time.Second),

		// Payload defaults (10MB)
		MaxImageSize: getIntEnv("MAX_IMAGE_SIZE", MaxImageSize),

		// Provider defaults
		LLMProvider: getEnv("LLM_PROVIDER", "gemini"),

		// Logging defaults
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
