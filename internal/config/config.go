package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Logging configuration
	LogLevel string

	// AWS configuration
	AWSRegion string

	// DynamoDB configuration
	WorkspacesTableName string
	RequestsTableName   string

	// Redis configuration (intake draft store)
	RedisAddr     string
	RedisPassword string

	// Admin authentication
	AdminJWTSecret string

	// Booking window configuration file (optional, defaults apply when absent)
	BookingConfigPath string

	// Enforce the canonical status transition table when true
	StrictTransitions bool

	// Email configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	EmailWorkers int
}

// New creates a new Config instance by loading environment variables
// from .env file (if present) and OS environment.
// OS environment variables take precedence over .env file values.
// Panics if required configuration values are missing or invalid.
func New() *Config {
	// Load .env file from project root (silently ignore if not found)
	envPath := filepath.Join(".", ".env")
	_ = godotenv.Load(envPath)

	cfg := &Config{
		// Server configuration
		Port: getEnvOrDefault("PORT", "3001"),

		// Logging configuration
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),

		// AWS configuration
		AWSRegion: getEnvOrDefault("AWS_REGION", "us-east-1"),

		// DynamoDB configuration
		WorkspacesTableName: getEnvOrDefault("WORKSPACES_TABLE_NAME", "Workspaces"),
		RequestsTableName:   getEnvOrDefault("REQUESTS_TABLE_NAME", "BuildRequests"),

		// Redis configuration
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		// Admin authentication
		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),

		// Booking window configuration
		BookingConfigPath: getEnvOrDefault("BOOKING_CONFIG_PATH", "booking.yaml"),
		StrictTransitions: getEnvBool("STRICT_TRANSITIONS", false),

		// Email configuration
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "studio@localhost"),
		EmailWorkers: getEnvInt("EMAIL_WORKERS", 2),
	}

	// Validate required configuration
	cfg.validate()

	return cfg
}

// validate checks that all required configuration values are present and valid
func (c *Config) validate() {
	var missing []string

	if c.AdminJWTSecret == "" {
		missing = append(missing, "ADMIN_JWT_SECRET")
	}

	if len(missing) > 0 {
		panic(fmt.Sprintf("Missing required configuration values: %v", missing))
	}

	if len(c.AdminJWTSecret) < 32 {
		panic(fmt.Sprintf("ADMIN_JWT_SECRET must be at least 32 characters (got %d)", len(c.AdminJWTSecret)))
	}

	if c.EmailWorkers < 1 {
		panic(fmt.Sprintf("EMAIL_WORKERS must be at least 1 (got %d)", c.EmailWorkers))
	}
}

// SMTPConfigured reports whether outbound email can be sent
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != ""
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		panic(fmt.Sprintf("%s must be an integer (got '%s')", key, value))
	}
	return parsed
}

// getEnvBool returns a boolean environment variable or a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		panic(fmt.Sprintf("%s must be a boolean (got '%s')", key, value))
	}
	return parsed
}
