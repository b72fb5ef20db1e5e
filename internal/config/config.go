// Package config loads process configuration from environment variables and
// optionally applies runtime overrides from a watched YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds the storage collaborator settings.
type DatabaseConfig struct {
	// DSN is the MySQL data source name. Leave empty to run on the
	// in-memory stores (development and tests).
	DSN string
}

// TelemetryConfig holds tracing and metric export settings.
type TelemetryConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string
	SampleRate     float64
	ExportInterval time.Duration
}

// Config holds all application configuration.
type Config struct {
	ServerAddress string
	Environment   string
	LogLevel      string

	// OverridesFile optionally points at a YAML file watched for dynamic
	// settings (log level). Empty disables the watcher.
	OverridesFile string

	Database  DatabaseConfig
	Telemetry TelemetryConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		OverridesFile: getEnv("CONFIG_OVERRIDES_FILE", ""),

		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_DSN", ""),
		},

		Telemetry: TelemetryConfig{
			Enabled:        getEnvBool("TELEMETRY_ENABLED", true),
			ServiceName:    getEnv("TELEMETRY_SERVICE_NAME", "telemetry-backend"),
			ServiceVersion: getEnv("TELEMETRY_SERVICE_VERSION", "1.0.0"),
			OTLPEndpoint:   getEnv("TELEMETRY_OTLP_ENDPOINT", "localhost:4317"),
			SampleRate:     getEnvFloat("TELEMETRY_SAMPLE_RATE", 0),
			ExportInterval: time.Duration(getEnvInt("TELEMETRY_EXPORT_INTERVAL_SECONDS", 30)) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present for the
// environment.
func (c *Config) Validate() error {
	if c.IsProduction() && c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required in production")
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("TELEMETRY_SAMPLE_RATE must be within [0, 1]")
	}
	return nil
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
