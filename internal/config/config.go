package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shelterops/adoption-forecast/internal/core/domain"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Dataset configuration
	Dataset DatasetConfig

	// Workload estimator defaults
	Workload WorkloadConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// WebSocket configuration
	WebSocket WebSocketConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string
}

// DatasetConfig locates the adoption export loaded at startup
type DatasetConfig struct {
	Path string
}

// WorkloadConfig holds the estimator parameter defaults. Clients fetch
// them from the defaults endpoint, and the API applies WorkdayHours when
// an estimate request omits its own.
type WorkloadConfig struct {
	MinutesPerAdoption float64
	NonAdoptingPercent float64
	CounselorCount     int
	WorkdayHours       float64
}

// Params returns the configured defaults as estimator parameters.
func (w WorkloadConfig) Params() domain.WorkloadParams {
	return domain.WorkloadParams{
		MinutesPerAdoption: w.MinutesPerAdoption,
		NonAdoptingPercent: w.NonAdoptingPercent,
		CounselorCount:     w.CounselorCount,
		WorkdayHours:       w.WorkdayHours,
	}
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	EstimateRPS       float64 // Stricter limit for estimate endpoints
	EstimateBurst     int
}

// WebSocketConfig holds WebSocket configuration
type WebSocketConfig struct {
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:        getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:       getDurationOrDefault("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:        getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout:    getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			CORSAllowedOrigins: getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Dataset: DatasetConfig{
			Path: getEnvOrDefault("DATASET_PATH", "data/adoptions.csv"),
		},
		Workload: WorkloadConfig{
			MinutesPerAdoption: getFloatOrDefault("WORKLOAD_MINUTES_PER_ADOPTION", domain.DefaultMinutesPerAdoption),
			NonAdoptingPercent: getFloatOrDefault("WORKLOAD_NON_ADOPTING_PERCENT", domain.DefaultNonAdoptingPercent),
			CounselorCount:     getIntOrDefault("WORKLOAD_COUNSELOR_COUNT", domain.DefaultCounselorCount),
			WorkdayHours:       getFloatOrDefault("WORKLOAD_WORKDAY_HOURS", domain.DefaultWorkdayHours),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 10),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 20),
			EstimateRPS:       getFloatOrDefault("RATE_LIMIT_ESTIMATE_RPS", 5),
			EstimateBurst:     getIntOrDefault("RATE_LIMIT_ESTIMATE_BURST", 10),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins:  getStringSliceOrDefault("WS_ALLOWED_ORIGINS", []string{}),
			ReadBufferSize:  getIntOrDefault("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getIntOrDefault("WS_WRITE_BUFFER_SIZE", 1024),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "adoption-forecast"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	// Required fields
	if c.Dataset.Path == "" {
		errs = append(errs, "DATASET_PATH is required")
	}

	// The configured estimator defaults must themselves be usable
	if err := c.Workload.Params().Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("workload defaults: %v", err))
	}

	// Security validations
	if c.App.Environment == "production" {
		if len(c.WebSocket.AllowedOrigins) == 0 {
			errs = append(errs, "WS_ALLOWED_ORIGINS must be set in production")
		}
		for _, origin := range c.Server.CORSAllowedOrigins {
			if origin == "*" {
				errs = append(errs, "CORS_ALLOWED_ORIGINS must not be a wildcard in production")
			}
		}
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a compact representation of the config for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s, Dataset: %s, RateLimit: %v, Environment: %s}",
		c.Server.Port,
		c.Dataset.Path,
		c.RateLimit.Enabled,
		c.App.Environment,
	)
}
