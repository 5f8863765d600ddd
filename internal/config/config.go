package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Wiki behaviour (default author, seeding)
	Wiki WikiConfig

	// Image upload configuration
	Upload UploadConfig

	// PDF export configuration
	PDF PDFConfig

	// Per-IP limits for uploads and PDF rendering
	RateLimit RateLimitConfig

	// Tracing configuration
	Telemetry TelemetryConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
	ConnectRetries uint
}

// WikiConfig holds domain defaults
type WikiConfig struct {
	DefaultAuthorID   int64
	SeedDefaults      bool
	SeedAdminPassword string
}

// UploadConfig holds image upload settings
type UploadConfig struct {
	Dir         string
	MaxFileSize int64 // in bytes
	MaxFiles    int
	PublicPath  string
}

// PDFConfig holds headless Chrome rendering settings
type PDFConfig struct {
	Timeout   time.Duration
	CacheSize int
	ChromeURL string // remote debugging URL, empty to launch a local browser
}

// RateLimitConfig holds per-IP token bucket settings
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// TelemetryConfig holds OpenTelemetry settings
type TelemetryConfig struct {
	ServiceName  string
	Environment  string
	OTLPEndpoint string // tracing is disabled when empty
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3001"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "dochub"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
			ConnectRetries: uint(getIntEnv("DB_CONNECT_RETRIES", 5)),
		},
		Wiki: WikiConfig{
			DefaultAuthorID:   getInt64Env("DEFAULT_AUTHOR_ID", 1),
			SeedDefaults:      getBoolEnv("SEED_DEFAULTS", true),
			SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
		},
		Upload: UploadConfig{
			Dir:         getEnv("UPLOAD_DIR", "./uploads"),
			MaxFileSize: getInt64Env("UPLOAD_MAX_FILE_SIZE", 5*1024*1024), // 5MB
			MaxFiles:    getIntEnv("UPLOAD_MAX_FILES", 10),
			PublicPath:  getEnv("UPLOAD_PUBLIC_PATH", "/uploads"),
		},
		PDF: PDFConfig{
			Timeout:   getDurationEnv("PDF_TIMEOUT", 30*time.Second),
			CacheSize: getIntEnv("PDF_CACHE_SIZE", 64),
			ChromeURL: getEnv("PDF_CHROME_URL", ""),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getFloatEnv("RATE_LIMIT_RPS", 2),
			Burst:             getIntEnv("RATE_LIMIT_BURST", 10),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "dochub-api"),
			Environment:  getEnv("ENV", "production"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Wiki.DefaultAuthorID <= 0 {
		return fmt.Errorf("DEFAULT_AUTHOR_ID must be positive")
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILE_SIZE must be positive")
	}
	if c.Upload.MaxFiles <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILES must be positive")
	}
	if c.PDF.Timeout <= 0 {
		return fmt.Errorf("PDF_TIMEOUT must be positive")
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
