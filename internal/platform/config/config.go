package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageJSONFile = "jsonfile"
	StoragePostgres = "postgres"
)

type Config struct {
	Addr                string
	Environment         string
	StorageBackend      string
	DataDir             string
	DatabaseURL         string
	RunMigrations       bool
	JWTSecret           string
	TokenTTL            time.Duration
	ForemanEmail        string
	ForemanPasswordHash string
	DataEncryptionKey   string
	ExportDir           string
	GeofenceRadiusM     float64
	MaxBodyBytes        int64
	RateLimitPerMinute  int
	LogLevel            string
}

func Load() Config {
	return Config{
		Addr:                getEnv("APP_ADDR", ":8080"),
		Environment:         getEnv("APP_ENV", "development"),
		StorageBackend:      getEnv("STORAGE_BACKEND", StorageJSONFile),
		DataDir:             getEnv("DATA_DIR", "data"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RunMigrations:       getEnvBool("RUN_MIGRATIONS", true),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		TokenTTL:            getEnvDuration("TOKEN_TTL", 12*time.Hour),
		ForemanEmail:        getEnv("FOREMAN_EMAIL", ""),
		ForemanPasswordHash: getEnv("FOREMAN_PASSWORD_HASH", ""),
		DataEncryptionKey:   getEnv("DATA_ENCRYPTION_KEY", ""),
		ExportDir:           getEnv("EXPORT_DIR", "storage/payrolls"),
		GeofenceRadiusM:     getEnvFloat("GEOFENCE_RADIUS_M", 250),
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:  getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
}

func (c Config) Validate() error {
	switch c.StorageBackend {
	case StorageJSONFile:
		if strings.TrimSpace(c.DataDir) == "" {
			return fmt.Errorf("DATA_DIR is required for the jsonfile backend")
		}
	case StoragePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.ForemanPasswordHash) == "" {
			return fmt.Errorf("FOREMAN_PASSWORD_HASH must be set in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
