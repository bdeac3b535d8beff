package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendGorm     = "gorm"
	BackendRedis    = "redis"
)

// Config holds the application configuration
type Config struct {
	Environment        string
	ServerPort         int
	LogLevel           string
	StoreBackend       string
	SeedFixtures       bool
	CORSAllowedOrigins []string

	Database   DatabaseConfig
	GormDriver string
	GormDSN    string
	RedisURL   string

	AuthJWTSecret      string
	RateLimitPerMinute int

	ExpiringWindowDays int
	DashboardCacheTTL  time.Duration
}

// DatabaseConfig is the PostgreSQL connection used by the postgres backend
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Load reads configuration from environment variables, after merging an
// optional .env file from the working directory. Variables already set win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}

	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	rateLimit, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		return nil, err
	}

	expiringDays, err := getEnvInt("EXPIRING_WINDOW_DAYS", 30)
	if err != nil {
		return nil, err
	}

	cacheSeconds, err := getEnvInt("DASHBOARD_CACHE_SECONDS", 15)
	if err != nil {
		return nil, err
	}

	seed, err := strconv.ParseBool(getEnv("SEED_FIXTURES", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_FIXTURES: %w", err)
	}

	backend := strings.ToLower(getEnv("STORE_BACKEND", BackendMemory))
	switch backend {
	case BackendMemory, BackendPostgres, BackendGorm, BackendRedis:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want memory, postgres, gorm or redis", backend)
	}

	return &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		ServerPort:   port,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		StoreBackend: backend,
		SeedFixtures: seed,
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "registry"),
			Password: getEnv("DB_PASSWORD", "dev"),
			Name:     getEnv("DB_NAME", "rentalregistry"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		GormDriver:         getEnv("GORM_DRIVER", "sqlite"),
		GormDSN:            getEnv("GORM_DSN", "rentalregistry.db"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		AuthJWTSecret:      os.Getenv("AUTH_JWT_SECRET"),
		RateLimitPerMinute: rateLimit,
		ExpiringWindowDays: expiringDays,
		DashboardCacheTTL:  time.Duration(cacheSeconds) * time.Second,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
