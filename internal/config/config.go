package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/T-Man-05/diacare-sub000/internal/logger"
)

// Storage drivers supported by the service. SQLite is the local-first
// default; Postgres is available for server-backed deployments.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Storage      StorageConfig
	GeminiAPIKey string
	Logger       LoggerConfig
}

type StorageConfig struct {
	Driver     string
	SQLitePath string
	Postgres   PostgresConfig
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Driver:     strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverSQLite)),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "data/diacare.db"),
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("DB_HOST", "localhost"),
				Port:     getEnvOrDefault("DB_PORT", "5432"),
				User:     getEnvOrDefault("DB_USER", "postgres"),
				Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
				DBName:   getEnvOrDefault("DB_NAME", "diacare"),
				SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
			},
		},
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	if cfg.Storage.Driver != DriverSQLite && cfg.Storage.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q, expected %q or %q",
			cfg.Storage.Driver, DriverSQLite, DriverPostgres)
	}

	return cfg, nil
}
