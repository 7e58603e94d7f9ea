// Package config loads the application configuration from defaults, an optional
// config.yaml, a .env file and BUDGET_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/budget-csv/internal/logging"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnv loads environment variables from the first .env file found in the working
// directory or its parent. Variables already set in the environment are not overridden.
func LoadEnv(logger logging.Logger) {
	envOnce.Do(func() {
		loadEnvFile(logger, ".env", filepath.Join("..", ".env"))
	})
}

// loadEnvFile loads the first existing candidate and returns its path, or "" if none exists.
func loadEnvFile(logger logging.Logger, candidates ...string) string {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file", logging.F(logging.FieldFile, envFile))
			return ""
		}
		logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
		return envFile
	}
	logger.Debug("No .env file found, using environment variables")
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
