// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/store"
	"fjacquet/budget-csv/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BUDGET_LOG_LEVEL.
const EnvPrefix = "BUDGET"

// AppDirName is the per-user configuration and data directory.
const AppDirName = ".budget-csv"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		// Delimiter is "auto" to sniff it from the header line, or a single character.
		Delimiter       string `mapstructure:"delimiter" yaml:"delimiter"`
		DefaultCurrency string `mapstructure:"default_currency" yaml:"default_currency"`
	} `mapstructure:"csv" yaml:"csv"`

	Data struct {
		Backend string `mapstructure:"backend" yaml:"backend"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"data" yaml:"data"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`

	Export struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
		Format    string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"export" yaml:"export"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFrom("")
}

// InitializeConfigFrom loads configuration like InitializeConfig but reads configFile
// instead of searching the default locations when it is not empty.
func InitializeConfigFrom(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join("$HOME", AppDirName))
		v.AddConfigPath(AppDirName)
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configFile != "":
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		case !errors.As(err, &notFound):
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultDataPath is the ledger location used when data.path is not configured.
func DefaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(AppDirName, "ledger.json")
	}
	return filepath.Join(home, AppDirName, "ledger.json")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", "auto")
	v.SetDefault("csv.default_currency", "DKK")

	// Data defaults
	v.SetDefault("data.backend", store.BackendFile)
	v.SetDefault("data.path", DefaultDataPath())

	// Category dictionary
	v.SetDefault("categories.file", "categories.yaml")

	// Export defaults
	v.SetDefault("export.delimiter", ",")
	v.SetDefault("export.format", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiters
	if _, err := validation.ParseDelimiter(config.CSV.Delimiter); err != nil {
		return fmt.Errorf("invalid csv.delimiter: %w", err)
	}
	if strings.EqualFold(config.Export.Delimiter, "auto") {
		return fmt.Errorf("export.delimiter must be a single character, got: auto")
	}
	if _, err := validation.ParseDelimiter(config.Export.Delimiter); err != nil {
		return fmt.Errorf("invalid export.delimiter: %w", err)
	}

	// Validate currency
	if !isCurrencyCode(config.CSV.DefaultCurrency) {
		return fmt.Errorf("csv.default_currency must be a 3-letter code, got: %s", config.CSV.DefaultCurrency)
	}

	// Validate storage
	switch strings.ToLower(config.Data.Backend) {
	case store.BackendFile, store.BackendSQLite:
	default:
		return fmt.Errorf("invalid data.backend: %s (must be '%s' or '%s')",
			config.Data.Backend, store.BackendFile, store.BackendSQLite)
	}
	if strings.TrimSpace(config.Data.Path) == "" {
		return fmt.Errorf("data.path cannot be empty")
	}

	// Validate export format
	if config.Export.Format != "" {
		if err := validation.IsValidOutputFormat(strings.ToLower(config.Export.Format)); err != nil {
			return err
		}
	}

	return nil
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range strings.ToUpper(code) {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// ConfigureLoggingFromConfig builds the application logger from the Config struct
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}

// CSVDelimiter returns the configured input delimiter; 0 means sniff it.
func (c *Config) CSVDelimiter() rune {
	r, _ := validation.ParseDelimiter(c.CSV.Delimiter)
	return r
}

// ExportDelimiter returns the configured output delimiter.
func (c *Config) ExportDelimiter() rune {
	r, _ := validation.ParseDelimiter(c.Export.Delimiter)
	return r
}
