// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"spendwise/internal/models"
)

// EnvPrefix prefixes every environment override, e.g. SPENDWISE_LOG_LEVEL.
const EnvPrefix = "SPENDWISE"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	AI struct {
		Enabled           bool    `mapstructure:"enabled" yaml:"enabled"`
		Provider          string  `mapstructure:"provider" yaml:"provider"`
		Model             string  `mapstructure:"model" yaml:"model"`
		Temperature       float32 `mapstructure:"temperature" yaml:"temperature"`
		RequestsPerMinute int     `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
		TimeoutSeconds    int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey            string  `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Database struct {
		Driver string `mapstructure:"driver" yaml:"driver"`
		DSN    string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`

	// Collections maps logical collection names to table names.
	Collections map[string]string `mapstructure:"collections" yaml:"collections"`

	Categorization struct {
		Categories    []string `mapstructure:"categories" yaml:"categories"`
		MerchantsFile string   `mapstructure:"merchants_file" yaml:"merchants_file"`
		AutoLearn     bool     `mapstructure:"auto_learn" yaml:"auto_learn"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Parser struct {
		Cities            []string `mapstructure:"cities" yaml:"cities"`
		DescriptionColumn string   `mapstructure:"description_column" yaml:"description_column"`
	} `mapstructure:"parser" yaml:"parser"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
		Export    bool   `mapstructure:"export" yaml:"export"`
	} `mapstructure:"csv" yaml:"csv"`

	Upload struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"upload" yaml:"upload"`
}

// DefaultCollections returns the built-in collection -> table mapping.
func DefaultCollections() map[string]string {
	return map[string]string{
		"july":          "bank_statement_july",
		"august":        "bank_statement_august",
		"september":     "bank_statement_sep",
		"uploaded_file": "new_file",
	}
}

// InitializeConfig loads configuration from the default locations.
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig loads configuration with hierarchical precedence: defaults, then the config
// file (configFile when set, otherwise config.yaml from the search paths), then environment.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.spendwise")
		v.AddConfigPath(".spendwise")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. The API key also comes from the provider's conventional variables
	if err := v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind API key environment variables: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// AI defaults
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.temperature", 0)
	v.SetDefault("ai.requests_per_minute", 0)
	v.SetDefault("ai.timeout_seconds", 60)

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "spendwise.db")

	v.SetDefault("collections", DefaultCollections())

	// Categorization defaults
	v.SetDefault("categorization.categories", models.DefaultCategories())
	v.SetDefault("categorization.merchants_file", "")
	v.SetDefault("categorization.auto_learn", false)

	// Parser defaults
	v.SetDefault("parser.cities", models.DefaultCities())
	v.SetDefault("parser.description_column", "Description")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.export", true)

	v.SetDefault("upload.directory", "upload_data")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.AI.Enabled && config.AI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
	}

	if config.AI.Provider != "gemini" && config.AI.Provider != "genai" {
		return fmt.Errorf("invalid ai.provider: %s (must be 'gemini' or 'genai')", config.AI.Provider)
	}

	if config.AI.RequestsPerMinute < 0 || config.AI.RequestsPerMinute > 1000 {
		return fmt.Errorf("ai.requests_per_minute must be between 0 and 1000, got: %d", config.AI.RequestsPerMinute)
	}

	if config.AI.TimeoutSeconds < 0 || config.AI.TimeoutSeconds > 300 {
		return fmt.Errorf("ai.timeout_seconds must be between 0 and 300, got: %d", config.AI.TimeoutSeconds)
	}

	if config.Database.Driver != "sqlite" && config.Database.Driver != "postgres" {
		return fmt.Errorf("invalid database.driver: %s (must be 'sqlite' or 'postgres')", config.Database.Driver)
	}

	if config.Database.DSN == "" {
		return fmt.Errorf("database.dsn must not be empty")
	}

	if len(config.Collections) == 0 {
		return fmt.Errorf("at least one collection must be configured")
	}

	for name, table := range config.Collections {
		if !tableNamePattern.MatchString(table) {
			return fmt.Errorf("collection %s: invalid table name %q", name, table)
		}
	}

	if len(config.Categorization.Categories) == 0 {
		return fmt.Errorf("categorization.categories must not be empty")
	}

	if config.Parser.DescriptionColumn == "" {
		return fmt.Errorf("parser.description_column must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig configures a logrus logger based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
