// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Classifier struct {
		AutoLearn           bool    `mapstructure:"auto_learn" yaml:"auto_learn"`
		ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
		FuzzyThreshold      int     `mapstructure:"fuzzy_threshold" yaml:"fuzzy_threshold"`
		RulesFile           string  `mapstructure:"rules_file" yaml:"rules_file"`
	} `mapstructure:"classifier" yaml:"classifier"`

	Dedup struct {
		ExactWindowSeconds int `mapstructure:"exact_window_seconds" yaml:"exact_window_seconds"`
	} `mapstructure:"dedup" yaml:"dedup"`

	Data struct {
		Directory    string `mapstructure:"directory" yaml:"directory"`
		DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
	} `mapstructure:"data" yaml:"data"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.propbooks")
	v.AddConfigPath(".propbooks")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("PROPBOOKS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")

	// Classifier defaults
	v.SetDefault("classifier.auto_learn", true)
	v.SetDefault("classifier.confidence_threshold", 0.5)
	v.SetDefault("classifier.fuzzy_threshold", 60)
	v.SetDefault("classifier.rules_file", "buckets.yaml")

	// Dedup defaults
	v.SetDefault("dedup.exact_window_seconds", 60)

	// Data defaults
	v.SetDefault("data.directory", "")
	v.SetDefault("data.database_path", "propbooks.db")
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

	// Validate CSV delimiter
	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	// Validate classifier thresholds
	if config.Classifier.ConfidenceThreshold < 0.0 || config.Classifier.ConfidenceThreshold > 1.0 {
		return fmt.Errorf("classifier.confidence_threshold must be between 0.0 and 1.0, got: %f",
			config.Classifier.ConfidenceThreshold)
	}
	if config.Classifier.FuzzyThreshold < 0 || config.Classifier.FuzzyThreshold > 100 {
		return fmt.Errorf("classifier.fuzzy_threshold must be between 0 and 100, got: %d",
			config.Classifier.FuzzyThreshold)
	}

	// Validate dedup window
	if config.Dedup.ExactWindowSeconds < 0 {
		return fmt.Errorf("dedup.exact_window_seconds must not be negative, got: %d",
			config.Dedup.ExactWindowSeconds)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
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
