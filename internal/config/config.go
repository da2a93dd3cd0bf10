// Package config provides Viper-based hierarchical configuration management
// (defaults, then config file, then environment) plus .env loading.
package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var once sync.Once

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		Database   string `mapstructure:"database" yaml:"database"`
		WatchDir   string `mapstructure:"watch_dir" yaml:"watch_dir"`
		Categories string `mapstructure:"categories" yaml:"categories"`
	} `mapstructure:"data" yaml:"data"`

	Ingest struct {
		// StrictRows rejects a whole file when any of its rows cannot be
		// normalized, instead of skipping the bad rows.
		StrictRows bool `mapstructure:"strict_rows" yaml:"strict_rows"`
	} `mapstructure:"ingest" yaml:"ingest"`

	Backup struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
		Retention int    `mapstructure:"retention" yaml:"retention"`
	} `mapstructure:"backup" yaml:"backup"`

	Accounts struct {
		// Primary is the account used for the YTD average balance report.
		Primary string `mapstructure:"primary" yaml:"primary"`
	} `mapstructure:"accounts" yaml:"accounts"`
}

// LoadEnv loads environment variables from a .env file if one exists.
func LoadEnv() {
	once.Do(func() {
		if _, err := os.Stat(".env"); err == nil {
			_ = godotenv.Load(".env")
		}
	})
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.wealth-tracker")
	v.AddConfigPath(".wealth-tracker")
	v.AddConfigPath(".")

	v.SetEnvPrefix("WEALTH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.database", "wealth_tracker.db")
	v.SetDefault("data.watch_dir", "csv_files")
	v.SetDefault("data.categories", "categories.yaml")

	v.SetDefault("ingest.strict_rows", false)

	v.SetDefault("backup.directory", "backups")
	v.SetDefault("backup.retention", 2)

	v.SetDefault("accounts.primary", "PNC Checking")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format %q, expected text or json", config.Log.Format)
	}
	if config.Backup.Retention < 1 {
		return fmt.Errorf("backup retention must be at least 1, got %d", config.Backup.Retention)
	}
	if strings.TrimSpace(config.Data.Database) == "" {
		return fmt.Errorf("data.database must not be empty")
	}
	return nil
}

// ConfigureLogging builds a logger from the configured level and format.
func ConfigureLogging(config *Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
