package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Chart   ChartConfig   `mapstructure:"chart"`
	Hit     HitConfig     `mapstructure:"hit"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ChartConfig holds live charting behavior
type ChartConfig struct {
	DisableAutoOuts bool `mapstructure:"disable_auto_outs"`
	Innings         int  `mapstructure:"innings"`
}

// HitConfig holds batted-ball classification settings
type HitConfig struct {
	HardExitVelocity float64 `mapstructure:"hard_exit_velocity"`
}

// DefaultDir is the per-user directory holding the database and config file.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".pitchmetrics")
}

// Load reads configuration from path (if it exists) and environment
// variables prefixed PITCHMETRICS_. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// PITCHMETRICS_LOGGING_LEVEL overrides logging.level, and so on.
	v.SetEnvPrefix("PITCHMETRICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.db_path", filepath.Join(DefaultDir(), "pitches.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("chart.disable_auto_outs", false)
	v.SetDefault("chart.innings", 9)

	v.SetDefault("hit.hard_exit_velocity", 95.0)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	if c.Chart.Innings < 0 {
		return fmt.Errorf("chart.innings must be zero (no limit) or positive")
	}
	if c.Hit.HardExitVelocity <= 0 || c.Hit.HardExitVelocity > 130 {
		return fmt.Errorf("hit.hard_exit_velocity must be between 0 and 130 mph")
	}
	return nil
}
