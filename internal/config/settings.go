package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. ROTHPLAN_LOG_LEVEL
const EnvPrefix = "ROTHPLAN"

// DefaultSettingsFile is looked up in the home directory when no --settings is given
const DefaultSettingsFile = ".rothplan.yaml"

// Settings holds CLI options that are not part of a scenario
type Settings struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`
	Tables    string `mapstructure:"tables"`
	Format    string `mapstructure:"format"`
}

// NewViper returns a viper instance with defaults and environment binding.
// Callers bind their flags to it before LoadSettings.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_file", "")
	v.SetDefault("tables", "")
	v.SetDefault("format", "table")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads the settings file (explicit path, or the home default when
// present) and unmarshals the merged view of flags, env, file and defaults.
func LoadSettings(v *viper.Viper, path string) (Settings, error) {
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, DefaultSettingsFile)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("error reading settings file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unable to decode settings: %w", err)
	}
	s.LogLevel = strings.ToLower(s.LogLevel)
	s.LogFormat = strings.ToLower(s.LogFormat)
	s.Format = strings.ToLower(s.Format)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks enumerated settings
func (s Settings) Validate() error {
	var errs []error
	switch s.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level: %s", s.LogLevel))
	}
	switch s.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format: %s", s.LogFormat))
	}
	return errors.Join(errs...)
}
