// Package config provides configuration management for mcpb using Viper.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// FileName is the config file inside the application config directory.
const FileName = "config.yaml"

// Config represents the top-level configuration structure.
type Config struct {
	Version   int    `mapstructure:"version" yaml:"version"`
	Strict    bool   `mapstructure:"strict" yaml:"strict"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	// Values is a values file applied to every resolve.
	Values string `mapstructure:"values" yaml:"values,omitempty"`
	// UserConfig holds per-bundle default values keyed by bundle name,
	// then field name.
	UserConfig map[string]map[string]string `mapstructure:"user_config" yaml:"user_config,omitempty"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.AppConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("MCPB")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("strict", false)
	viper.SetDefault("log_format", "text")
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(paths.AppConfigDir(), FileName)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(errors.ErrNotFound, "config file %s", path)
		}
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// With no explicit path a missing file means defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if err := errors.Join(Validate(&cfg)...); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return &cfg, nil
}

// BundleDefaults returns the configured user_config defaults for a bundle.
func (c *Config) BundleDefaults(bundle string) map[string]string {
	if c == nil {
		return nil
	}
	return c.UserConfig[bundle]
}
