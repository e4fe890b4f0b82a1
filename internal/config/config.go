package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the leadpipe configuration.
type Config struct {
	DB       string    `yaml:"db" mapstructure:"db"`
	Currency string    `yaml:"currency" mapstructure:"currency"`
	Log      LogConfig `yaml:"log" mapstructure:"log"`
}

// LogConfig configures the use-case log written to stderr.
type LogConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Level   string `yaml:"level" mapstructure:"level"`
}

// SlogLevel parses Level. An empty level is info.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(c.Level) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return 0, fmt.Errorf("config: parse log level: %w", err)
	}
	return lvl, nil
}

// Dir is the per-user leadpipe directory, ~/.leadpipe.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".leadpipe"), nil
}

// Load reads configuration from an optional config.yaml (current directory,
// then ~/.leadpipe) and LEADPIPE_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	v.AddConfigPath(dir)

	v.SetEnvPrefix("LEADPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", filepath.Join(dir, "leadpipe.db"))
	v.SetDefault("currency", "USD")
	v.SetDefault("log.enabled", false)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if _, err := cfg.Log.SlogLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
