// Package config reads repository settings from .twig/config.toml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// FileName is the config file's name inside the repository directory.
const FileName = "config.toml"

// EnvLogLevel overrides Log.Level when set.
const EnvLogLevel = "TWIG_LOG_LEVEL"

// Config holds repository-local settings.
type Config struct {
	DefaultBranch string        `toml:"default_branch"`
	UI            UIConfig      `toml:"ui"`
	Storage       StorageConfig `toml:"storage"`
	Log           LogConfig     `toml:"log"`
}

type UIConfig struct {
	// ConfirmDangerous asks before commands that overwrite working files.
	ConfirmDangerous bool `toml:"confirm_dangerous"`
}

type StorageConfig struct {
	// Compression is a zstd level name: fastest, default, better or best.
	Compression string `toml:"compression"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		DefaultBranch: "master",
		UI:            UIConfig{ConfirmDangerous: true},
		Storage:       StorageConfig{Compression: "default"},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  1,
			MaxBackups: 2,
			MaxAgeDays: 30,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		cfg.Log.Level = lvl
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Write stores cfg at path.
func Write(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DefaultBranch) == "" {
		return fmt.Errorf("default_branch must not be empty")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Storage.Compression {
	case "fastest", "default", "better", "best":
	default:
		return fmt.Errorf("storage.compression: unknown level %q", c.Storage.Compression)
	}
	return nil
}
