package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration, read from a YAML
// file with environment-variable overrides layered on top.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Ledger   LedgerConfig   `yaml:"ledger"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig holds the sqlite file location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds the basic-auth credentials. Empty credentials
// disable authentication.
type AuthConfig struct {
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

// LedgerConfig controls posting policy.
type LedgerConfig struct {
	// StrictPosting rejects single-line posts against an account's
	// natural side instead of logging an advisory warning.
	StrictPosting bool `yaml:"strict_posting"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", LogLevel: "info"},
		Database: DatabaseConfig{Path: "./data/accounting.db"},
	}
}

// Load reads a YAML config file, falling back to defaults when the
// file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults plus env are enough to run.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("AUTH_USER"); v != "" {
		c.Auth.User = v
	}
	if v := os.Getenv("AUTH_PASS"); v != "" {
		c.Auth.Pass = v
	}
}
