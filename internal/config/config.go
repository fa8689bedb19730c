package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for configuration.
const DefaultPath = "kakeibo.yaml"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config represents the top-level kakeibo.yaml configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Display DisplayConfig `yaml:"display"`
}

// StorageConfig selects where the book is kept.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path"`
	Backups int    `yaml:"backups"` // previous generations kept on save
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig controls diagnostic logging on stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// DisplayConfig controls how amounts are printed.
type DisplayConfig struct {
	Currency string `yaml:"currency"` // ISO 4217 code
}

// Load reads a kakeibo.yaml file from disk. Fields the file leaves out keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is like Load but returns the defaults when path does not
// exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new book.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "kakeibo.json",
			Backups: 3,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Display: DisplayConfig{
			Currency: "JPY",
		},
	}
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("storage.backend %q: must be %s or %s", c.Storage.Backend, BackendFile, BackendSQLite)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path: required")
	}
	if c.Storage.Backups < 0 {
		return fmt.Errorf("storage.backups: must not be negative")
	}
	return nil
}
