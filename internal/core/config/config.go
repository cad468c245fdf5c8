// Package config handles configuration loading and validation for matrix.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/colonyops/matrix/internal/core/task"
	"gopkg.in/yaml.v3"
)

// Backend names a persistence backend.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// IsValid reports whether b is a known backend.
func (b Backend) IsValid() bool {
	switch b {
	case BackendJSON, BackendSQLite, BackendMemory:
		return true
	default:
		return false
	}
}

// storageKeyPattern doubles as the SQLite table name rule.
var storageKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Config holds the application configuration.
type Config struct {
	Storage         StorageConfig `yaml:"storage"`
	Seed            bool          `yaml:"seed"`             // seed a first-run board
	DefaultQuadrant string        `yaml:"default_quadrant"` // quadrant for `add` without --quadrant
	LogEvents       bool          `yaml:"log_events"`       // log every bus event at debug level
	DataDir         string        `yaml:"-"`                // set by caller, not from config file
}

// StorageConfig selects and tunes the persistence backend.
type StorageConfig struct {
	Backend     Backend        `yaml:"backend"`
	Key         string         `yaml:"key"`
	SaveTimeout time.Duration  `yaml:"save_timeout"`
	Database    DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds SQLite connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend:     BackendJSON,
			Key:         task.DefaultStorageKey,
			SaveTimeout: 5 * time.Second,
			Database: DatabaseConfig{
				MaxOpenConns: 4,
				MaxIdleConns: 2,
				BusyTimeout:  5000,
			},
		},
		Seed:            true,
		DefaultQuadrant: string(task.QuadrantUncategorized),
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Storage.Key == "" {
		c.Storage.Key = defaults.Storage.Key
	}
	if c.Storage.SaveTimeout == 0 {
		c.Storage.SaveTimeout = defaults.Storage.SaveTimeout
	}
	if c.Storage.Database.MaxOpenConns == 0 {
		c.Storage.Database.MaxOpenConns = defaults.Storage.Database.MaxOpenConns
	}
	if c.Storage.Database.MaxIdleConns == 0 {
		c.Storage.Database.MaxIdleConns = defaults.Storage.Database.MaxIdleConns
	}
	if c.Storage.Database.BusyTimeout == 0 {
		c.Storage.Database.BusyTimeout = defaults.Storage.Database.BusyTimeout
	}
	if c.DefaultQuadrant == "" {
		c.DefaultQuadrant = defaults.DefaultQuadrant
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if !c.Storage.Backend.IsValid() {
		return fmt.Errorf("storage.backend %q must be one of json, sqlite, memory", c.Storage.Backend)
	}

	if !storageKeyPattern.MatchString(c.Storage.Key) {
		return fmt.Errorf("storage.key %q must match %s", c.Storage.Key, storageKeyPattern)
	}

	if c.Storage.SaveTimeout < 0 {
		return fmt.Errorf("storage.save_timeout cannot be negative")
	}

	if c.Storage.Database.MaxOpenConns < 1 {
		return fmt.Errorf("storage.database.max_open_conns must be at least 1")
	}

	if _, err := task.ParseQuadrant(c.DefaultQuadrant); err != nil {
		return fmt.Errorf("default_quadrant: %w", err)
	}

	return nil
}

// Quadrant returns the parsed default quadrant.
func (c *Config) Quadrant() task.Quadrant {
	q, err := task.ParseQuadrant(c.DefaultQuadrant)
	if err != nil {
		return task.QuadrantUncategorized
	}
	return q
}

// TasksFile returns the path of the JSON tasks file.
func (c *Config) TasksFile() string {
	return filepath.Join(c.DataDir, c.Storage.Key+".json")
}
