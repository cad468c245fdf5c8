package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/colonyops/matrix/internal/core/task"
	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// file accessibility. The configPath argument specifies the config file location
// to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateDatabase(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Storage.Backend == BackendMemory {
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "backend",
			Message:  "memory backend keeps nothing after the command exits",
		})
	}

	if v, ok := keyVersion(c.Storage.Key); !ok || v != task.CurrentVersion {
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "key",
			Message:  fmt.Sprintf("key %q does not end in _v%d; data saved under another key will not be read", c.Storage.Key, task.CurrentVersion),
		})
	}

	if q := c.Quadrant(); q == task.QuadrantCompleted {
		warnings = append(warnings, ValidationWarning{
			Category: "Board",
			Item:     "default_quadrant",
			Message:  "new tasks will be created already completed",
		})
	}

	return warnings
}

// validateFileAccess checks config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Storage.Backend != BackendSQLite {
		return nil
	}

	db := c.Storage.Database
	var errs criterio.FieldErrorsBuilder

	if db.MaxIdleConns > db.MaxOpenConns {
		errs = errs.Append("storage.database.max_idle_conns", fmt.Errorf("%d exceeds max_open_conns %d", db.MaxIdleConns, db.MaxOpenConns))
	}
	if db.BusyTimeout < 0 {
		errs = errs.Append("storage.database.busy_timeout", fmt.Errorf("cannot be negative"))
	}

	return errs.ToError()
}

// keyVersion extracts N from a key ending in _vN.
func keyVersion(key string) (int, bool) {
	i := strings.LastIndex(key, "_v")
	if i < 0 {
		return 0, false
	}
	v, err := strconv.Atoi(key[i+2:])
	if err != nil {
		return 0, false
	}
	return v, true
}
