package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(cfg.DataDir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.DataDir = file

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "data_dir", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "not a directory")
}

func TestValidateDeep_ConfigPathIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
}

func TestValidateDeep_DatabasePool(t *testing.T) {
	cfg := validConfig(t)
	cfg.Storage.Backend = BackendSQLite
	cfg.Storage.Database.MaxIdleConns = 10
	cfg.Storage.Database.BusyTimeout = -1

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 2)
	assert.Equal(t, "storage.database.max_idle_conns", fieldErrs[0].Field)

	// pool settings are ignored for other backends
	cfg.Storage.Backend = BackendJSON
	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	cfg.Storage.Backend = BackendMemory
	cfg.Storage.Key = "tasks"
	cfg.DefaultQuadrant = "done"

	warnings := cfg.Warnings()
	require.Len(t, warnings, 3)
	assert.Equal(t, "backend", warnings[0].Item)
	assert.Equal(t, "key", warnings[1].Item)
	assert.Equal(t, "default_quadrant", warnings[2].Item)
}

func TestKeyVersion(t *testing.T) {
	v, ok := keyVersion("tasks_v1")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = keyVersion("tasks")
	assert.False(t, ok)
}
