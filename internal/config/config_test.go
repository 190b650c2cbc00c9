package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { os.Chdir(wd) })

	return tmpDir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "Excel", cfg.Paths.ExcelDir)
	assert.Equal(t, "Data_Analysis", cfg.Paths.OutputDir)
	assert.False(t, cfg.Export.OpenAfterExport)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdirTemp(t)

	t.Setenv("UNLOAD_LOGGING_LEVEL", "debug")
	t.Setenv("UNLOAD_PATHS_EXCEL_DIR", "incoming")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "incoming", cfg.Paths.ExcelDir)
	// Untouched keys keep their defaults.
	assert.Equal(t, "Data_Analysis", cfg.Paths.OutputDir)
}

func TestLoad_FileOverlay(t *testing.T) {
	tmpDir := chdirTemp(t)

	yaml := []byte("paths:\n  excel_dir: drops\nlogging:\n  level: warn\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), yaml, 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "drops", cfg.Paths.ExcelDir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// Keys the file omits fall back to defaults.
	assert.Equal(t, "console", cfg.Logging.Output)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	tmpDir := chdirTemp(t)

	yaml := []byte("logging:\n  level: warn\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), yaml, 0644))
	t.Setenv("UNLOAD_LOGGING_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_InvalidLevel(t *testing.T) {
	chdirTemp(t)

	t.Setenv("UNLOAD_LOGGING_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "Excel", cfg.Paths.ExcelDir)
}
