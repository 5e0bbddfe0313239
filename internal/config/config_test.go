package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.Port = "9000"
	cfg.Collector.RequestsPerMinute = 10

	require.NoError(t, cfg.Save(path))
	assert.True(t, Exists(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "sqlite", cfg.SQLDatabase.Provider)
	assert.Equal(t, "mongodb", cfg.NoSQLDatabase.Provider)
	assert.Equal(t, "8989", cfg.API.Port)
	assert.Positive(t, cfg.Collector.RequestsPerMinute)
}
