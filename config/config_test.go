package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logging "gopkg.in/op/go-logging.v1"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Color)
	assert.Equal(t, "WARNING", cfg.LogLevel)
	assert.Equal(t, 0, cfg.MaxCallDepth)
}

func TestLoadMissingFileYieldsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lucid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color: false\nlog_level: DEBUG\nmax_call_depth: 500\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Color)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 500, cfg.MaxCallDepth)
}

func TestLevelFallsBackToWarningOnGarbage(t *testing.T) {
	cfg := &Config{LogLevel: "not-a-level"}
	assert.Equal(t, logging.WARNING, cfg.Level())
}

