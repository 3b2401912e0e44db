package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristofer/horse/internal/config"
)

func TestDefaultValues(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 2000, cfg.MaxCallDepth)
	assert.False(t, cfg.Debug)
	assert.Equal(t, ">>> ", cfg.Prompt)
	assert.Equal(t, "... ", cfg.ContPrompt)
}

func TestLoadWithEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadOverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_call_depth: 500\nprompt: \"h> \"\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxCallDepth)
	assert.Equal(t, "h> ", cfg.Prompt)
	assert.Equal(t, "... ", cfg.ContPrompt)
}
