package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mtjsim/internal/config"
)

func execute(args ...string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "antiferro.yaml")

	require.NoError(t, execute("config", "save", path, "--preset", "bilayer/antiferro", "--steps", "123", "--window"))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	want := config.GetPreset("bilayer", "antiferro")
	want.Steps = 123
	want.Stimulus.Window = true
	assert.Equal(t, want, cfg)
}

func TestConfigSave_RoundTripsThroughConfigFlag(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")

	require.NoError(t, execute("config", "save", first, "--dt", "1e-12", "--integrator", "heun"))
	require.NoError(t, execute("config", "save", second, "--config", first))

	a, err := config.Load(first)
	require.NoError(t, err)
	b, err := config.Load(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 1e-12, b.Dt)
	assert.Equal(t, "heun", b.Integrator)
	assert.False(t, b.Stimulus.Window)
}

func TestConfigSave_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")

	assert.ErrorContains(t, execute("config", "save", path, "--preset", "bilayer/none"), "unknown preset")
	assert.ErrorContains(t, execute("config", "save", path, "--preset", "bilayer"), "stack/name")
	assert.Error(t, execute("config", "save", path, "--dt=-1"))
	assert.NoFileExists(t, path)

	assert.ErrorContains(t, execute("config", "save", filepath.Join(t.TempDir(), "missing", "x.yaml")), "failed to save config")
}
