package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile_ReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ParsesRecognizedOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phpanalyze.yaml")
	contents := `
memoize_properties: true
analyze_effects: true
find_unused_expressions: false
analyze_dead_code: true
paths:
  - src
  - tests
exclude:
  - vendor
workers: 4
plugins:
  - laravel
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.MemoizeProperties)
	assert.True(t, cfg.AnalyzeEffects)
	assert.False(t, cfg.FindUnusedExpressions)
	assert.True(t, cfg.AnalyzeDeadCode)
	assert.Equal(t, []string{"src", "tests"}, cfg.Paths)
	assert.Equal(t, []string{"vendor"}, cfg.Exclude)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"laravel"}, cfg.Plugins)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("memoize_properties: [this is not a bool"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
