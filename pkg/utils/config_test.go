package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()
	require.Len(t, cfg.Inputs, 2)
	assert.Equal(t, "US", cfg.Inputs[0].Country)
	assert.Equal(t, "IN", cfg.Inputs[1].Country)
	assert.Equal(t, "youtube_trending.db", cfg.DBPath)
	assert.Equal(t, "outputs", cfg.OutputsDir)
}

func TestDefaultPipelineConfigDBPathEnvOverride(t *testing.T) {
	t.Setenv("TRENDHUB_DB_PATH", "/tmp/override.db")
	assert.Equal(t, "/tmp/override.db", DefaultPipelineConfig().DBPath)
}

func TestLoadPipelineConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadPipelineConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPipelineConfig(), cfg)
}

func TestLoadPipelineConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
inputs:
  - path: data/GBvideos.csv
    country: GB
db_path: trending.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadPipelineConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Inputs, 1)
	assert.Equal(t, "GB", cfg.Inputs[0].Country)
	assert.Equal(t, "trending.db", cfg.DBPath)

	// keys the file never mentions keep their defaults
	assert.Equal(t, "outputs", cfg.OutputsDir)
	assert.Equal(t, "data/US_category_id.json", cfg.CategoryFile)
}

func TestLoadPipelineConfigRejectsIncompleteInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
inputs:
  - path: data/GBvideos.csv
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadPipelineConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path and country")
}

func TestLoadPipelineConfigMissingFile(t *testing.T) {
	_, err := LoadPipelineConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
