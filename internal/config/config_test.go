package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
OutputDir = "/tmp/logos"
DatabasePath = "/tmp/logos.db"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/logos", cfg.OutputDir)
	assert.Equal(t, 10, cfg.MaxResults)
	assert.Equal(t, 15, cfg.TimeoutSec)
	assert.Equal(t, 3, cfg.ConcurrentSearches)
	assert.Equal(t, 30, cfg.CacheExpiryDays)
	assert.True(t, cfg.SearchAllSources)
	assert.True(t, cfg.DownloadPNG)
	assert.True(t, cfg.DownloadSVG)
	assert.True(t, cfg.UserAgentRotation)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
OutputDir = "/data/logos"
DatabasePath = "/data/logos.db"
MaxResults = 25
SearchAllSources = false
DownloadSVG = false
TimeoutSec = 5
ConcurrentSearches = 8
BrandfetchAPIKey = "bf-key"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.MaxResults)
	assert.False(t, cfg.SearchAllSources)
	assert.False(t, cfg.DownloadSVG)
	assert.True(t, cfg.DownloadPNG, "unset keys keep their defaults")
	assert.Equal(t, 5, cfg.TimeoutSec)
	assert.Equal(t, 8, cfg.ConcurrentSearches)
	assert.Equal(t, "bf-key", cfg.BrandfetchAPIKey)
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	path := writeConfig(t, `
OutputDir = "/tmp/logos"
DatabasePath = "/tmp/logos.db"
MaxResults = -3
TimeoutSec = 0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxResults)
	assert.Equal(t, 15, cfg.TimeoutSec)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestSearchConfigDerivation(t *testing.T) {
	path := writeConfig(t, `
OutputDir = "/tmp/logos"
DatabasePath = "/tmp/logos.db"
MaxResults = 7
GoogleAPIKey = "gk"
GoogleCX = "gcx"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	sc := cfg.SearchConfig()
	assert.Equal(t, 7, sc.MaxResults)
	assert.Equal(t, "gk", sc.GoogleAPIKey)
	assert.Equal(t, "gcx", sc.GoogleCX)
}
