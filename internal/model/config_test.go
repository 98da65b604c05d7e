package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "993", cfg.Account.Port)
	assert.True(t, cfg.Account.TLS)
	assert.Equal(t, 20, cfg.Fetch.Limit)
	assert.Equal(t, 7, cfg.Fetch.SinceDays)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 30, cfg.Digest.HorizonDays)
	assert.Equal(t, ":memory:", cfg.Cache.Path)
	assert.NotEmpty(t, cfg.Digest.DeadlineKeywords)
	assert.NotEmpty(t, cfg.Digest.ActionIndicators)
	assert.NotEmpty(t, cfg.Digest.AttachmentExtensions)
}

func TestLoadConfig_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `account:
  host: imap.example.com
  username: ana@example.com
fetch:
  limit: 5
digest:
  horizon_days: 14
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "imap.example.com", cfg.Account.Host)
	assert.Equal(t, "ana@example.com", cfg.Account.Username)
	assert.Equal(t, 5, cfg.Fetch.Limit)
	assert.Equal(t, 14, cfg.Digest.HorizonDays)
	// Untouched keys keep their defaults.
	assert.Equal(t, "993", cfg.Account.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{not yaml"), 0o600))

	_, err := LoadConfig(path)

	require.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	cfg.Account.Host = "imap.example.com"
	cfg.Account.Username = "ana@example.com"
	cfg.Fetch.Limit = 42

	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "imap.example.com", got.Account.Host)
	assert.Equal(t, "ana@example.com", got.Account.Username)
	assert.Equal(t, 42, got.Fetch.Limit)
	assert.Equal(t, "993", got.Account.Port)
}
