package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(filepath.Join(tmpDir, "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), cfg.Sequencer.LeaseLength)
}

func TestSaveConfig_ThenLoad_RoundTrips(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Transport.Admin.Secret = "this-is-a-development-only-secret-value"
	cfg.Sequencer.LeaseLength = 250_000
	cfg.LeaseStore.Type = LeaseStoreSQLite
	cfg.LeaseStore.SQLitePath = "/data/lease.db"

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(250_000), loaded.Sequencer.LeaseLength)
	assert.Equal(t, LeaseStoreSQLite, loaded.LeaseStore.Type)
	assert.Equal(t, "/data/lease.db", loaded.LeaseStore.SQLitePath)
	assert.Equal(t, cfg.Transport.Admin.Secret, loaded.Transport.Admin.Secret)
}

func TestLoad_EnvOverridesAdminSecret(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Transport.Admin.Secret = "file-configured-secret-value-long-enough"
	require.NoError(t, SaveConfig(cfg, path))

	t.Setenv("SEQUENCER_ADMIN_SECRET", "env-configured-secret-value-long-enough")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-configured-secret-value-long-enough", loaded.Transport.AdminSecret())
}

func TestMustLoad_MissingFileReturnsHelpfulError(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := MustLoad(filepath.Join(tmpDir, "missing.yaml"))
	assert.ErrorContains(t, err, "configuration file not found")
}
