package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "./data/accounting.db", cfg.Database.Path)
	assert.False(t, cfg.Ledger.StrictPosting)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
  log_level: debug
database:
  path: /tmp/books.db
auth:
  user: admin
  pass: secret
ledger:
  strict_posting: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/tmp/books.db", cfg.Database.Path)
	assert.Equal(t, "admin", cfg.Auth.User)
	assert.Equal(t, "secret", cfg.Auth.Pass)
	assert.True(t, cfg.Ledger.StrictPosting)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("DB_PATH", "/tmp/override.db")
	t.Setenv("AUTH_USER", "envuser")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, "envuser", cfg.Auth.User)
}
