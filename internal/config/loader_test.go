package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ReadsYAML(t *testing.T) {
	path := writeConfigFile(t, `
service:
  name: hostel-portal
  port: 9090
database:
  driver: sqlite
  sqlite_path: /tmp/test.db
attendance:
  recognized_networks:
    - 10.0.0.0/16
  window: 12h
`)

	cfg, err := Load[Config](path)
	require.NoError(t, err)

	assert.Equal(t, "hostel-portal", cfg.Service.Name)
	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"10.0.0.0/16"}, cfg.Attendance.RecognizedNetworks)
	assert.Equal(t, 12*time.Hour, cfg.Attendance.Window)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load[Config](filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("PORTAL_PORT", "7070")
	t.Setenv("DB_DRIVER", "postgres")

	path := writeConfigFile(t, `
service:
  port: 9090
database:
  driver: sqlite
`)

	cfg, err := Load[Config](path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Service.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoadWithDefaults_FillsGaps(t *testing.T) {
	path := writeConfigFile(t, `
service:
  name: hostel-portal
`)

	cfg, err := LoadWithDefaults[Config](path, (*Config).SetDefaults)
	require.NoError(t, err)

	// Explicit value kept, everything else defaulted
	assert.Equal(t, "hostel-portal", cfg.Service.Name)
	assert.NotZero(t, cfg.Service.Port)
	assert.NotZero(t, cfg.Database.MaxConnections)
	assert.NotZero(t, cfg.Auth.TokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.Attendance.Window)
	assert.NotZero(t, cfg.Attendance.PunchRPS)
}

func TestLoadWithDefaults_EnvWinsOverDefaults(t *testing.T) {
	t.Setenv("PORTAL_PORT", "6060")

	path := writeConfigFile(t, `
service:
  name: hostel-portal
`)

	cfg, err := LoadWithDefaults[Config](path, (*Config).SetDefaults)
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Service.Port)
}
