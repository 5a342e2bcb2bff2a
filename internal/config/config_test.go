package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/payload-manager/internal/config"
)

const configYAML = `
debug: true
log:
  level: debug
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 10s
database:
  host: db.internal
  user: payload
  password: secret
  dbname: payload_manager
redis:
  address: redis.internal:6379
  enabled: true
sources:
  file: /etc/payload-manager/sources.yml
  watch: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, configYAML))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "payload_manager", cfg.Database.DBName)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "/etc/payload-manager/sources.yml", cfg.Sources.File)
	assert.True(t, cfg.Sources.Watch)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
server:
  host: 0.0.0.0
database:
  host: localhost
  user: payload
  dbname: payload_manager
`))
	require.NoError(t, err)

	assert.Equal(t, 8060, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Redis.Enabled, "event publishing is opt-in")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8061")
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("REDIS_EVENTS_ENABLED", "yes")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := config.Load(writeConfig(t, configYAML))
	require.NoError(t, err)

	assert.Equal(t, 8061, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_InvalidConfig(t *testing.T) {
	_, err := config.Load(writeConfig(t, `
server:
  host: 0.0.0.0
database:
  host: localhost
  user: payload
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dbname is required")
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, "config.yml", config.GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/payload-manager/config.yml")
	assert.Equal(t, "/etc/payload-manager/config.yml", config.GetConfigPath("config.yml"))
}
