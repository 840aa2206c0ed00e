package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, DefaultJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, DriverMemory, cfg.Cache.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "https://eventregistry.org", cfg.API.BaseURL)
	assert.Equal(t, 10, cfg.API.PageSize)
	assert.Equal(t, "eng", cfg.API.Lang)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "s3cret")
	t.Setenv("TEST_NEWS_API_KEY", "key-123")

	cfg, err := Parse([]byte(`
auth:
  jwt_secret: ${TEST_JWT_SECRET}
  token_expiry: 1h
api:
  key: ${TEST_NEWS_API_KEY}
cache:
  ttl: 30s
`))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, "key-123", cfg.API.Key)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestParse_UnknownDriver(t *testing.T) {
	_, err := Parse([]byte("cache:\n  driver: memcached\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cache driver")

	_, err = Parse([]byte("storage:\n  driver: mongo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nserver:\n  addr: \":8080\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "news", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=news sslmode=disable", d.DSN())
}
