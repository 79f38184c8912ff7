package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("test-version")
	require.NoError(t, err)

	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "farmbook_engine", cfg.Database.Database)
	assert.Equal(t, int32(25), cfg.Database.MaxConnections)
	assert.Equal(t, "en", cfg.Reports.DefaultLanguage)
	assert.Empty(t, cfg.Redis.Host, "redis should be disabled by default")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGPASSWORD", "secret")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REPORTS_DEFAULT_LANGUAGE", "hi")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "cache.internal", cfg.Redis.Host)
	assert.Equal(t, "hi", cfg.Reports.DefaultLanguage)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "farmbook",
		Password: "pw",
		Database: "farmbook_engine",
		SSLMode:  "disable",
	}

	got := cfg.ConnectionString()
	assert.Equal(t, "host=localhost port=5432 user=farmbook password=pw dbname=farmbook_engine sslmode=disable", got)
}
