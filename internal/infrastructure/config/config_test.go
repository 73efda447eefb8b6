package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, SessionBackendMemory, cfg.SessionBackend)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("SESSION_SWEEP_INTERVAL", "120")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, SessionBackendRedis, cfg.SessionBackend)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 2*time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "etcd")

	_, err := LoadConfig()
	assert.Error(t, err)
}
