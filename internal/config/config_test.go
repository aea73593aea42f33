package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownCacheBackend(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.Backend = "dynamo"
	require.Error(t, cfg.Validate())
}

func TestValidateRequiresRedisURLWhenBackendIsRedis(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.Backend = "redis"
	require.Error(t, cfg.Validate())

	cfg.Cache.RedisURL = "redis://localhost:6379"
	require.NoError(t, cfg.Validate())
}

func TestValidateRequiresRedisURLWhenTimelineBackendIsRedis(t *testing.T) {
	cfg := defaultConfig()
	cfg.Timeline.Backend = "redis"
	require.Error(t, cfg.Validate())

	cfg.Cache.RedisURL = "redis://localhost:6379"
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsInvalidServerPort(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.Port = 0
	require.Error(t, cfg.Validate())

	cfg.Server.Port = 70000
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroTTLs(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.DefaultTTL = 0
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := defaultConfig()
	cfg.Logging.Level = "trace"
	require.Error(t, cfg.Validate())
}
