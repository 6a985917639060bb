package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "0.0.0.0:8081", cfg.AdminServer.Addr())
	assert.NotEmpty(t, cfg.MySQL.DSN)
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.Equal(t, 600, cfg.Auth.TokenCacheTTLSeconds)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, "aquashop", cfg.RabbitMQ.ConnectionName)
}

func TestAddrDefaultsHost(t *testing.T) {
	s := ServerConfig{Port: 9000}
	assert.Equal(t, "0.0.0.0:9000", s.Addr())
}

func TestLoadMissingDirFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
}
