package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 7777, cfg.Port)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 8, cfg.MaxPlayers)
	assert.Equal(t, 5*time.Second, cfg.HeartbeatTimeout)
	assert.Equal(t, time.Second, cfg.HeartbeatTick)
	assert.Equal(t, 10, cfg.CountdownSeconds)
	assert.Equal(t, 5*time.Second, cfg.ShutdownGrace)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ARENA_HOST", "127.0.0.1")
	t.Setenv("ARENA_PORT", "4000")
	t.Setenv("ARENA_MAX_PLAYERS", "4")
	t.Setenv("ARENA_HEARTBEAT_TIMEOUT", "2s")
	t.Setenv("ARENA_COUNTDOWN_SECONDS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, 4, cfg.MaxPlayers)
	assert.Equal(t, 2*time.Second, cfg.HeartbeatTimeout)
	assert.Equal(t, 3, cfg.CountdownSeconds)
	assert.Equal(t, "127.0.0.1:4000", cfg.GameAddr())
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr())
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Setenv("ARENA_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Host:             "0.0.0.0",
			Port:             7777,
			HTTPPort:         8080,
			MaxPlayers:       8,
			HeartbeatTimeout: 5 * time.Second,
			HeartbeatTick:    time.Second,
			CountdownSeconds: 10,
			ShutdownGrace:    5 * time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero game port", func(c *Config) { c.Port = 0 }, true},
		{"http disabled", func(c *Config) { c.HTTPPort = 0 }, false},
		{"port clash", func(c *Config) { c.HTTPPort = c.Port }, true},
		{"too few players", func(c *Config) { c.MaxPlayers = 1 }, true},
		{"more players than spawns", func(c *Config) { c.MaxPlayers = 64 }, true},
		{"zero heartbeat timeout", func(c *Config) { c.HeartbeatTimeout = 0 }, true},
		{"tick slower than timeout", func(c *Config) { c.HeartbeatTick = 10 * time.Second }, true},
		{"zero countdown", func(c *Config) { c.CountdownSeconds = 0 }, true},
		{"negative shutdown grace", func(c *Config) { c.ShutdownGrace = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}
