package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/blastarena/server/game/engine"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the server's runtime settings.
type Config struct {
	// Host is the bind address for both listeners.
	Host string `env:"ARENA_HOST" envDefault:"0.0.0.0"`
	// Port is the TCP port for the framed game protocol.
	Port int `env:"ARENA_PORT" envDefault:"7777"`
	// HTTPPort serves the status API and the websocket endpoint. Zero
	// disables the HTTP listener.
	HTTPPort int `env:"ARENA_HTTP_PORT" envDefault:"8080"`

	// MaxPlayers caps admitted connections.
	MaxPlayers int `env:"ARENA_MAX_PLAYERS" envDefault:"8"`

	// HeartbeatTimeout is how long a connection may stay silent before it
	// is probed, and how long a probe may go unanswered before eviction.
	HeartbeatTimeout time.Duration `env:"ARENA_HEARTBEAT_TIMEOUT" envDefault:"5s"`
	// HeartbeatTick is the liveness scan cadence.
	HeartbeatTick time.Duration `env:"ARENA_HEARTBEAT_TICK" envDefault:"1s"`

	// CountdownSeconds is the lobby countdown's starting value.
	CountdownSeconds int `env:"ARENA_COUNTDOWN_SECONDS" envDefault:"10"`

	// ShutdownGrace bounds how long shutdown waits for writers to drain.
	ShutdownGrace time.Duration `env:"ARENA_SHUTDOWN_GRACE" envDefault:"5s"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: game port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("%w: http port %d out of range", ErrInvalidConfig, c.HTTPPort)
	}
	if c.HTTPPort == c.Port && c.HTTPPort != 0 {
		return fmt.Errorf("%w: game and http listeners share port %d", ErrInvalidConfig, c.Port)
	}
	if c.MaxPlayers < 2 || c.MaxPlayers > engine.MaxMatchPlayers {
		return fmt.Errorf("%w: max players %d outside 2..%d", ErrInvalidConfig, c.MaxPlayers, engine.MaxMatchPlayers)
	}
	if c.HeartbeatTimeout <= 0 {
		return fmt.Errorf("%w: heartbeat timeout %v", ErrInvalidConfig, c.HeartbeatTimeout)
	}
	if c.HeartbeatTick <= 0 || c.HeartbeatTick > c.HeartbeatTimeout {
		return fmt.Errorf("%w: heartbeat tick %v must be positive and at most the timeout", ErrInvalidConfig, c.HeartbeatTick)
	}
	if c.CountdownSeconds < 1 {
		return fmt.Errorf("%w: countdown %d seconds", ErrInvalidConfig, c.CountdownSeconds)
	}
	if c.ShutdownGrace < 0 {
		return fmt.Errorf("%w: shutdown grace %v", ErrInvalidConfig, c.ShutdownGrace)
	}
	return nil
}

// GameAddr returns the bind address of the framed TCP listener.
func (c *Config) GameAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// HTTPAddr returns the bind address of the status/websocket listener.
func (c *Config) HTTPAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.HTTPPort))
}
