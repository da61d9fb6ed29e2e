// Package config provides runtime configuration for the arena server.
//
// Settings come from environment variables (ARENA_* with sensible defaults
// for local play), typically loaded from a .env file by the entrypoint.
// Command-line flags may override individual fields after Load returns.
//
// Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	listener, err := net.Listen("tcp", cfg.GameAddr())
//
// Validation:
//
// Load validates ports, the player cap against the arena's spawn capacity,
// and the heartbeat and countdown timings, so the rest of the server can
// treat the returned Config as trusted.
package config
