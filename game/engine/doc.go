// Package engine implements the arena match: a bordered pillar grid where
// players move cell by cell, drop bombs, and are eliminated by the blasts.
//
// Core Types:
//
// Match is one running game, created by NewMatch with the roster's player
// ids. Move and PlaceBomb apply player input, Step advances time by one
// tick and reports eliminations, RemovePlayer drops a player who left.
//
// Concurrency:
//
// A Match is not safe for concurrent use. The session layer serializes all
// access behind its own lock, so the engine stays a pure state machine.
//
// Game Rules:
//
// The arena is DefaultWidth x DefaultHeight cells: an indestructible wall
// ring around the outside and wall pillars on every even/even interior
// intersection. Players spawn on the corner cells, spread as far apart as
// the roster allows. A bomb fuses for BombFuseSteps steps, then blasts
// BlastRadius cells along each axis. Walls clip the blast; a blast that
// reaches another bomb sets it off in the same step. Each player may have
// one bomb ticking at a time. The last player standing wins, though the
// engine itself only reports deaths and leaves win handling to its caller.
package engine
