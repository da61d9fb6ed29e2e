package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNoPlayers       = errors.New("match needs at least one player")
	ErrTooManyPlayers  = errors.New("too many players for the arena")
	ErrDuplicatePlayer = errors.New("duplicate player id")
)

// Match is one running arena game. It is a pure state machine: callers
// apply input and time through its methods and serialize access themselves.
type Match struct {
	grid    [][]CellType
	players map[int]*Player
	bombs   []*Bomb
	order   []int // roster ids in join order, for deterministic snapshots
	steps   int
}

// NewMatch creates an arena match with one player per id, spawned in the
// order given.
func NewMatch(ids []int) (*Match, error) {
	if len(ids) == 0 {
		return nil, ErrNoPlayers
	}
	spawns := spawnPositions(DefaultWidth, DefaultHeight)
	if len(ids) > len(spawns) {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyPlayers, len(ids), len(spawns))
	}

	m := &Match{
		grid:    newArena(DefaultWidth, DefaultHeight),
		players: make(map[int]*Player, len(ids)),
	}
	for i, id := range ids {
		if _, exists := m.players[id]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicatePlayer, id)
		}
		m.players[id] = &Player{ID: id, Pos: spawns[i], Alive: true}
		m.order = append(m.order, id)
	}
	return m, nil
}

// RemovePlayer drops a player from the match entirely. Bombs they placed
// keep ticking.
func (m *Match) RemovePlayer(id int) {
	delete(m.players, id)
	for i, pid := range m.order {
		if pid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Alive reports whether the player is in the match and still alive.
func (m *Match) Alive(id int) bool {
	p, ok := m.players[id]
	return ok && p.Alive
}

// AliveCount returns how many players are still alive.
func (m *Match) AliveCount() int {
	n := 0
	for _, p := range m.players {
		if p.Alive {
			n++
		}
	}
	return n
}

// Steps returns how many ticks the match has advanced.
func (m *Match) Steps() int {
	return m.steps
}

// Snapshot returns the players in join order for status reporting.
func (m *Match) Snapshot() []PlayerState {
	out := make([]PlayerState, 0, len(m.order))
	for _, id := range m.order {
		p, ok := m.players[id]
		if !ok {
			continue
		}
		out = append(out, PlayerState{ID: p.ID, Pos: p.Pos, Alive: p.Alive})
	}
	return out
}
