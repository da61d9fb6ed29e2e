package engine

import "sort"

// PlaceBomb drops a bomb at the player's position. Each player may have
// one bomb ticking at a time; placing while a previous bomb is still live
// reports false.
func (m *Match) PlaceBomb(id int) bool {
	p, ok := m.players[id]
	if !ok || !p.Alive {
		return false
	}
	for _, b := range m.bombs {
		if b.Owner == id {
			return false
		}
	}
	m.bombs = append(m.bombs, &Bomb{Owner: id, Pos: p.Pos, Fuse: BombFuseSteps})
	return true
}

// Step advances the match one tick: fuses burn down and due bombs
// detonate, chaining into any bomb their blast reaches. It returns the ids
// of players killed this step in ascending order.
func (m *Match) Step() []int {
	m.steps++

	for _, b := range m.bombs {
		b.Fuse--
	}

	blast := make(map[Position]bool)
	for {
		detonatedAny := false
		remaining := m.bombs[:0]
		for _, b := range m.bombs {
			if b.Fuse <= 0 || blast[b.Pos] {
				m.explode(b, blast)
				detonatedAny = true
			} else {
				remaining = append(remaining, b)
			}
		}
		m.bombs = remaining
		if !detonatedAny {
			break
		}
	}

	if len(blast) == 0 {
		return nil
	}

	var died []int
	for _, p := range m.players {
		if p.Alive && blast[p.Pos] {
			p.Alive = false
			died = append(died, p.ID)
		}
	}
	sort.Ints(died)
	return died
}

// explode marks the cross-shaped blast area around a bomb, clipped by
// walls.
func (m *Match) explode(b *Bomb, blast map[Position]bool) {
	blast[b.Pos] = true

	dirs := []struct{ dx, dy int }{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	for _, d := range dirs {
		for r := 1; r <= BlastRadius; r++ {
			x, y := b.Pos.X+d.dx*r, b.Pos.Y+d.dy*r
			if !m.canMoveTo(x, y) {
				break
			}
			blast[Position{X: x, Y: y}] = true
		}
	}
}
