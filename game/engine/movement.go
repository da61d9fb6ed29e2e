package engine

// canMoveTo checks bounds and wall collision for a target cell.
func (m *Match) canMoveTo(x, y int) bool {
	if y < 0 || y >= len(m.grid) {
		return false
	}
	if x < 0 || x >= len(m.grid[0]) {
		return false
	}
	return m.grid[y][x] != Wall
}

// Move attempts to move a player one cell in the given direction. It
// reports false when the player is missing, dead, or blocked; input from
// eliminated players is routine after a blast, not an error.
func (m *Match) Move(id int, direction Direction) bool {
	p, ok := m.players[id]
	if !ok || !p.Alive {
		return false
	}

	newX, newY := p.Pos.X, p.Pos.Y
	switch direction {
	case DirUp:
		newY--
	case DirDown:
		newY++
	case DirLeft:
		newX--
	case DirRight:
		newX++
	default:
		return false
	}

	if !m.canMoveTo(newX, newY) {
		return false
	}

	p.Pos.X = newX
	p.Pos.Y = newY
	return true
}
