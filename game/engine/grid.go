package engine

// newArena builds the bordered pillar grid: a solid wall ring around the
// outside and wall pillars on every even/even interior intersection.
func newArena(width, height int) [][]CellType {
	grid := make([][]CellType, height)
	for y := range grid {
		grid[y] = make([]CellType, width)
		for x := range grid[y] {
			switch {
			case x == 0 || y == 0 || x == width-1 || y == height-1:
				grid[y][x] = Wall
			case x%2 == 0 && y%2 == 0:
				grid[y][x] = Wall
			default:
				grid[y][x] = Floor
			}
		}
	}
	return grid
}

// spawnPositions lists the arena's player start cells, opposite corners
// first so small matches begin maximally spread out.
func spawnPositions(width, height int) []Position {
	return []Position{
		{X: 1, Y: 1},
		{X: width - 2, Y: height - 2},
		{X: width - 2, Y: 1},
		{X: 1, Y: height - 2},
		{X: oddMid(width), Y: 1},
		{X: oddMid(width), Y: height - 2},
		{X: 1, Y: oddMid(height)},
		{X: width - 2, Y: oddMid(height)},
	}
}

// oddMid returns the odd coordinate nearest the middle of an axis, keeping
// spawns off the pillar lattice.
func oddMid(n int) int {
	m := n / 2
	if m%2 == 0 {
		m--
	}
	return m
}
