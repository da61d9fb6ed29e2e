package engine

// CellType represents the kinds of arena grid cells
type CellType string

const (
	Floor CellType = "floor"
	Wall  CellType = "wall"
)

// Direction is a movement direction accepted by Match.Move
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

const (
	// DefaultWidth and DefaultHeight give the classic arena footprint
	DefaultWidth  = 13
	DefaultHeight = 11

	// BombFuseSteps is how many engine steps a bomb ticks before detonating
	BombFuseSteps = 30

	// BlastRadius is how far a detonation reaches along each axis
	BlastRadius = 2

	// MaxMatchPlayers is the number of spawn points an arena provides
	MaxMatchPlayers = 8
)

// Position represents x,y coordinates on the arena grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Player holds one participant's in-match state
type Player struct {
	ID    int
	Pos   Position
	Alive bool
}

// Bomb is a placed hazard counting down to detonation
type Bomb struct {
	Owner int
	Pos   Position
	Fuse  int
}

// PlayerState is a read-only player snapshot for status reporting
type PlayerState struct {
	ID    int      `json:"id"`
	Pos   Position `json:"pos"`
	Alive bool     `json:"alive"`
}
