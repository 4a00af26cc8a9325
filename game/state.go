// Package game defines the core state types for a single-player Snake game.
//
// Coordinates are in board units: every Cell is a multiple of GridSize and
// (0,0) is the top-left corner of the board.
package game

const (
	// GridSize is the edge length of one Cell in board units.
	GridSize = 20
	// BoardSize is the edge length of the square board in board units.
	BoardSize = 400
	// Cells is the number of Cells along one edge of the board.
	Cells = BoardSize / GridSize
)

// StartCell is where a fresh snake spawns.
var StartCell = Cell{X: 160, Y: 160}

// Cell is a grid-aligned board coordinate.
type Cell struct {
	X int
	Y int
}

// Add returns c translated by d.
func (c Cell) Add(d Direction) Cell {
	return Cell{X: c.X + d.DX, Y: c.Y + d.DY}
}

// InBounds reports whether c lies on the board.
func (c Cell) InBounds() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

// Direction is a velocity of exactly one GridSize along one axis.
type Direction struct {
	DX int
	DY int
}

var (
	Up    = Direction{DX: 0, DY: -GridSize}
	Down  = Direction{DX: 0, DY: GridSize}
	Left  = Direction{DX: -GridSize, DY: 0}
	Right = Direction{DX: GridSize, DY: 0}
)

// DefaultDirection is the heading of a fresh snake.
var DefaultDirection = Right

// Horizontal reports whether d moves along the x axis.
func (d Direction) Horizontal() bool { return d.DY == 0 && d.DX != 0 }

// Vertical reports whether d moves along the y axis.
func (d Direction) Vertical() bool { return d.DX == 0 && d.DY != 0 }

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Snake is ordered head first.
type Snake struct {
	Body []Cell
}

// Head returns the leading segment.
func (s Snake) Head() Cell { return s.Body[0] }

// Len returns the number of segments.
func (s Snake) Len() int { return len(s.Body) }

// State is everything the simulation mutates between ticks.
type State struct {
	Snake     Snake
	Food      Cell
	HasFood   bool
	Direction Direction
	Score     int
	Turn      int
	GameOver  bool
	Paused    bool
	Color     string
}

// NewState returns the state of a freshly reset game without food.
// Callers place food with PlaceFood.
func NewState() *State {
	return &State{
		Snake:     Snake{Body: []Cell{StartCell}},
		Direction: DefaultDirection,
		Color:     DefaultColor,
	}
}

// Clone performs a deep copy of the game state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	out := *s
	if len(s.Snake.Body) > 0 {
		out.Snake.Body = make([]Cell, len(s.Snake.Body))
		copy(out.Snake.Body, s.Snake.Body)
	}
	return &out
}
