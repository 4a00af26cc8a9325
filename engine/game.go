// Package engine runs the Snake simulation.
//
// Game owns the mutable state and implements one tick of the simulation as a
// small state machine (Running, Paused, GameOver). Loop drives a Game at a
// fixed period with a single timer and fans the result out to the render,
// score and notification collaborators.
package engine

import (
	"math/rand"

	"github.com/brensch/snake/game"
	"github.com/brensch/snake/rules"
)

// Phase is the externally visible state of a game.
type Phase int

const (
	PhaseRunning Phase = iota
	PhasePaused
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Frame is an immutable snapshot handed to collaborators.
// Seq increases with every published frame of a Loop.
type Frame struct {
	Seq       uint64
	Snake     []game.Cell
	Food      game.Cell
	HasFood   bool
	Color     string
	Score     int
	Turn      int
	Direction game.Direction
	Phase     Phase
}

// TickResult reports what a single Tick did.
type TickResult struct {
	// Ended is set when the tick found the game already over. No move happens.
	Ended bool
	Moved bool
	Ate   bool
	// Collided is set when this tick's move ended the game.
	Collided bool
	Score    int
}

// Game is a single Snake game. It is not safe for concurrent use; Loop
// serializes access.
type Game struct {
	state *game.State
	rng   *rand.Rand
}

// NewGame returns a running game with food placed.
func NewGame(rng *rand.Rand) *Game {
	g := &Game{rng: rng}
	g.Reset()
	return g
}

// Tick advances the game by at most one move.
func (g *Game) Tick() TickResult {
	if g.state.GameOver {
		return TickResult{Ended: true, Score: g.state.Score}
	}
	if g.state.Paused {
		return TickResult{Score: g.state.Score}
	}

	ate := g.Move()
	collided := g.CheckCollisions()
	return TickResult{Moved: true, Ate: ate, Collided: collided, Score: g.state.Score}
}

// Move advances the snake one Cell and reports whether it ate.
func (g *Game) Move() bool {
	return rules.Move(g.state, g.rng)
}

// CheckCollisions sets the game-over flag on a wall or self hit.
func (g *Game) CheckCollisions() bool {
	return rules.CheckCollisions(g.state)
}

// SetDirection applies d if it turns onto the perpendicular axis.
// Other requests are dropped. Paused games still accept turns.
func (g *Game) SetDirection(d game.Direction) bool {
	if !rules.CanTurn(g.state.Direction, d) {
		return false
	}
	g.state.Direction = d
	return true
}

// SpawnFood places food on a free Cell. It returns false only when the
// snake covers the entire board.
func (g *Game) SpawnFood() bool {
	return game.PlaceFood(g.state, g.rng)
}

// Reset starts a new game. The snake color carries over.
func (g *Game) Reset() {
	color := game.DefaultColor
	if g.state != nil {
		color = g.state.Color
	}
	g.state = game.NewState()
	g.state.Color = color
	g.SpawnFood()
}

// SetPaused sets the pause flag. Pausing a finished game has no effect.
func (g *Game) SetPaused(paused bool) {
	if g.state.GameOver {
		return
	}
	g.state.Paused = paused
}

// TogglePause flips the pause flag and returns the new value.
func (g *Game) TogglePause() bool {
	g.SetPaused(!g.state.Paused)
	return g.state.Paused
}

// ChangeSnakeColor picks a random palette color for the next render.
func (g *Game) ChangeSnakeColor() string {
	g.state.Color = game.RandomColor(g.rng)
	return g.state.Color
}

// Phase derives the state machine position from the flags.
func (g *Game) Phase() Phase {
	switch {
	case g.state.GameOver:
		return PhaseGameOver
	case g.state.Paused:
		return PhasePaused
	default:
		return PhaseRunning
	}
}

func (g *Game) Score() int { return g.state.Score }

func (g *Game) Paused() bool { return g.state.Paused }

func (g *Game) Over() bool { return g.state.GameOver }

// State returns a deep copy of the current state.
func (g *Game) State() *game.State { return g.state.Clone() }

// Snapshot copies the state into a Frame. Seq is left zero.
func (g *Game) Snapshot() Frame {
	body := make([]game.Cell, len(g.state.Snake.Body))
	copy(body, g.state.Snake.Body)
	return Frame{
		Snake:     body,
		Food:      g.state.Food,
		HasFood:   g.state.HasFood,
		Color:     g.state.Color,
		Score:     g.state.Score,
		Turn:      g.state.Turn,
		Direction: g.state.Direction,
		Phase:     g.Phase(),
	}
}
