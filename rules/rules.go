package rules

import (
	"math/rand"
	"strings"

	"github.com/brensch/snake/game"
)

// CanTurn reports whether a snake heading current may switch to requested.
// Only changes onto the perpendicular axis are allowed, which rules out
// both a no-op and an instant reversal into the neck.
func CanTurn(current, requested game.Direction) bool {
	switch {
	case requested.Horizontal():
		return !current.Horizontal()
	case requested.Vertical():
		return !current.Vertical()
	default:
		return false
	}
}

// ParseDirection maps an input name to a direction. It accepts the short
// names used on the wire (up, down, left, right) and browser key names
// (ArrowUp, ...), case-insensitively.
func ParseDirection(name string) (game.Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "up", "arrowup", "w", "k":
		return game.Up, true
	case "down", "arrowdown", "s", "j":
		return game.Down, true
	case "left", "arrowleft", "a", "h":
		return game.Left, true
	case "right", "arrowright", "d", "l":
		return game.Right, true
	}
	return game.Direction{}, false
}

// Move advances the snake one Cell along its direction and reports whether
// it ate. Eating increments the score, keeps the tail (the snake grows by
// one), and places new food. Otherwise the tail is dropped.
func Move(state *game.State, rng *rand.Rand) bool {
	head := state.Snake.Head()
	newHead := head.Add(state.Direction)

	newBody := make([]game.Cell, 0, len(state.Snake.Body)+1)
	newBody = append(newBody, newHead)
	newBody = append(newBody, state.Snake.Body...)

	ate := state.HasFood && newHead == state.Food
	if !ate {
		newBody = newBody[:len(newBody)-1]
	}
	state.Snake.Body = newBody
	state.Turn++

	if ate {
		state.Score++
		game.PlaceFood(state, rng)
	}
	return ate
}

// CheckCollisions sets GameOver when the head is off the board or on any
// other segment, and reports the result.
func CheckCollisions(state *game.State) bool {
	head := state.Snake.Head()

	if !head.InBounds() {
		state.GameOver = true
		return true
	}

	for _, p := range state.Snake.Body[1:] {
		if p == head {
			state.GameOver = true
			return true
		}
	}

	return false
}
