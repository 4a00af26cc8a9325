// food.go implements food placement.

package game

import (
	"math/rand"
)

// Occupies reports whether any snake segment sits on c.
func (s Snake) Occupies(c Cell) bool {
	for _, p := range s.Body {
		if p == c {
			return true
		}
	}
	return false
}

// RandomCell samples a uniformly random Cell on the board.
func RandomCell(rng *rand.Rand) Cell {
	return Cell{
		X: rng.Intn(Cells) * GridSize,
		Y: rng.Intn(Cells) * GridSize,
	}
}

// PlaceFood puts food on a random Cell not covered by the snake.
//
// Placement is rejection sampling: draw a Cell, retry while it lands on the
// snake. This terminates with probability 1 whenever a free Cell exists.
// When the snake covers the whole board there is nowhere to put food;
// PlaceFood clears HasFood and returns false instead of spinning forever.
func PlaceFood(state *State, rng *rand.Rand) bool {
	if state.Snake.Len() >= Cells*Cells && boardFull(state.Snake) {
		state.HasFood = false
		return false
	}

	for {
		c := RandomCell(rng)
		if state.Snake.Occupies(c) {
			continue
		}
		state.Food = c
		state.HasFood = true
		return true
	}
}

// boardFull reports whether every Cell is covered. Only called once the
// snake is at least as long as the board, where a colliding body may still
// leave gaps.
func boardFull(s Snake) bool {
	seen := make(map[Cell]struct{}, len(s.Body))
	for _, p := range s.Body {
		if p.InBounds() {
			seen[p] = struct{}{}
		}
	}
	return len(seen) >= Cells*Cells
}
