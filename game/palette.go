package game

import "math/rand"

// DefaultColor is the snake color of a new game.
const DefaultColor = "green"

// Palette is the fixed set of snake colors.
var Palette = []string{"green", "blue", "purple", "orange", "yellow", "pink", "red"}

// RandomColor picks a palette entry uniformly. It may return the current color.
func RandomColor(rng *rand.Rand) string {
	return Palette[rng.Intn(len(Palette))]
}
