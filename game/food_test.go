package game

import (
	"math/rand"
	"testing"
)

func TestPlaceFood_NeverOnSnake(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	// Cover every Cell of the top half of the board.
	state := NewState()
	state.Snake.Body = state.Snake.Body[:0]
	for y := 0; y < BoardSize/2; y += GridSize {
		for x := 0; x < BoardSize; x += GridSize {
			state.Snake.Body = append(state.Snake.Body, Cell{X: x, Y: y})
		}
	}

	for i := 0; i < 500; i++ {
		if !PlaceFood(state, rng) {
			t.Fatalf("placement %d failed with free cells left", i)
		}
		if state.Snake.Occupies(state.Food) {
			t.Fatalf("placement %d put food on snake at %v", i, state.Food)
		}
		if !state.Food.InBounds() {
			t.Fatalf("placement %d out of bounds: %v", i, state.Food)
		}
		if state.Food.X%GridSize != 0 || state.Food.Y%GridSize != 0 {
			t.Fatalf("placement %d not grid aligned: %v", i, state.Food)
		}
	}
}

func TestPlaceFood_SingleFreeCell(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	free := Cell{X: 200, Y: 260}

	state := NewState()
	state.Snake.Body = state.Snake.Body[:0]
	for y := 0; y < BoardSize; y += GridSize {
		for x := 0; x < BoardSize; x += GridSize {
			if c := (Cell{X: x, Y: y}); c != free {
				state.Snake.Body = append(state.Snake.Body, c)
			}
		}
	}

	if !PlaceFood(state, rng) {
		t.Fatalf("PlaceFood=false with one free cell")
	}
	if state.Food != free {
		t.Fatalf("food=%v want=%v", state.Food, free)
	}
}

func TestPlaceFood_FullBoard(t *testing.T) {
	state := NewState()
	state.Snake.Body = state.Snake.Body[:0]
	for y := 0; y < BoardSize; y += GridSize {
		for x := 0; x < BoardSize; x += GridSize {
			state.Snake.Body = append(state.Snake.Body, Cell{X: x, Y: y})
		}
	}
	state.HasFood = true

	if PlaceFood(state, rand.New(rand.NewSource(1))) {
		t.Fatalf("PlaceFood=true on a full board")
	}
	if state.HasFood {
		t.Fatalf("HasFood=true on a full board")
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := NewState()
	s.Snake.Body = append(s.Snake.Body, Cell{X: 140, Y: 160})
	c := s.Clone()
	c.Snake.Body[0] = Cell{X: 0, Y: 0}
	c.Score = 5

	if s.Snake.Body[0] != StartCell {
		t.Fatalf("clone shares body with original")
	}
	if s.Score != 0 {
		t.Fatalf("clone shares score with original")
	}
}

func TestRandomColor_InPalette(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		c := RandomColor(rng)
		found := false
		for _, p := range Palette {
			if p == c {
				found = true
			}
		}
		if !found {
			t.Fatalf("color %q not in palette", c)
		}
		seen[c] = true
	}
	if len(seen) != len(Palette) {
		t.Fatalf("saw %d colors want=%d", len(seen), len(Palette))
	}
}
