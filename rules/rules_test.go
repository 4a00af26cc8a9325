package rules

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/brensch/snake/game"
)

func dumpState(state *game.State) string {
	if state == nil {
		return "<nil state>"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Turn=%d Score=%d Dir=%s GameOver=%v\n", state.Turn, state.Score, state.Direction, state.GameOver)
	if state.HasFood {
		fmt.Fprintf(&b, "Food: (%d,%d)\n", state.Food.X, state.Food.Y)
	}
	fmt.Fprintf(&b, "Snake Len=%d Body:", state.Snake.Len())
	for _, p := range state.Snake.Body {
		fmt.Fprintf(&b, " (%d,%d)", p.X, p.Y)
	}
	b.WriteString("\n")
	return b.String()
}

func logMove(t *testing.T, name string, before, after *game.State) {
	t.Helper()
	t.Logf("=== %s ===\nBefore:\n%sAfter:\n%s", name, dumpState(before), dumpState(after))
}

func stateWith(body []game.Cell, dir game.Direction) *game.State {
	s := game.NewState()
	s.Snake.Body = body
	s.Direction = dir
	return s
}

func TestMove_NoFood(t *testing.T) {
	before := stateWith([]game.Cell{{X: 160, Y: 160}}, game.Right)
	before.Food = game.Cell{X: 0, Y: 0}
	before.HasFood = true

	after := before.Clone()
	ate := Move(after, rand.New(rand.NewSource(1)))
	logMove(t, "move no food", before, after)

	if ate {
		t.Fatalf("ate=true want=false")
	}
	if got, want := after.Snake.Body, []game.Cell{{X: 180, Y: 160}}; !equalCells(got, want) {
		t.Fatalf("body=%v want=%v", got, want)
	}
	if after.Score != 0 {
		t.Fatalf("score=%d want=0", after.Score)
	}
	if after.Turn != 1 {
		t.Fatalf("turn=%d want=1", after.Turn)
	}
}

func TestMove_EatFood_Grows(t *testing.T) {
	before := stateWith([]game.Cell{{X: 160, Y: 160}}, game.Right)
	before.Food = game.Cell{X: 180, Y: 160}
	before.HasFood = true

	after := before.Clone()
	ate := Move(after, rand.New(rand.NewSource(7)))
	logMove(t, "move eat food", before, after)

	if !ate {
		t.Fatalf("ate=false want=true")
	}
	if got, want := after.Snake.Body, []game.Cell{{X: 180, Y: 160}, {X: 160, Y: 160}}; !equalCells(got, want) {
		t.Fatalf("body=%v want=%v", got, want)
	}
	if after.Score != 1 {
		t.Fatalf("score=%d want=1", after.Score)
	}
	if !after.HasFood {
		t.Fatalf("no food after eating")
	}
	if after.Snake.Occupies(after.Food) {
		t.Fatalf("new food %v placed on snake %v", after.Food, after.Snake.Body)
	}
}

func TestMove_LengthTracksScore(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	state := stateWith([]game.Cell{{X: 100, Y: 100}, {X: 80, Y: 100}, {X: 60, Y: 100}}, game.Right)
	game.PlaceFood(state, rng)

	turns := []game.Direction{game.Down, game.Right, game.Up, game.Right}
	for i := 0; i < 12; i++ {
		if i%3 == 0 {
			d := turns[(i/3)%len(turns)]
			if CanTurn(state.Direction, d) {
				state.Direction = d
			}
		}
		before := state.Snake.Len()
		ate := Move(state, rng)
		if CheckCollisions(state) {
			t.Fatalf("unexpected collision at step %d:\n%s", i, dumpState(state))
		}
		want := before
		if ate {
			want++
		}
		if state.Snake.Len() != want {
			t.Fatalf("step %d: len=%d want=%d (ate=%v)", i, state.Snake.Len(), want, ate)
		}
	}
}

func TestCheckCollisions_Walls(t *testing.T) {
	cases := []struct {
		name string
		head game.Cell
		want bool
	}{
		{"inside", game.Cell{X: 380, Y: 380}, false},
		{"origin", game.Cell{X: 0, Y: 0}, false},
		{"right wall", game.Cell{X: 400, Y: 160}, true},
		{"bottom wall", game.Cell{X: 160, Y: 400}, true},
		{"left wall", game.Cell{X: -20, Y: 160}, true},
		{"top wall", game.Cell{X: 160, Y: -20}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := stateWith([]game.Cell{tc.head}, game.Right)
			if got := CheckCollisions(state); got != tc.want {
				t.Fatalf("collision=%v want=%v", got, tc.want)
			}
			if state.GameOver != tc.want {
				t.Fatalf("gameOver=%v want=%v", state.GameOver, tc.want)
			}
		})
	}
}

func TestCheckCollisions_Self(t *testing.T) {
	// Turning up from (100,120) lands on (100,100), which is still body
	// because the tail has not reached it yet.
	state := stateWith([]game.Cell{
		{X: 100, Y: 120},
		{X: 120, Y: 120},
		{X: 120, Y: 100},
		{X: 100, Y: 100},
		{X: 80, Y: 100},
	}, game.Up)

	Move(state, rand.New(rand.NewSource(1)))
	t.Logf("after loop:\n%s", dumpState(state))

	if !CheckCollisions(state) {
		t.Fatalf("expected self collision")
	}
	if !state.GameOver {
		t.Fatalf("gameOver=false want=true")
	}
}

func TestCheckCollisions_OntoNeck(t *testing.T) {
	state := stateWith([]game.Cell{
		{X: 100, Y: 100},
		{X: 120, Y: 100},
		{X: 140, Y: 100},
		{X: 160, Y: 100},
	}, game.Right)

	Move(state, rand.New(rand.NewSource(1)))
	if !CheckCollisions(state) {
		t.Fatalf("expected collision with second segment:\n%s", dumpState(state))
	}
}

func TestCheckCollisions_TailChaseIsSafe(t *testing.T) {
	// A length-4 snake moving in a tight square follows its own tail, which
	// moves out of the way on the same tick.
	state := stateWith([]game.Cell{
		{X: 100, Y: 120},
		{X: 120, Y: 120},
		{X: 120, Y: 100},
		{X: 100, Y: 100},
	}, game.Up)

	Move(state, rand.New(rand.NewSource(1)))
	if CheckCollisions(state) {
		t.Fatalf("unexpected collision:\n%s", dumpState(state))
	}
}

func TestCanTurn(t *testing.T) {
	cases := []struct {
		current, requested game.Direction
		want               bool
	}{
		{game.Right, game.Left, false},
		{game.Right, game.Right, false},
		{game.Right, game.Up, true},
		{game.Right, game.Down, true},
		{game.Up, game.Down, false},
		{game.Up, game.Up, false},
		{game.Up, game.Left, true},
		{game.Down, game.Right, true},
		{game.Left, game.Direction{}, false},
	}

	for _, tc := range cases {
		if got := CanTurn(tc.current, tc.requested); got != tc.want {
			t.Errorf("CanTurn(%s,%s)=%v want=%v", tc.current, tc.requested, got, tc.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	cases := map[string]game.Direction{
		"up":         game.Up,
		"ArrowDown":  game.Down,
		" LEFT ":     game.Left,
		"arrowright": game.Right,
		"w":          game.Up,
	}
	for in, want := range cases {
		got, ok := ParseDirection(in)
		if !ok || got != want {
			t.Errorf("ParseDirection(%q)=%v,%v want=%v", in, got, ok, want)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Errorf("ParseDirection(sideways) accepted")
	}
}

func equalCells(a, b []game.Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
