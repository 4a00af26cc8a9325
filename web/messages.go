package web

import (
	"github.com/brensch/snake/engine"
	"github.com/brensch/snake/game"
)

// Message types on the WebSocket.
const (
	TypeFrame     = "frame"
	TypeScore     = "score"
	TypeGameOver  = "game_over"
	TypeDirection = "direction"
	TypePause     = "pause"
	TypeColor     = "color"
	TypeReset     = "reset"
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FrameJSON is the wire form of engine.Frame.
type FrameJSON struct {
	Seq       uint64  `json:"seq"`
	Snake     []Point `json:"snake"`
	Food      *Point  `json:"food,omitempty"`
	Color     string  `json:"color"`
	Score     int     `json:"score"`
	Turn      int     `json:"turn"`
	Direction string  `json:"direction"`
	Phase     string  `json:"phase"`
	GridSize  int     `json:"grid_size"`
	BoardSize int     `json:"board_size"`
}

// ServerMessage is sent from the server to every client.
type ServerMessage struct {
	Type  string     `json:"type"`
	Frame *FrameJSON `json:"frame,omitempty"`
	Score int        `json:"score"`
}

// ClientMessage is input from a browser.
type ClientMessage struct {
	Type string `json:"type"`
	Dir  string `json:"dir,omitempty"`
}

func frameToJSON(f engine.Frame) *FrameJSON {
	out := &FrameJSON{
		Seq:       f.Seq,
		Snake:     make([]Point, len(f.Snake)),
		Color:     f.Color,
		Score:     f.Score,
		Turn:      f.Turn,
		Direction: f.Direction.String(),
		Phase:     f.Phase.String(),
		GridSize:  game.GridSize,
		BoardSize: game.BoardSize,
	}
	for i, c := range f.Snake {
		out.Snake[i] = Point{X: c.X, Y: c.Y}
	}
	if f.HasFood {
		out.Food = &Point{X: f.Food.X, Y: f.Food.Y}
	}
	return out
}
