package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/snake/engine"
)

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(tea.Msg)
}

// Screen implements the engine collaborators on top of a Bubble Tea program.
// Program.Send blocks until the program reads the message, and the program
// may itself be inside Update calling into the loop, so every send runs on
// its own goroutine.
type Screen struct {
	mu     sync.RWMutex
	sender Sender
}

var (
	_ engine.Renderer     = (*Screen)(nil)
	_ engine.ScoreDisplay = (*Screen)(nil)
	_ engine.Notifier     = (*Screen)(nil)
)

func NewScreen() *Screen {
	return &Screen{}
}

// Attach sets the program messages go to. Until then output is dropped.
func (s *Screen) Attach(sender Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sender = sender
}

func (s *Screen) Render(f engine.Frame) {
	s.send(frameMsg(f))
}

func (s *Screen) ShowScore(score int) {
	s.send(scoreMsg(score))
}

func (s *Screen) GameOver(score int) {
	s.send(gameOverMsg{score: score})
}

func (s *Screen) send(msg tea.Msg) {
	s.mu.RLock()
	sender := s.sender
	s.mu.RUnlock()
	if sender == nil {
		return
	}
	go sender.Send(msg)
}
