// Package tui is the terminal front end: a Bubble Tea program that renders
// engine frames and turns key presses into loop input.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/snake/engine"
	"github.com/brensch/snake/game"
	"github.com/brensch/snake/rules"
)

// Controller is the part of engine.Loop the UI drives.
type Controller interface {
	SetDirection(game.Direction) bool
	TogglePause() bool
	ChangeColor() string
	Reset()
}

type frameMsg engine.Frame

type scoreMsg int

type gameOverMsg struct {
	score int
}

// Model is the Bubble Tea model for one game screen.
type Model struct {
	ctrl       Controller
	frame      engine.Frame
	score      int
	over       bool
	finalScore int
}

// NewModel starts from the given frame, usually Loop.Snapshot().
func NewModel(ctrl Controller, initial engine.Frame) Model {
	return Model{ctrl: ctrl, frame: initial, score: initial.Score}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case frameMsg:
		// Frames are delivered from separate goroutines and may arrive out
		// of order.
		if msg.Seq >= m.frame.Seq {
			m.frame = engine.Frame(msg)
			if m.frame.Phase != engine.PhaseGameOver {
				m.over = false
			}
		}
	case scoreMsg:
		m.score = int(msg)
	case gameOverMsg:
		m.over = true
		m.finalScore = msg.score
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "p", " ":
		m.ctrl.TogglePause()
		return m, nil
	case "c":
		m.ctrl.ChangeColor()
		return m, nil
	case "r", "enter":
		if m.over {
			m.ctrl.Reset()
		}
		return m, nil
	}

	if d, ok := rules.ParseDirection(key); ok {
		m.ctrl.SetDirection(d)
	}
	return m, nil
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3a3a3a"))
	foodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e00000"))
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#808080"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a0a0a0"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5050"))
)

// snakeColors maps palette names to terminal colors.
var snakeColors = map[string]lipgloss.Color{
	"green":  lipgloss.Color("#00c000"),
	"blue":   lipgloss.Color("#1e90ff"),
	"purple": lipgloss.Color("#9b30ff"),
	"orange": lipgloss.Color("#ff8c00"),
	"yellow": lipgloss.Color("#ffd700"),
	"pink":   lipgloss.Color("#ff69b4"),
	"red":    lipgloss.Color("#ff3030"),
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Score: %d", m.score)))
	b.WriteString("\n")
	b.WriteString(boardStyle.Render(m.board()))
	b.WriteString("\n")

	switch {
	case m.over:
		b.WriteString(alertStyle.Render(fmt.Sprintf("Game Over! Your score: %d", m.finalScore)))
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("r/enter: new game  q: quit"))
	case m.frame.Phase == engine.PhasePaused:
		b.WriteString(statusStyle.Render("Paused. p/space: resume  c: color  q: quit"))
	default:
		b.WriteString(statusStyle.Render("arrows/wasd: move  p/space: pause  c: color  q: quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) board() string {
	color, ok := snakeColors[m.frame.Color]
	if !ok {
		color = snakeColors[game.DefaultColor]
	}
	body := lipgloss.NewStyle().Foreground(color)
	head := body.Bold(true)

	cells := make(map[game.Cell]int, len(m.frame.Snake))
	for i := len(m.frame.Snake) - 1; i >= 0; i-- {
		cells[m.frame.Snake[i]] = i
	}

	var b strings.Builder
	for y := 0; y < game.Cells; y++ {
		for x := 0; x < game.Cells; x++ {
			c := game.Cell{X: x * game.GridSize, Y: y * game.GridSize}
			if idx, ok := cells[c]; ok {
				if idx == 0 {
					b.WriteString(head.Render("██"))
				} else {
					b.WriteString(body.Render("▓▓"))
				}
				continue
			}
			if m.frame.HasFood && c == m.frame.Food {
				b.WriteString(foodStyle.Render("██"))
				continue
			}
			b.WriteString(emptyStyle.Render("· "))
		}
		if y < game.Cells-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
