package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/snake/engine"
)

// Run shows the game until the user quits or ctx is done. The screen must be
// the one the loop publishes to.
func Run(ctx context.Context, loop *engine.Loop, screen *Screen, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(loop, loop.Snapshot()), opts...)
	screen.Attach(p)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
