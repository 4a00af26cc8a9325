package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/brensch/snake/game"
)

// DefaultPeriod is the time between ticks.
const DefaultPeriod = 100 * time.Millisecond

// ErrAlreadyRunning is returned by Run when another Run is active.
var ErrAlreadyRunning = errors.New("engine: loop already running")

// Renderer draws a frame. Implementations must not block on the Loop: they
// are called from tick and input paths and must not call back into the Loop
// synchronously.
type Renderer interface {
	Render(Frame)
}

// ScoreDisplay shows the current score after each tick.
type ScoreDisplay interface {
	ShowScore(score int)
}

// Notifier is told once when a game ends. It must not block; the loop stays
// parked until Reset is called.
type Notifier interface {
	GameOver(score int)
}

// Collaborators groups the loop outputs. Nil members are skipped.
type Collaborators struct {
	Renderer Renderer
	Score    ScoreDisplay
	Notifier Notifier
}

// Loop drives a Game at a fixed period.
//
// All mutation happens under mu, either in the tick handler or in one of the
// input methods. There is exactly one timer; armed tracks whether it is
// pending so resuming never starts a second chain.
type Loop struct {
	mu       sync.Mutex
	game     *Game
	period   time.Duration
	collab   Collaborators
	logger   *slog.Logger
	timer    *time.Timer
	armed    bool
	running  bool
	notified bool
	seq      uint64
	ticks    uint64
}

// NewLoop wraps g. A non-positive period falls back to DefaultPeriod.
func NewLoop(g *Game, period time.Duration, collab Collaborators, logger *slog.Logger) *Loop {
	if period <= 0 {
		period = DefaultPeriod
	}
	if logger == nil {
		logger = slog.Default()
	}
	t := time.NewTimer(period)
	t.Stop()
	return &Loop{
		game:   g,
		period: period,
		collab: collab,
		logger: logger,
		timer:  t,
	}
}

// Run ticks the game until ctx is done. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	l.running = true
	l.arm()
	f := l.frameLocked()
	l.mu.Unlock()

	l.logger.Info("loop started", "period", l.period)
	l.publish(f, true)

	for {
		select {
		case <-ctx.Done():
			l.mu.Lock()
			l.timer.Stop()
			l.armed = false
			l.running = false
			l.mu.Unlock()
			l.logger.Info("loop stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-l.timer.C:
			l.mu.Lock()
			l.armed = false
			l.mu.Unlock()
			l.Step()
		}
	}
}

// Step runs one tick synchronously and re-arms the timer when the game
// should continue.
func (l *Loop) Step() TickResult {
	l.mu.Lock()
	res := l.game.Tick()
	l.ticks++

	if res.Ended {
		first := !l.notified
		l.notified = true
		turn := l.game.state.Turn
		l.mu.Unlock()
		if first {
			l.logger.Info("game over", "score", res.Score, "turn", turn)
			if l.collab.Notifier != nil {
				l.collab.Notifier.GameOver(res.Score)
			}
		}
		return res
	}

	if !res.Moved {
		l.mu.Unlock()
		return res
	}

	l.arm()
	f := l.frameLocked()
	l.mu.Unlock()

	if res.Ate {
		l.logger.Debug("food eaten", "score", res.Score, "length", len(f.Snake))
	}
	l.publish(f, true)
	return res
}

// SetDirection forwards a turn request. It reports whether the turn was
// accepted.
func (l *Loop) SetDirection(d game.Direction) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.game.SetDirection(d)
}

// SetPaused pauses or resumes. Repeated calls with the same value are no-ops.
func (l *Loop) SetPaused(paused bool) {
	l.mu.Lock()
	f, changed := l.setPausedLocked(paused)
	l.mu.Unlock()

	if changed {
		l.logger.Info("pause changed", "paused", paused)
		l.publish(f, false)
	}
}

// TogglePause flips the pause state and returns the new value.
func (l *Loop) TogglePause() bool {
	l.mu.Lock()
	paused := !l.game.Paused()
	f, changed := l.setPausedLocked(paused)
	now := l.game.Paused()
	l.mu.Unlock()

	if changed {
		l.logger.Info("pause changed", "paused", now)
		l.publish(f, false)
	}
	return now
}

func (l *Loop) setPausedLocked(paused bool) (Frame, bool) {
	if l.game.Over() || l.game.Paused() == paused {
		return Frame{}, false
	}
	l.game.SetPaused(paused)
	if paused {
		l.disarm()
	} else {
		l.arm()
	}
	return l.frameLocked(), true
}

// ChangeColor picks a new snake color.
func (l *Loop) ChangeColor() string {
	l.mu.Lock()
	c := l.game.ChangeSnakeColor()
	f := l.frameLocked()
	l.mu.Unlock()

	l.publish(f, false)
	return c
}

// Reset starts a new game and resumes ticking.
func (l *Loop) Reset() {
	l.mu.Lock()
	prev := l.game.Score()
	l.game.Reset()
	l.notified = false
	l.disarm()
	l.arm()
	f := l.frameLocked()
	l.mu.Unlock()

	l.logger.Info("game reset", "previous_score", prev)
	l.publish(f, true)
}

// Snapshot returns the current frame without publishing it.
func (l *Loop) Snapshot() Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	f := l.game.Snapshot()
	f.Seq = l.seq
	return f
}

// Paused reports whether the game is paused.
func (l *Loop) Paused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.game.Paused()
}

// arm schedules the next tick unless one is pending, Run is not active, or
// the game is paused. A finished game still gets one more tick, which
// publishes the notification and parks the loop.
func (l *Loop) arm() {
	if l.armed || !l.running || l.game.Paused() {
		return
	}
	l.timer.Reset(l.period)
	l.armed = true
}

func (l *Loop) disarm() {
	if !l.armed {
		return
	}
	l.timer.Stop()
	l.armed = false
}

func (l *Loop) frameLocked() Frame {
	l.seq++
	f := l.game.Snapshot()
	f.Seq = l.seq
	return f
}

func (l *Loop) publish(f Frame, withScore bool) {
	if l.collab.Renderer != nil {
		l.collab.Renderer.Render(f)
	}
	if withScore && l.collab.Score != nil {
		l.collab.Score.ShowScore(f.Score)
	}
}
