// Command snake plays Snake in the terminal or, with -mode web, in a browser.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brensch/snake/config"
	"github.com/brensch/snake/engine"
	"github.com/brensch/snake/logging"
	"github.com/brensch/snake/tui"
	"github.com/brensch/snake/web"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("snake exited", "err", err)
		closeLog()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("starting snake", "mode", cfg.Mode, "tick", cfg.Tick, "seed", seed)

	g := engine.NewGame(rand.New(rand.NewSource(seed)))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)

	switch cfg.Mode {
	case config.ModeTUI:
		screen := tui.NewScreen()
		loop := engine.NewLoop(g, cfg.Tick, engine.Collaborators{Renderer: screen, Score: screen, Notifier: screen}, logger.With("component", "loop"))
		eg.Go(func() error { return ignoreCanceled(loop.Run(ctx)) })
		eg.Go(func() error {
			// Quitting the UI ends the whole program.
			defer cancel()
			return tui.Run(ctx, loop, screen)
		})
	case config.ModeWeb:
		hub := web.NewHub(logger.With("component", "hub"))
		loop := engine.NewLoop(g, cfg.Tick, engine.Collaborators{Renderer: hub, Score: hub, Notifier: hub}, logger.With("component", "loop"))
		srv := web.NewServer(loop, hub, logger.With("component", "http"))
		eg.Go(func() error { return ignoreCanceled(loop.Run(ctx)) })
		eg.Go(func() error { return srv.ListenAndServe(ctx, cfg.Listen) })
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownMode, cfg.Mode)
	}

	return eg.Wait()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger, err := logging.New(w, cfg.LogFormat, level)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, closeFn, nil
}
