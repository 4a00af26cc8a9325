// Package config reads the snake binary configuration from flags, with
// environment variables supplying the defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/brensch/snake/engine"
	"github.com/brensch/snake/logging"
)

const (
	ModeTUI = "tui"
	ModeWeb = "web"
)

var (
	ErrUnknownMode = errors.New("config: unknown mode")
	ErrBadTick     = errors.New("config: tick must be positive")
)

// Config holds everything cmd/snake needs to start a game.
type Config struct {
	Mode      string
	Listen    string
	Tick      time.Duration
	Seed      int64
	LogLevel  string
	LogFormat string
	LogFile   string
}

// Getenv matches os.Getenv so tests can supply a fake environment.
type Getenv func(string) string

// Load parses args (without the program name). Flags override environment
// values, which override built-in defaults.
func Load(args []string, getenv Getenv, output io.Writer) (Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	fs := flag.NewFlagSet("snake", flag.ContinueOnError)
	fs.SetOutput(output)

	var cfg Config
	fs.StringVar(&cfg.Mode, "mode", envOrDefault(getenv, "SNAKE_MODE", ModeTUI), "Front end: tui or web")
	fs.StringVar(&cfg.Listen, "listen", envOrDefault(getenv, "SNAKE_LISTEN", "127.0.0.1:8080"), "HTTP listen address (web mode)")
	fs.DurationVar(&cfg.Tick, "tick", envDurationOrDefault(getenv, "SNAKE_TICK", engine.DefaultPeriod), "Time between simulation ticks")
	fs.Int64Var(&cfg.Seed, "seed", envInt64OrDefault(getenv, "SNAKE_SEED", 0), "Random seed (0 = time based)")
	fs.StringVar(&cfg.LogLevel, "log-level", envOrDefault(getenv, "SNAKE_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", envOrDefault(getenv, "SNAKE_LOG_FORMAT", logging.FormatText), "Log format: text, json, pretty")
	fs.StringVar(&cfg.LogFile, "log-file", getenv("SNAKE_LOG_FILE"), "Log file (default stderr; snake.log in tui mode)")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	if cfg.LogFile == "" && cfg.Mode == ModeTUI {
		// The terminal is owned by the game screen.
		cfg.LogFile = "snake.log"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that flag parsing cannot.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeTUI, ModeWeb:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("%w: %s", ErrBadTick, c.Tick)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON, logging.FormatPretty:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.Mode == ModeWeb && strings.TrimSpace(c.Listen) == "" {
		return errors.New("config: listen address required in web mode")
	}
	return nil
}

func envOrDefault(getenv Getenv, key, defaultVal string) string {
	if val := getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func envInt64OrDefault(getenv Getenv, key string, defaultVal int64) int64 {
	if val := getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func envDurationOrDefault(getenv Getenv, key string, defaultVal time.Duration) time.Duration {
	if val := getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
