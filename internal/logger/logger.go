// Package logger provides a configured zerolog instance.
package logger

import (
	"io"
	"os"

	"github.com/astexai/waitlist-backend/internal/config"
	"github.com/rs/zerolog"
)

// NewLogger creates a new configured instance of zerolog.Logger.
// It reads the level and output format from the config and adds the service name and caller.
func NewLogger(cfg *config.Config) (*zerolog.Logger, error) {
	return New(cfg.Logger, os.Stderr), nil
}

// New builds a logger writing to out.
func New(cfg config.LoggerConfig, out io.Writer) *zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	w := out
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: out}
	}

	logger := zerolog.New(w).With().
		Timestamp().
		Str("service", "waitlist").
		Caller().
		Logger().
		Level(level)

	return &logger
}

// Nop returns a logger that discards everything, for tests and CLI commands run quietly.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
