package logger

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Output goes to w (stderr in the CLI, since
// stdout carries command output and the MCP stdio stream).
func New(level, format string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Nop is a logger that writes nothing; handy for tests and library defaults.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
