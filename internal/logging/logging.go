package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a JSON logger tagged with the component name, writing to stdout.
func New(component string) zerolog.Logger {
	return NewWithWriter(os.Stdout, component, os.Getenv("LOG_LEVEL"))
}

// NewWithWriter is New with an explicit sink and level ("debug", "info", ...).
// Unknown or empty levels fall back to info.
func NewWithWriter(w io.Writer, component, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("component", component).Logger()
}

// Discard is a logger that drops everything; handy in tests.
func Discard() zerolog.Logger {
	return zerolog.Nop()
}
