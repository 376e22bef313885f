package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New constructs a zerolog logger from the configured level and format.
// Defaults to JSON on stdout at info level when fields are empty.
func New(level, format string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil && parsed != zerolog.NoLevel {
		lvl = parsed
	}

	out := zerolog.New(os.Stdout)
	if strings.ToLower(strings.TrimSpace(format)) == "console" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return out.Level(lvl).With().Timestamp().Str("app", "item-sharing-backend").Logger()
}
