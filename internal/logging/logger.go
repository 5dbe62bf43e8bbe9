// Package logging builds the service's zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w. Format "console" renders human-readable
// lines, anything else renders JSON. Unknown levels fall back to info.
func New(w io.Writer, level, format, service string) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// FormatFor picks the output format: an explicit value wins, otherwise
// development gets console output and every other environment gets JSON.
func FormatFor(explicit, appEnv string) string {
	if explicit != "" {
		return explicit
	}
	if appEnv == "development" {
		return "console"
	}
	return "json"
}
