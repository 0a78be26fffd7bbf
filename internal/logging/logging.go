// Package logging builds the zerolog logger shared by the CLI, the tracker
// and the store.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the logger's output format and level.
type Options struct {
	Level   string // zerolog level name; empty means warn
	Format  string // "json" or "console"
	NoColor bool
}

// New returns a logger writing to w. Unknown level names fall back to warn.
func New(w io.Writer, opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || opts.Level == "" {
		level = zerolog.WarnLevel
	}

	output := w
	if opts.Format != "json" {
		output = zerolog.ConsoleWriter{Out: w, NoColor: opts.NoColor, TimeFormat: time.Kitchen}
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
