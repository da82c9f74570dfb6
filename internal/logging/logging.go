// Package logging builds the zerolog logger shared by pm commands.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	Level zerolog.Level
	// NoColor disables ANSI colors, e.g. when w is not a terminal.
	NoColor bool
	// NoTimestamp drops the time field, which keeps test output stable.
	NoTimestamp bool
}

// New returns a human readable logger writing to w.
func New(w io.Writer, opts Options) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: opts.NoColor, TimeFormat: time.TimeOnly}

	if opts.NoTimestamp {
		out.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	ctx := zerolog.New(out).Level(opts.Level).With()
	if !opts.NoTimestamp {
		ctx = ctx.Timestamp()
	}

	return ctx.Logger()
}
