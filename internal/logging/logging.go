// Package logging configures the zerolog logger shared by every subsystem
// of the core editing engine. Subsystems accept a zerolog.Logger in their
// constructors (defaulting to this package's Logger) and log structured
// fields rather than formatted strings.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the package-default logger. Call Configure to replace it, e.g.
// from a host application's composition root.
var Logger = New(os.Stderr, false)

// New builds a zerolog.Logger writing to w. When pretty is true, output is
// rendered through zerolog.ConsoleWriter (for interactive terminal use);
// otherwise it emits newline-delimited JSON, suited to log aggregation.
func New(w io.Writer, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Configure replaces the package-default Logger. Constructors that are
// given a zero zerolog.Logger pick up the new value; zerolog's own global
// logger (zerolog/log) is left unchanged.
func Configure(l zerolog.Logger) {
	Logger = l
}

// Discard returns a logger that drops all output, useful in tests that
// want to exercise logging call sites without producing noise.
func Discard() zerolog.Logger {
	return zerolog.New(io.Discard)
}
