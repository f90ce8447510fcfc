// Package logctx centralizes zerolog setup: New returns a timestamped
// logger tagged with a component field, and Nop one that discards
// everything. No other fields are added here.
// There is no package-level logger: New always returns a fresh, explicitly
// passed value, keeping ambient global state out of the module.
package logctx

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// New returns a logger tagged with component, writing to w (os.Stderr if
// w is nil).
func New(component string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger()
}

// Nop returns a logger that discards everything, for tests and for
// callers that did not configure logging explicitly.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
