// Package document implements the core editing engine's single mutation
// entry point: Document and its commit gate. A Document owns a rope-backed
// content value, a monotonic version counter, and an undo backend; every
// change to its content passes through Commit, which is the only place
// version, modified, and undo bookkeeping are updated together.
package document

import (
	"github.com/rs/zerolog"

	"github.com/corazon/textcore/internal/logging"
)

var log = logging.Logger.With().Str("component", "document").Logger()

// SetLogger overrides the package-level logger, e.g. from a host
// application's composition root.
func SetLogger(l zerolog.Logger) {
	log = l.With().Str("component", "document").Logger()
}
