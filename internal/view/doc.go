// Package view implements per-view state over a shared Document: cursor,
// ordered selection, viewport scroll anchor, and modal editing state. Many
// views may reference the same Document; content mutation always goes
// through the Document's commit gate, never through view state directly.
package view

import (
	"github.com/rs/zerolog"

	"github.com/corazon/textcore/internal/logging"
)

var log = logging.Logger.With().Str("component", "view").Logger()

// SetLogger overrides the package-level logger.
func SetLogger(l zerolog.Logger) {
	log = l.With().Str("component", "view").Logger()
}
