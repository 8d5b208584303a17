// Package undomgr implements the Editor Undo Manager: multi-document undo
// groups built from per-commit Document/View state, plus deferred remote
// history for documents owned by another process (see Host and
// PendingHistoryOp).
//
// Content restoration always happens through a Document's own undo
// backend (internal/document); this package only decides which groups of
// documents and views move together and captures/restores view state.
package undomgr

import (
	"github.com/rs/zerolog"

	"github.com/corazon/textcore/internal/logging"
)

var log = logging.Logger.With().Str("component", "undomgr").Logger()

// SetLogger overrides the package-level logger.
func SetLogger(l zerolog.Logger) {
	log = l.With().Str("component", "undomgr").Logger()
}
