package lspsync

import (
	"time"

	"github.com/corazon/textcore/internal/document"
)

// Phase is a DocSyncState's position in the debounce/dispatch pipeline.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseInFlight
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDebouncing:
		return "debouncing"
	case PhaseInFlight:
		return "inflight"
	default:
		return "unknown"
	}
}

// Position is a zero-based {line, char} location, matching the LSP wire
// protocol's UTF-16-agnostic surface (this module treats char as a
// Unicode scalar index; a concrete client's transport is responsible for
// any UTF-16 re-encoding LSP itself requires).
type Position struct {
	Line uint32
	Char uint32
}

// Span is a half-open [Start, End) range over Positions.
type Span struct {
	Start Position
	End   Position
}

// LspDocumentChange is one incremental change element sent to the
// language server.
type LspDocumentChange struct {
	Range   Span
	NewText string
}

// Config is the fixed-at-open configuration for one document's sync
// state.
type Config struct {
	Path                 string
	Language             string
	SupportsIncremental  bool
}

// InflightInfo describes the send currently awaiting completion.
type InflightInfo struct {
	IsFull    bool
	Version   uint64
	StartedAt time.Time
}

// DocSyncState is one document's sync scheduling state.
type DocSyncState struct {
	DocID  document.Id
	Config Config

	OpenSent bool
	NeedsFull bool

	PendingChanges []LspDocumentChange
	PendingBytes   int

	Phase Phase

	LastEditAt time.Time
	RetryAfter time.Time

	EditorVersion uint64
	ExpectedPrev  uint64
	expectedPrevSet bool

	Inflight *InflightInfo
}
