package document

import (
	"github.com/corazon/textcore/internal/selection"
	"github.com/corazon/textcore/internal/txn"
)

// Id is a monotonically assigned document identifier. 0 is reserved for
// an unsaved scratch document.
type Id uint64

// ScratchId is the reserved id for a document with no backing file.
const ScratchId Id = 0

// LineEnding records which line terminator a document was loaded with, so
// a save can round-trip it.
type LineEnding uint8

const (
	LineEndingLF LineEnding = iota
	LineEndingCRLF
	LineEndingCR
)

// UndoPolicy controls how Commit records a mutation for undo.
type UndoPolicy uint8

const (
	// NoUndo applies the transaction without any undo bookkeeping.
	NoUndo UndoPolicy = iota
	// Record always pushes a new undo entry and ends any in-progress
	// insert-mode grouping.
	Record
	// Boundary behaves like Record: it always starts a fresh entry.
	Boundary
	// MergeWithCurrentGroup joins the current insert-mode group if one is
	// already open, otherwise opens a new one.
	MergeWithCurrentGroup
)

// SyntaxPolicy controls what Commit reports to the syntax manager.
type SyntaxPolicy uint8

const (
	SyntaxNone SyntaxPolicy = iota
	SyntaxMarkDirty
	SyntaxIncrementalOrDirty
	SyntaxFullReparseNow
)

// SyntaxOutcome is the result of applying a SyntaxPolicy during Commit.
type SyntaxOutcome uint8

const (
	SyntaxUnchanged SyntaxOutcome = iota
	SyntaxMarkedDirty
)

// EditOrigin tags who initiated a commit, e.g. "user", "lsp", "shared",
// "undo". It is opaque to Document; callers define and interpret it.
type EditOrigin string

// EditCommit is the input to Document.Commit: the single mutation entry
// point for all content changes.
type EditCommit struct {
	Tx             txn.Transaction
	SelectionAfter selection.Selection
	Undo           UndoPolicy
	Syntax         SyntaxPolicy
	Origin         EditOrigin
}

// CommitResult reports what Commit actually did.
type CommitResult struct {
	Applied                bool
	VersionBefore          uint64
	VersionAfter           uint64
	SelectionAfter         selection.Selection
	UndoRecorded           bool
	InsertGroupActiveAfter bool
	ChangedRanges          []txn.Range
	SyntaxOutcome          SyntaxOutcome
}
