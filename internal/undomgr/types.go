package undomgr

import (
	"github.com/corazon/textcore/internal/document"
	"github.com/corazon/textcore/internal/view"
)

// Direction identifies which stack a PendingHistoryOp is moving a group
// toward.
type Direction uint8

const (
	DirectionUndo Direction = iota
	DirectionRedo
)

// EditorUndoGroup is one undoable unit: the set of documents a single
// user action touched, plus every referencing view's state at the moment
// the group was pushed.
type EditorUndoGroup struct {
	AffectedDocs  []document.Id
	ViewSnapshots map[view.Id]view.Snapshot
	Origin        document.EditOrigin
}

// PreparedEdit is returned by PrepareEdit and consumed by FinalizeEdit; it
// carries the pre-commit view snapshots a successful commit will need to
// build its undo group.
type PreparedEdit struct {
	DocId         document.Id
	ViewSnapshots map[view.Id]view.Snapshot
	StartNewGroup bool
	Origin        document.EditOrigin
}

// PendingHistoryOp tracks a remote (cross-process) undo or redo that has
// been popped speculatively and is waiting for every affected document's
// delta to be applied and acknowledged before the group is committed to
// the opposite stack.
type PendingHistoryOp struct {
	Direction        Direction
	Group            EditorUndoGroup
	CurrentSnapshots map[view.Id]view.Snapshot
	RemainingDocs    map[document.Id]struct{}
}

// Host is the set of capabilities the Editor Undo Manager needs from its
// embedding application: resolving views and documents by id, and
// notifying the user of undo/redo outcomes.
type Host interface {
	Document(id document.Id) (*document.Document, error)
	View(id view.Id) (*view.View, error)
	ViewsForDocument(docID document.Id) []view.Id
	Notify(message string)
}
