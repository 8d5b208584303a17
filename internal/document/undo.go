package document

import (
	"github.com/corazon/textcore/internal/rope"
	"github.com/corazon/textcore/internal/txn"
)

// UndoBackend records enough per-commit state to undo and redo content
// mutations. Document holds exactly one; which implementation a document
// uses only affects memory/CPU tradeoffs, not Commit's observable
// behavior.
type UndoBackend interface {
	// push records a commit, given the content just before the
	// transaction was applied and the transaction itself; no version is
	// recorded, since undo and redo bump the version forward. It clears any existing redo stack, as
	// every newly recorded commit invalidates prior redo history.
	push(pre rope.Rope, tx txn.Transaction)
	// undo pops the most recent recorded commit and returns the content
	// to restore to. ok is false if nothing is recorded.
	undo(cur rope.Rope) (restored rope.Rope, ok bool)
	// redo pops the most recently undone commit and returns the content
	// to restore to. ok is false if nothing is recorded.
	redo(cur rope.Rope) (restored rope.Rope, ok bool)
	// clear discards all recorded undo and redo state.
	clear()
	hasUndo() bool
	hasRedo() bool
}

// SnapshotUndoBackend stores full rope snapshots per commit. Simple and
// robust; costs memory proportional to document size times history depth.
type SnapshotUndoBackend struct {
	undoStack []rope.Rope
	redoStack []rope.Rope
	maxDepth  int // 0 means unbounded
}

// NewSnapshotUndoBackend creates a snapshot backend. maxDepth bounds the
// number of retained undo entries; 0 means unbounded.
func NewSnapshotUndoBackend(maxDepth int) *SnapshotUndoBackend {
	return &SnapshotUndoBackend{maxDepth: maxDepth}
}

func (b *SnapshotUndoBackend) push(pre rope.Rope, _ txn.Transaction) {
	b.undoStack = append(b.undoStack, pre)
	if b.maxDepth > 0 && len(b.undoStack) > b.maxDepth {
		b.undoStack = b.undoStack[len(b.undoStack)-b.maxDepth:]
	}
	b.redoStack = nil
}

func (b *SnapshotUndoBackend) undo(cur rope.Rope) (rope.Rope, bool) {
	if len(b.undoStack) == 0 {
		return rope.Rope{}, false
	}
	n := len(b.undoStack) - 1
	restored := b.undoStack[n]
	b.undoStack = b.undoStack[:n]
	b.redoStack = append(b.redoStack, cur)
	return restored, true
}

func (b *SnapshotUndoBackend) redo(cur rope.Rope) (rope.Rope, bool) {
	if len(b.redoStack) == 0 {
		return rope.Rope{}, false
	}
	n := len(b.redoStack) - 1
	restored := b.redoStack[n]
	b.redoStack = b.redoStack[:n]
	b.undoStack = append(b.undoStack, cur)
	return restored, true
}

func (b *SnapshotUndoBackend) clear() {
	b.undoStack = nil
	b.redoStack = nil
}

func (b *SnapshotUndoBackend) hasUndo() bool { return len(b.undoStack) > 0 }
func (b *SnapshotUndoBackend) hasRedo() bool { return len(b.redoStack) > 0 }

// txEntry pairs a committed transaction with its precomputed inverse, so
// undo and redo both run a single Transaction.Apply with no further rope
// diffing.
type txEntry struct {
	forward txn.Transaction
	inverse txn.Transaction
}

// TransactionUndoBackend stores only the inverse (and forward) Transaction
// per commit rather than full content snapshots, trading replay cost for
// much smaller history footprint on large documents.
type TransactionUndoBackend struct {
	undoStack []txEntry
	redoStack []txEntry
	maxDepth  int
}

// NewTransactionUndoBackend creates a transaction-based backend. maxDepth
// bounds retained entries; 0 means unbounded.
func NewTransactionUndoBackend(maxDepth int) *TransactionUndoBackend {
	return &TransactionUndoBackend{maxDepth: maxDepth}
}

func (b *TransactionUndoBackend) push(pre rope.Rope, tx txn.Transaction) {
	e := txEntry{forward: tx, inverse: tx.Invert(pre)}
	b.undoStack = append(b.undoStack, e)
	if b.maxDepth > 0 && len(b.undoStack) > b.maxDepth {
		b.undoStack = b.undoStack[len(b.undoStack)-b.maxDepth:]
	}
	b.redoStack = nil
}

func (b *TransactionUndoBackend) undo(cur rope.Rope) (rope.Rope, bool) {
	if len(b.undoStack) == 0 {
		return rope.Rope{}, false
	}
	n := len(b.undoStack) - 1
	e := b.undoStack[n]
	b.undoStack = b.undoStack[:n]
	b.redoStack = append(b.redoStack, e)
	return e.inverse.Apply(cur), true
}

func (b *TransactionUndoBackend) redo(cur rope.Rope) (rope.Rope, bool) {
	if len(b.redoStack) == 0 {
		return rope.Rope{}, false
	}
	n := len(b.redoStack) - 1
	e := b.redoStack[n]
	b.redoStack = b.redoStack[:n]
	b.undoStack = append(b.undoStack, e)
	return e.forward.Apply(cur), true
}

func (b *TransactionUndoBackend) clear() {
	b.undoStack = nil
	b.redoStack = nil
}

func (b *TransactionUndoBackend) hasUndo() bool { return len(b.undoStack) > 0 }
func (b *TransactionUndoBackend) hasRedo() bool { return len(b.redoStack) > 0 }
