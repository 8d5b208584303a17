package document

import (
	"fmt"
	"sync"

	"github.com/corazon/textcore/internal/rope"
	"github.com/corazon/textcore/internal/selection"
	"github.com/corazon/textcore/internal/txn"
)

// Document owns rope-backed content plus the bookkeeping (version, undo
// backend, modified flag) that Commit updates atomically. It is the single
// mutation entry point described by the commit gate.
type Document struct {
	mu sync.Mutex

	id         Id
	content    rope.Rope
	path       *string
	lineEnding LineEnding
	modified   bool
	readOnly   bool

	version uint64

	languageID *string
	fileType   *string

	insertUndoActive bool
	undoBackend      UndoBackend
}

// New creates a Document over initial content. backend selects the undo
// storage strategy; a nil backend defaults to a SnapshotUndoBackend with
// unbounded depth.
func New(id Id, initial string, backend UndoBackend) *Document {
	if backend == nil {
		backend = NewSnapshotUndoBackend(0)
	}
	return &Document{
		id:          id,
		content:     rope.FromString(initial),
		lineEnding:  LineEndingLF,
		undoBackend: backend,
	}
}

func (d *Document) Id() Id { return d.id }

// Content returns the document's current rope. Ropes are immutable value
// types, so this is safe to call without holding any lock on the result.
func (d *Document) Content() rope.Rope {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content
}

func (d *Document) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

func (d *Document) Modified() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.modified
}

func (d *Document) ReadOnly() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readOnly
}

func (d *Document) SetReadOnly(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readOnly = v
}

func (d *Document) Path() *string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path
}

func (d *Document) SetPath(p *string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.path = p
}

func (d *Document) LineEnding() LineEnding {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lineEnding
}

func (d *Document) SetLineEnding(le LineEnding) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lineEnding = le
}

func (d *Document) LanguageID() *string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.languageID
}

func (d *Document) SetLanguageID(id *string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.languageID = id
}

func (d *Document) FileType() *string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fileType
}

func (d *Document) SetFileType(ft *string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fileType = ft
}

func (d *Document) InsertUndoActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.insertUndoActive
}

// Commit is the single mutation entry point, implementing the commit gate
// in the order: readonly check, undo-recording decision, pre-apply
// snapshot, apply, record, coalesce changed ranges, map syntax policy,
// and return a full CommitResult.
func (d *Document) Commit(c EditCommit) (CommitResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return CommitResult{}, ErrReadOnly
	}

	if err := c.Tx.Validate(int(d.content.LenChars())); err != nil {
		return CommitResult{}, fmt.Errorf("%w: %w", ErrTransactionMismatch, err)
	}

	shouldRecord := false
	switch c.Undo {
	case NoUndo:
		shouldRecord = false
	case Record, Boundary:
		shouldRecord = true
		d.insertUndoActive = false
	case MergeWithCurrentGroup:
		if !d.insertUndoActive {
			shouldRecord = true
			d.insertUndoActive = true
		}
	}

	pre := d.content
	versionBefore := d.version

	if shouldRecord {
		d.undoBackend.push(pre, c.Tx)
	}

	d.content = c.Tx.Apply(d.content)
	d.modified = true
	d.version++
	versionAfter := d.version

	changedRanges := txn.ChangedRanges(c.Tx)

	syntaxOutcome := SyntaxUnchanged
	if c.Syntax != SyntaxNone {
		syntaxOutcome = SyntaxMarkedDirty
	}

	log.Debug().
		Uint64("doc_id", uint64(d.id)).
		Uint64("version_before", versionBefore).
		Uint64("version_after", versionAfter).
		Bool("undo_recorded", shouldRecord).
		Str("origin", string(c.Origin)).
		Msg("document commit")

	return CommitResult{
		Applied:                true,
		VersionBefore:          versionBefore,
		VersionAfter:           versionAfter,
		SelectionAfter:         c.SelectionAfter,
		UndoRecorded:           shouldRecord,
		InsertGroupActiveAfter: d.insertUndoActive,
		ChangedRanges:          changedRanges,
		SyntaxOutcome:          syntaxOutcome,
	}, nil
}

// ResetContent wholesale-replaces content, clears undo history and the
// modified flag, and bumps version. Used for reloading a document from
// disk back to its saved state.
func (d *Document) ResetContent(content string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.content = rope.FromString(content)
	d.undoBackend.clear()
	d.insertUndoActive = false
	d.modified = false
	d.version++
}

// InstallSyncSnapshot wholesale-replaces content for a broker-driven
// resync: unlike ResetContent, it leaves modified set to true since the
// document now differs from what was last saved.
func (d *Document) InstallSyncSnapshot(content string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.content = rope.FromString(content)
	d.undoBackend.clear()
	d.insertUndoActive = false
	d.modified = true
	d.version++
}

// ClearModified marks the document as matching its last save.
func (d *Document) ClearModified() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.modified = false
}

// Undo restores content from the most recent recorded commit and bumps
// version forward; it never rewinds the version counter. View state is
// not touched here — that is the caller's (Editor Undo Manager's)
// responsibility.
func (d *Document) Undo() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.readOnly {
		return ErrReadOnly
	}
	restored, ok := d.undoBackend.undo(d.content)
	if !ok {
		return ErrNoUndo
	}
	d.content = restored
	d.version++
	d.insertUndoActive = false
	return nil
}

// Redo reapplies the most recently undone commit and bumps version
// forward.
func (d *Document) Redo() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.readOnly {
		return ErrReadOnly
	}
	restored, ok := d.undoBackend.redo(d.content)
	if !ok {
		return ErrNoRedo
	}
	d.content = restored
	d.version++
	d.insertUndoActive = false
	return nil
}

func (d *Document) HasUndo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.undoBackend.hasUndo()
}

func (d *Document) HasRedo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.undoBackend.hasRedo()
}

// ClampSelection clamps sel to the document's current scalar length.
// A convenience for view code; Document itself has no view state.
func (d *Document) ClampSelection(sel selection.Selection) selection.Selection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return sel.Clamp(d.content.LenChars())
}
