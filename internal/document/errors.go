package document

import "errors"

// ErrReadOnly is returned by Commit when the document rejects mutation.
var ErrReadOnly = errors.New("document: readonly")

// ErrTransactionMismatch is returned when a commit's transaction does not
// consume exactly the document's current content length.
var ErrTransactionMismatch = errors.New("document: transaction does not match content length")

// ErrNoUndo is returned by Undo when the undo stack is empty, and ErrNoRedo
// by Redo when the redo stack is empty.
var ErrNoUndo = errors.New("document: nothing to undo")
var ErrNoRedo = errors.New("document: nothing to redo")

// ErrUnknownDocument is returned by a Registry when asked to operate on an
// id it does not hold.
var ErrUnknownDocument = errors.New("document: unknown document id")
