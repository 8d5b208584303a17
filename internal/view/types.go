package view

import (
	"github.com/corazon/textcore/internal/selection"
)

// Id identifies a View within a host application. Views are created and
// destroyed by the host; this package only tracks their state.
type Id uint64

// ModeKind is the coarse editing mode a View is in.
type ModeKind uint8

const (
	ModeNormal ModeKind = iota
	ModeInsert
	ModePendingAction
)

// Mode is the View's current modal state. Tag carries the pending action's
// identity (e.g. "find-char", "replace-char") when Kind is
// ModePendingAction; it is empty otherwise.
type Mode struct {
	Kind ModeKind
	Tag  string
}

// InputState is local modal input state that outlives a single keystroke
// but is not part of undo history: the last search term, a pending repeat
// count, and similar scratch state belonging to a particular view.
type InputState struct {
	LastSearch   string
	PendingCount int
}

// Snapshot is the restorable portion of a View's state: cursor/selection
// plus viewport position. The Editor Undo Manager captures one of these
// per affected view at commit time and restores it on undo/redo.
type Snapshot struct {
	Selections    *selection.Set
	ScrollLine    uint32
	ScrollSegment uint32
}
