package syntax

import "time"

// Slot is a document's currently-installed parse state.
type Slot struct {
	Tree           Tree
	TreeDocVersion uint64
	LanguageID     string
	OptionsKey     string
	Dirty          bool
	// Coverage is non-nil when Tree only covers part of the document (a
	// viewport parse); nil means Tree covers the whole document.
	Coverage *ByteRange
	// PendingIncremental, when set, describes the single edit a queued
	// incremental parse should apply against Tree.
	PendingIncremental *IncrementalEdit
}

// Sched is a document's scheduler bookkeeping: what task (if any) is
// active, cooldown state, and the stage-B-attempted set keyed by
// viewport window so moving to a new viewport re-enables Stage B.
type Sched struct {
	Epoch              uint64
	ActiveTask         bool
	ActiveTaskClass    TaskClass
	ActiveTaskDetached bool

	CooldownUntil time.Time

	LastEditAt    time.Time
	LastVisibleAt time.Time

	RequestedDocVersion uint64
	ForceNoDebounce     bool

	Completed *CompletedSyntaxTask

	stageBAttempted map[ByteRange]bool
	bootstrapped    bool
}

// Entry is one document's complete syntax-manager state.
type Entry struct {
	Slot  Slot
	Sched Sched
}

func newEntry() *Entry {
	return &Entry{Sched: Sched{stageBAttempted: make(map[ByteRange]bool)}}
}
