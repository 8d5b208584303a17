package undomgr

import "errors"

var (
	// ErrNothingToUndo/Redo are returned when the respective stack is empty.
	ErrNothingToUndo = errors.New("undomgr: nothing to undo")
	ErrNothingToRedo = errors.New("undomgr: nothing to redo")

	// ErrReadOnly is returned when any document affected by the
	// candidate group is readonly.
	ErrReadOnly = errors.New("undomgr: group touches a readonly document")

	// ErrPendingRemoteOp is returned by undo/redo and start_remote_* when
	// a deferred remote history operation is already in flight.
	ErrPendingRemoteOp = errors.New("undomgr: a remote history operation is already pending")

	// ErrNoPendingRemoteOp is returned by note/cancel calls when there is
	// no PendingHistoryOp to act on.
	ErrNoPendingRemoteOp = errors.New("undomgr: no pending remote history operation")
)
