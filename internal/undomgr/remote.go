package undomgr

import "github.com/corazon/textcore/internal/document"

// StartRemoteUndo pops the top undo group speculatively: it does not
// touch any Document content (that arrives later as remote deltas), but
// does capture current view state so it can be restored once every
// affected document confirms the delta landed.
func (m *Manager) StartRemoteUndo(host Host) error {
	return m.startRemote(host, DirectionUndo)
}

// StartRemoteRedo is the mirror image of StartRemoteUndo, popping from the
// redo stack instead.
func (m *Manager) StartRemoteRedo(host Host) error {
	return m.startRemote(host, DirectionRedo)
}

func (m *Manager) startRemote(host Host, dir Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending != nil {
		return ErrPendingRemoteOp
	}

	stack := &m.undoStack
	notFoundErr := ErrNothingToUndo
	if dir == DirectionRedo {
		stack = &m.redoStack
		notFoundErr = ErrNothingToRedo
	}
	if len(*stack) == 0 {
		return notFoundErr
	}

	n := len(*stack) - 1
	group := (*stack)[n]
	*stack = (*stack)[:n]

	remaining := make(map[document.Id]struct{}, len(group.AffectedDocs))
	for _, id := range group.AffectedDocs {
		remaining[id] = struct{}{}
	}

	m.pending = &PendingHistoryOp{
		Direction:        dir,
		Group:            group,
		CurrentSnapshots: snapshotViewsForGroup(host, group),
		RemainingDocs:    remaining,
	}
	return nil
}

// NoteRemoteHistoryDelta records that docID's remote delta for the
// pending operation has landed. Once every affected document has been
// accounted for, the group is committed: its captured view snapshots are
// restored and a mirrored group is pushed onto the opposite stack.
func (m *Manager) NoteRemoteHistoryDelta(host Host, docID document.Id) error {
	m.mu.Lock()
	if m.pending == nil {
		m.mu.Unlock()
		return ErrNoPendingRemoteOp
	}
	delete(m.pending.RemainingDocs, docID)
	done := len(m.pending.RemainingDocs) == 0
	pending := m.pending
	if done {
		m.pending = nil
	}
	m.mu.Unlock()

	if !done {
		return nil
	}

	for viewID, snap := range pending.Group.ViewSnapshots {
		v, err := host.View(viewID)
		if err != nil {
			continue
		}
		v.Restore(snap)
	}

	m.mu.Lock()
	opposite := &m.redoStack
	if pending.Direction == DirectionRedo {
		opposite = &m.undoStack
	}
	*opposite = append(*opposite, EditorUndoGroup{
		AffectedDocs:  pending.Group.AffectedDocs,
		ViewSnapshots: pending.CurrentSnapshots,
		Origin:        pending.Group.Origin,
	})
	m.mu.Unlock()

	if pending.Direction == DirectionUndo {
		host.Notify("undo")
	} else {
		host.Notify("redo")
	}
	return nil
}

// CancelPendingHistory restores the speculatively popped group to its
// original stack and notifies the user the operation did not complete.
func (m *Manager) CancelPendingHistory(host Host) error {
	return m.cancelPendingHistory(host, true)
}

// CancelPendingHistorySilent is identical to CancelPendingHistory but does
// not notify the user, for cancellation paths the user did not initiate
// (e.g. the session disconnected).
func (m *Manager) CancelPendingHistorySilent(host Host) error {
	return m.cancelPendingHistory(host, false)
}

func (m *Manager) cancelPendingHistory(host Host, notify bool) error {
	m.mu.Lock()
	if m.pending == nil {
		m.mu.Unlock()
		return ErrNoPendingRemoteOp
	}
	pending := m.pending
	m.pending = nil

	stack := &m.undoStack
	if pending.Direction == DirectionRedo {
		stack = &m.redoStack
	}
	*stack = append(*stack, pending.Group)
	m.mu.Unlock()

	if notify {
		host.Notify("undo canceled")
	}
	return nil
}

// PendingHistory returns the in-flight deferred remote operation, or nil
// if none is pending.
func (m *Manager) PendingHistory() *PendingHistoryOp {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}
