package undomgr

import (
	"sync"

	"github.com/corazon/textcore/internal/document"
	"github.com/corazon/textcore/internal/view"
)

// Manager is the Editor Undo Manager: two LIFO group stacks plus at most
// one in-flight deferred remote history operation.
type Manager struct {
	mu sync.Mutex

	undoStack []EditorUndoGroup
	redoStack []EditorUndoGroup

	pending *PendingHistoryOp
}

// New creates an empty Editor Undo Manager.
func New() *Manager {
	return &Manager{}
}

// PrepareEdit resolves the document behind viewID, snapshots every view
// referencing that document, and decides whether this edit should start a
// new undo group.
func (m *Manager) PrepareEdit(host Host, viewID view.Id, policy document.UndoPolicy, origin document.EditOrigin) (PreparedEdit, error) {
	v, err := host.View(viewID)
	if err != nil {
		return PreparedEdit{}, err
	}
	docID := v.DocumentId()

	snapshots := snapshotViews(host, docID)

	return PreparedEdit{
		DocId:         docID,
		ViewSnapshots: snapshots,
		StartNewGroup: policy != document.NoUndo,
		Origin:        origin,
	}, nil
}

// FinalizeEdit pushes a new undo group and clears the redo stack, if the
// commit actually applied, the caller asked for a new group, and the
// document's own undo backend recorded the commit.
func (m *Manager) FinalizeEdit(result document.CommitResult, prepared PreparedEdit) {
	if !result.Applied || !prepared.StartNewGroup || !result.UndoRecorded {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undoStack = append(m.undoStack, EditorUndoGroup{
		AffectedDocs:  []document.Id{prepared.DocId},
		ViewSnapshots: prepared.ViewSnapshots,
		Origin:        prepared.Origin,
	})
	m.redoStack = nil
}

// Undo pops the most recent group, restores its documents' content via
// the host, restores every captured view snapshot, and pushes a mirrored
// group onto the redo stack.
func (m *Manager) Undo(host Host) error {
	return m.move(host, true)
}

// Redo is the mirror image of Undo.
func (m *Manager) Redo(host Host) error {
	return m.move(host, false)
}

func (m *Manager) move(host Host, undo bool) error {
	m.mu.Lock()
	if m.pending != nil {
		m.mu.Unlock()
		return ErrPendingRemoteOp
	}
	stack, opposite := &m.undoStack, &m.redoStack
	notFoundErr := ErrNothingToUndo
	if !undo {
		stack, opposite = &m.redoStack, &m.undoStack
		notFoundErr = ErrNothingToRedo
	}
	if len(*stack) == 0 {
		m.mu.Unlock()
		return notFoundErr
	}
	n := len(*stack) - 1
	group := (*stack)[n]
	m.mu.Unlock()

	if err := guardReadOnly(host, group.AffectedDocs); err != nil {
		return err
	}

	current := snapshotViewsForGroup(host, group)

	for _, docID := range group.AffectedDocs {
		doc, err := host.Document(docID)
		if err != nil {
			return err
		}
		if undo {
			err = doc.Undo()
		} else {
			err = doc.Redo()
		}
		if err != nil {
			return err
		}
	}

	for viewID, snap := range group.ViewSnapshots {
		v, err := host.View(viewID)
		if err != nil {
			continue
		}
		v.Restore(snap)
	}

	m.mu.Lock()
	*stack = (*stack)[:n]
	*opposite = append(*opposite, EditorUndoGroup{
		AffectedDocs:  group.AffectedDocs,
		ViewSnapshots: current,
		Origin:        group.Origin,
	})
	m.mu.Unlock()

	if undo {
		host.Notify("undo")
	} else {
		host.Notify("redo")
	}
	return nil
}

func guardReadOnly(host Host, docIDs []document.Id) error {
	for _, id := range docIDs {
		doc, err := host.Document(id)
		if err != nil {
			return err
		}
		if doc.ReadOnly() {
			return ErrReadOnly
		}
	}
	return nil
}

func snapshotViews(host Host, docID document.Id) map[view.Id]view.Snapshot {
	out := make(map[view.Id]view.Snapshot)
	for _, viewID := range host.ViewsForDocument(docID) {
		v, err := host.View(viewID)
		if err != nil {
			continue
		}
		out[viewID] = v.Snapshot()
	}
	return out
}

func snapshotViewsForGroup(host Host, group EditorUndoGroup) map[view.Id]view.Snapshot {
	out := make(map[view.Id]view.Snapshot)
	for _, docID := range group.AffectedDocs {
		for viewID, snap := range snapshotViews(host, docID) {
			out[viewID] = snap
		}
	}
	return out
}
