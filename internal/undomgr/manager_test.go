package undomgr

import (
	"errors"
	"testing"

	"github.com/corazon/textcore/internal/document"
	"github.com/corazon/textcore/internal/rope"
	"github.com/corazon/textcore/internal/txn"
	"github.com/corazon/textcore/internal/view"
)

var errNoSuchView = errors.New("fakeHost: no such view")

// fakeHost is a minimal in-memory Host for exercising the undo manager
// without a full application wired up.
type fakeHost struct {
	docs  map[document.Id]*document.Document
	views map[view.Id]*view.View
	byDoc map[document.Id][]view.Id

	notifications []string
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		docs:  make(map[document.Id]*document.Document),
		views: make(map[view.Id]*view.View),
		byDoc: make(map[document.Id][]view.Id),
	}
}

func (h *fakeHost) addDoc(id document.Id, content string) *document.Document {
	d := document.New(id, content, nil)
	h.docs[id] = d
	return d
}

func (h *fakeHost) addView(id view.Id, docID document.Id) *view.View {
	v := view.New(id, docID)
	h.views[id] = v
	h.byDoc[docID] = append(h.byDoc[docID], id)
	return v
}

func (h *fakeHost) Document(id document.Id) (*document.Document, error) {
	d, ok := h.docs[id]
	if !ok {
		return nil, document.ErrUnknownDocument
	}
	return d, nil
}

func (h *fakeHost) View(id view.Id) (*view.View, error) {
	v, ok := h.views[id]
	if !ok {
		return nil, errNoSuchView
	}
	return v, nil
}

func (h *fakeHost) ViewsForDocument(docID document.Id) []view.Id {
	return h.byDoc[docID]
}

func (h *fakeHost) Notify(msg string) {
	h.notifications = append(h.notifications, msg)
}

func commitInsert(t *testing.T, doc *document.Document, at int, s string, policy document.UndoPolicy) document.CommitResult {
	t.Helper()
	idx := rope.CharIdx(at)
	res, err := doc.Commit(document.EditCommit{
		Tx:   txn.FromChanges(doc.Content().LenChars(), []txn.Change{{Start: idx, End: idx, Replacement: &s}}),
		Undo: policy,
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	return res
}

func TestPrepareFinalizeUndoRedo(t *testing.T) {
	host := newFakeHost()
	doc := host.addDoc(1, "hello")
	v := host.addView(10, 1)
	v.SetCursor(5)

	mgr := New()

	prepared, err := mgr.PrepareEdit(host, 10, document.Record, "user")
	if err != nil {
		t.Fatal(err)
	}
	res := commitInsert(t, doc, 5, " world", document.Record)
	v.SetCursor(11)
	mgr.FinalizeEdit(res, prepared)

	if doc.Content().String() != "hello world" {
		t.Fatalf("got %q", doc.Content().String())
	}

	if err := mgr.Undo(host); err != nil {
		t.Fatal(err)
	}
	if doc.Content().String() != "hello" {
		t.Fatalf("got %q after undo", doc.Content().String())
	}
	if v.Cursor() != 5 {
		t.Fatalf("expected cursor restored to 5, got %d", v.Cursor())
	}

	if err := mgr.Redo(host); err != nil {
		t.Fatal(err)
	}
	if doc.Content().String() != "hello world" {
		t.Fatalf("got %q after redo", doc.Content().String())
	}
	if v.Cursor() != 11 {
		t.Fatalf("expected cursor restored to 11, got %d", v.Cursor())
	}

	if len(host.notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %v", host.notifications)
	}
}

func TestFinalizeEditSkipsWhenNotRecorded(t *testing.T) {
	host := newFakeHost()
	doc := host.addDoc(1, "x")
	host.addView(10, 1)
	mgr := New()

	prepared, _ := mgr.PrepareEdit(host, 10, document.NoUndo, "user")
	res := commitInsert(t, doc, 1, "y", document.NoUndo)
	mgr.FinalizeEdit(res, prepared)

	if err := mgr.Undo(host); err != ErrNothingToUndo {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestUndoRejectsReadOnlyDocument(t *testing.T) {
	host := newFakeHost()
	doc := host.addDoc(1, "hello")
	host.addView(10, 1)
	mgr := New()

	prepared, _ := mgr.PrepareEdit(host, 10, document.Record, "user")
	res := commitInsert(t, doc, 5, "!", document.Record)
	mgr.FinalizeEdit(res, prepared)

	doc.SetReadOnly(true)
	if err := mgr.Undo(host); err != ErrReadOnly {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestRemoteUndoDeferredUntilDeltaNoted(t *testing.T) {
	host := newFakeHost()
	doc := host.addDoc(1, "hello")
	v := host.addView(10, 1)

	mgr := New()
	prepared, _ := mgr.PrepareEdit(host, 10, document.Record, "remote")
	res := commitInsert(t, doc, 5, "!", document.Record)
	v.SetCursor(6)
	mgr.FinalizeEdit(res, prepared)

	if err := mgr.StartRemoteUndo(host); err != nil {
		t.Fatal(err)
	}
	if mgr.PendingHistory() == nil {
		t.Fatal("expected a pending remote history op")
	}

	// Undo is gated while a remote op is pending.
	if err := mgr.Undo(host); err != ErrPendingRemoteOp {
		t.Fatalf("expected ErrPendingRemoteOp, got %v", err)
	}

	v.SetCursor(0) // simulate the view moving before the delta lands

	if err := mgr.NoteRemoteHistoryDelta(host, 1); err != nil {
		t.Fatal(err)
	}
	if mgr.PendingHistory() != nil {
		t.Fatal("expected pending op to clear once all docs acked")
	}
	if v.Cursor() != 5 {
		t.Fatalf("expected view restored to pre-edit snapshot (5), got %d", v.Cursor())
	}
}

func TestCancelPendingHistoryRestoresStack(t *testing.T) {
	host := newFakeHost()
	doc := host.addDoc(1, "hello")
	host.addView(10, 1)

	mgr := New()
	prepared, _ := mgr.PrepareEdit(host, 10, document.Record, "remote")
	res := commitInsert(t, doc, 5, "!", document.Record)
	mgr.FinalizeEdit(res, prepared)

	if err := mgr.StartRemoteUndo(host); err != nil {
		t.Fatal(err)
	}
	if err := mgr.CancelPendingHistory(host); err != nil {
		t.Fatal(err)
	}
	if mgr.PendingHistory() != nil {
		t.Fatal("expected pending cleared")
	}
	// The group should be back on the undo stack, available again.
	if err := mgr.Undo(host); err != nil {
		t.Fatal(err)
	}
}
