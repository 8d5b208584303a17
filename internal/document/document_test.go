package document

import (
	"errors"
	"testing"

	"github.com/corazon/textcore/internal/rope"
	"github.com/corazon/textcore/internal/selection"
	"github.com/corazon/textcore/internal/txn"
)

func TestCommitAppliesAndBumpsVersion(t *testing.T) {
	d := New(1, "hello world", nil)
	res, err := d.Commit(EditCommit{
		Tx:             txn.Transaction{txn.Retain(6), txn.Delete(5), txn.Insert("there")},
		SelectionAfter: selection.NewCursorSelection(11),
		Undo:           Record,
		Syntax:         SyntaxMarkDirty,
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if !res.Applied || res.VersionBefore != 0 || res.VersionAfter != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if d.Content().String() != "hello there" {
		t.Fatalf("got %q", d.Content().String())
	}
	if !res.UndoRecorded {
		t.Fatal("expected undo to be recorded")
	}
	if res.SyntaxOutcome != SyntaxMarkedDirty {
		t.Fatalf("expected marked dirty, got %v", res.SyntaxOutcome)
	}
	if !d.Modified() {
		t.Fatal("expected modified=true")
	}
}

func TestCommitRejectsOnReadOnly(t *testing.T) {
	d := New(1, "abc", nil)
	d.SetReadOnly(true)
	_, err := d.Commit(EditCommit{Tx: txn.Transaction{txn.Retain(3)}, Undo: Record})
	if !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestCommitRejectsMismatchedTransaction(t *testing.T) {
	d := New(1, "abc", nil)
	_, err := d.Commit(EditCommit{Tx: txn.Transaction{txn.Retain(5)}, Undo: Record})
	if err == nil {
		t.Fatal("expected error for transaction length mismatch")
	}
}

func TestMergeWithCurrentGroupOnlyRecordsFirstEdit(t *testing.T) {
	d := New(1, "a", nil)
	insert := func(at int, s string) EditCommit {
		idx := rope.CharIdx(at)
		return EditCommit{
			Tx:   txn.FromChanges(d.Content().LenChars(), []txn.Change{{Start: idx, End: idx, Replacement: &s}}),
			Undo: MergeWithCurrentGroup,
		}
	}
	r1, err := d.Commit(insert(1, "b"))
	if err != nil {
		t.Fatal(err)
	}
	if !r1.UndoRecorded || !r1.InsertGroupActiveAfter {
		t.Fatalf("expected first merge-commit to record and open group: %+v", r1)
	}

	r2, err := d.Commit(insert(2, "c"))
	if err != nil {
		t.Fatal(err)
	}
	if r2.UndoRecorded {
		t.Fatalf("expected second merge-commit to join the group, not record: %+v", r2)
	}
	if !r2.InsertGroupActiveAfter {
		t.Fatal("expected group to remain active")
	}

	if d.Content().String() != "abc" {
		t.Fatalf("got %q", d.Content().String())
	}

	// A single undo unwinds the whole group in one step (one undo entry
	// was ever pushed), landing back on the original content.
	if err := d.Undo(); err != nil {
		t.Fatal(err)
	}
	if d.Content().String() != "a" {
		t.Fatalf("got %q after undo", d.Content().String())
	}
}

func TestBoundaryResetsInsertGroup(t *testing.T) {
	d := New(1, "a", nil)
	rep := "b"
	_, err := d.Commit(EditCommit{
		Tx:   txn.FromChanges(d.Content().LenChars(), []txn.Change{{Start: 1, End: 1, Replacement: &rep}}),
		Undo: MergeWithCurrentGroup,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !d.InsertUndoActive() {
		t.Fatal("expected group active")
	}

	rep2 := "c"
	res, err := d.Commit(EditCommit{
		Tx:   txn.FromChanges(d.Content().LenChars(), []txn.Change{{Start: 2, End: 2, Replacement: &rep2}}),
		Undo: Boundary,
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.InsertUndoActive() {
		t.Fatal("expected Boundary to clear insert_undo_active")
	}
	if !res.UndoRecorded {
		t.Fatal("expected Boundary commit to record")
	}
}

// TestUndoRedoRoundTrip is the S1 scenario: commit, undo, redo.
func TestUndoRedoRoundTrip(t *testing.T) {
	d := New(1, "hello", nil)
	rep := " world"
	_, err := d.Commit(EditCommit{
		Tx:   txn.FromChanges(d.Content().LenChars(), []txn.Change{{Start: 5, End: 5, Replacement: &rep}}),
		Undo: Record,
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.Content().String() != "hello world" {
		t.Fatalf("got %q", d.Content().String())
	}
	v1 := d.Version()

	if err := d.Undo(); err != nil {
		t.Fatal(err)
	}
	if d.Content().String() != "hello" {
		t.Fatalf("got %q after undo", d.Content().String())
	}
	// version keeps increasing even though content reverted.
	if d.Version() <= v1 {
		t.Fatalf("expected version to strictly increase across undo, was %d now %d", v1, d.Version())
	}
	v2 := d.Version()

	if err := d.Redo(); err != nil {
		t.Fatal(err)
	}
	if d.Content().String() != "hello world" {
		t.Fatalf("got %q after redo", d.Content().String())
	}
	if d.Version() <= v2 {
		t.Fatal("expected version to strictly increase across redo")
	}
}

func TestUndoWithoutHistoryFails(t *testing.T) {
	d := New(1, "x", nil)
	if err := d.Undo(); !errors.Is(err, ErrNoUndo) {
		t.Fatalf("expected ErrNoUndo, got %v", err)
	}
}

func TestNoUndoPolicyDoesNotRecord(t *testing.T) {
	d := New(1, "x", nil)
	rep := "y"
	res, err := d.Commit(EditCommit{
		Tx:   txn.FromChanges(d.Content().LenChars(), []txn.Change{{Start: 0, End: 1, Replacement: &rep}}),
		Undo: NoUndo,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.UndoRecorded {
		t.Fatal("expected NoUndo to skip recording")
	}
	if d.HasUndo() {
		t.Fatal("expected no undo history")
	}
}

func TestTransactionBackendRoundTrip(t *testing.T) {
	d := New(1, "hello", NewTransactionUndoBackend(0))
	rep := " world"
	_, err := d.Commit(EditCommit{
		Tx:   txn.FromChanges(d.Content().LenChars(), []txn.Change{{Start: 5, End: 5, Replacement: &rep}}),
		Undo: Record,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Undo(); err != nil {
		t.Fatal(err)
	}
	if d.Content().String() != "hello" {
		t.Fatalf("got %q", d.Content().String())
	}
	if err := d.Redo(); err != nil {
		t.Fatal(err)
	}
	if d.Content().String() != "hello world" {
		t.Fatalf("got %q", d.Content().String())
	}
}

func TestResetContentClearsUndoAndModified(t *testing.T) {
	d := New(1, "a", nil)
	rep := "b"
	if _, err := d.Commit(EditCommit{
		Tx:   txn.FromChanges(d.Content().LenChars(), []txn.Change{{Start: 1, End: 1, Replacement: &rep}}),
		Undo: Record,
	}); err != nil {
		t.Fatal(err)
	}
	d.ResetContent("fresh")
	if d.Modified() {
		t.Fatal("expected modified=false after reset")
	}
	if d.HasUndo() {
		t.Fatal("expected undo history cleared after reset")
	}
	if d.Content().String() != "fresh" {
		t.Fatalf("got %q", d.Content().String())
	}
}
