package shared

import (
	"testing"

	"github.com/corazon/textcore/internal/logging"
	"github.com/corazon/textcore/internal/txn"
)

func TestOwnerDisconnectElectionAndResyncGate(t *testing.T) {
	// S4: sessions {1,2,3} open file:///t.rs; session 1 is owner at
	// epoch=1, seq=0. Session 1 disconnects; session 2 and 3 each learn
	// of the new owner (session 2, by the min-id election rule) via
	// epoch=2. Session 2 must resync before it can edit.
	m2 := New(SessionId("2"), logging.Discard())
	m2.PrepareOpen("file:///t.rs", 1)
	m2.HandleOpened("file:///t.rs", DocStateSnapshot{Epoch: 1, Seq: 0, Owner: SessionId("1"), Phase: PhaseOwned})

	// Owner-changed broadcast after election.
	m2.HandleSnapshot("file:///t.rs", DocStateSnapshot{Epoch: 2, Seq: 0, Owner: SessionId("2"), Phase: PhaseDiverged}, false)

	if _, err := m2.PrepareEdit("file:///t.rs", txn.Transaction{txn.Retain(1)}); err != ErrOwnerNeedsResync {
		t.Fatalf("want OwnerNeedsResync before resync, got %v", err)
	}

	// SharedResync succeeds, delivering text and clearing needs_resync.
	m2.HandleSnapshot("file:///t.rs", DocStateSnapshot{Epoch: 2, Seq: 0, Owner: SessionId("2"), Phase: PhaseOwned}, true)

	req, err := m2.PrepareEdit("file:///t.rs", txn.Transaction{txn.Retain(1)})
	if err != nil {
		t.Fatalf("PrepareEdit after resync: %v", err)
	}
	if req == nil || req.Epoch != 2 || req.BaseSeq != 0 {
		t.Fatalf("want SharedEdit{epoch=2, base_seq=0}, got %+v", req)
	}
}

func TestOwnerPipelineQueuesSecondEditAndAcksInOrder(t *testing.T) {
	// S6: session 1 owner, epoch=1, seq=0.
	m := New(SessionId("1"), logging.Discard())
	m.PrepareOpen("file:///t.rs", 1)
	m.HandleOpened("file:///t.rs", DocStateSnapshot{Epoch: 1, Seq: 0, Owner: SessionId("1"), Phase: PhaseOwned})

	req1, err := m.PrepareEdit("file:///t.rs", txn.Transaction{txn.Insert("a")})
	if err != nil || req1 == nil || req1.BaseSeq != 0 {
		t.Fatalf("want immediate SharedEdit{base_seq=0}, got %+v, %v", req1, err)
	}

	req2, err := m.PrepareEdit("file:///t.rs", txn.Transaction{txn.Insert("b")})
	if err != nil || req2 != nil {
		t.Fatalf("want second edit queued (nil request), got %+v, %v", req2, err)
	}

	m.HandleEditAck("file:///t.rs", 1, 1)
	st, _ := m.State("file:///t.rs")
	if st.Seq != 1 || st.InFlight != nil {
		t.Fatalf("want seq=1, in_flight cleared, got %+v", st)
	}

	drained := m.DrainPendingEditRequests()
	if len(drained) != 1 || drained[0].BaseSeq != 1 {
		t.Fatalf("want queued edit dispatched at base_seq=1, got %+v", drained)
	}
}

func TestFollowerSeqPropertyRejectsNonContiguousDelta(t *testing.T) {
	m := New(SessionId("2"), logging.Discard())
	m.PrepareOpen("file:///t.rs", 1)
	m.HandleOpened("file:///t.rs", DocStateSnapshot{Epoch: 1, Seq: 5, Owner: SessionId("1"), Phase: PhaseOwned})

	if _, ok := m.HandleRemoteDelta("file:///t.rs", 1, 7); ok {
		t.Fatalf("non-contiguous seq must be rejected")
	}
	st, _ := m.State("file:///t.rs")
	if !st.NeedsResync {
		t.Fatalf("rejected delta must set needs_resync")
	}
	if st.Seq != 5 {
		t.Fatalf("rejected delta must not advance seq, got %d", st.Seq)
	}
}

func TestFollowerSeqPropertyAcceptsContiguousDelta(t *testing.T) {
	m := New(SessionId("2"), logging.Discard())
	m.PrepareOpen("file:///t.rs", 1)
	m.HandleOpened("file:///t.rs", DocStateSnapshot{Epoch: 1, Seq: 5, Owner: SessionId("1"), Phase: PhaseOwned})

	docID, ok := m.HandleRemoteDelta("file:///t.rs", 1, 6)
	if !ok || docID != 1 {
		t.Fatalf("contiguous delta must be accepted, got ok=%v docID=%d", ok, docID)
	}
	st, _ := m.State("file:///t.rs")
	if st.Seq != 6 || st.NeedsResync {
		t.Fatalf("want seq advanced and no resync flagged, got %+v", st)
	}
}

func TestSingleInflightPerOwnerURI(t *testing.T) {
	m := New(SessionId("1"), logging.Discard())
	m.PrepareOpen("file:///t.rs", 1)
	m.HandleOpened("file:///t.rs", DocStateSnapshot{Epoch: 1, Seq: 0, Owner: SessionId("1"), Phase: PhaseOwned})

	if _, err := m.PrepareEdit("file:///t.rs", txn.Transaction{txn.Insert("a")}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		req, err := m.PrepareEdit("file:///t.rs", txn.Transaction{txn.Insert("b")})
		if err != nil || req != nil {
			t.Fatalf("iteration %d: additional edits must queue, not send, got %+v %v", i, req, err)
		}
	}
	st, _ := m.State("file:///t.rs")
	if st.InFlight == nil {
		t.Fatalf("want one in-flight edit")
	}
	if len(st.PendingDeltas) != 5 {
		t.Fatalf("want 5 queued deltas, got %d", len(st.PendingDeltas))
	}
}

func TestWireTxRoundTrip(t *testing.T) {
	tx := txn.Transaction{txn.Retain(3), txn.Insert("hi"), txn.Delete(2)}
	wire := ToWireTx(tx)
	frame, err := EncodeWireTx(wire)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeWireTx(frame)
	if err != nil {
		t.Fatal(err)
	}
	back := FromWireTx(decoded)
	if len(back) != len(tx) {
		t.Fatalf("round trip length mismatch: %+v vs %+v", back, tx)
	}
	for i := range tx {
		if back[i] != tx[i] {
			t.Fatalf("round trip op %d mismatch: %+v vs %+v", i, back[i], tx[i])
		}
	}
}

func TestShouldApplySnapshotText(t *testing.T) {
	if !ShouldApplySnapshotText("hello", 0, 0, 3, 99) {
		t.Fatal("non-empty snapshot text must always apply")
	}
	h := Hash64("abc")
	if ShouldApplySnapshotText("", 3, h, 3, h) {
		t.Fatal("matching fingerprint must not re-apply")
	}
	if !ShouldApplySnapshotText("", 3, h, 4, h) {
		t.Fatal("differing length must apply")
	}
}
