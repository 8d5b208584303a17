package shared

import "github.com/corazon/textcore/internal/txn"

// SyncEpoch identifies an ownership generation for a shared document.
type SyncEpoch uint64

// SyncSeq is a per-epoch monotonic edit sequence number.
type SyncSeq uint64

// SessionId identifies a collaborating session, as assigned by the
// broker. Election picks the lexicographically smallest id.
type SessionId string

// Role is this session's relationship to a shared document.
type Role uint8

const (
	RoleFollower Role = iota
	RoleOwner
)

// Phase is a shared document's lock state as reported by the broker.
type Phase uint8

const (
	PhaseOwned Phase = iota
	PhaseUnlocked
	PhaseDiverged
)

// WireOpKind mirrors txn.OpKind for broker wire transactions.
type WireOpKind uint8

const (
	WireRetain WireOpKind = iota
	WireInsert
	WireDelete
)

// WireOp is one operation of a WireTx.
type WireOp struct {
	Kind WireOpKind
	N    int
	Text string
}

// WireTx is the ordered operation list exchanged with the broker,
// matching txn.Transaction semantics.
type WireTx []WireOp

// InFlightEdit records the single outstanding SharedEdit for a document.
type InFlightEdit struct {
	Epoch   SyncEpoch
	BaseSeq SyncSeq
}

// DocStateSnapshot is the broker's view of a shared document's ownership
// state, delivered on open/resync/ownership-change events.
type DocStateSnapshot struct {
	Epoch          SyncEpoch
	Seq            SyncSeq
	Owner          SessionId
	PreferredOwner SessionId
	Phase          Phase
}

// SharedDocEntry is one URI's complete client-side shared-state
// bookkeeping, held in the Manager's in-memory table.
type SharedDocEntry struct {
	DocID          uint64
	URI            string
	Epoch          SyncEpoch
	Seq            SyncSeq
	Role           Role
	Owner          SessionId
	PreferredOwner SessionId
	Phase          Phase

	NeedsResync     bool
	ResyncRequested bool

	PendingDeltas []WireTx
	InFlight      *InFlightEdit

	OpenRefcount int
	FocusSeq     uint64
}

// SharedOpenRequest is what prepare_open hands the transport layer.
type SharedOpenRequest struct {
	URI  string
	Text string
}

// SharedEditRequest is what prepare_edit / drain_pending_edit_requests
// hands the transport layer.
type SharedEditRequest struct {
	URI     string
	Epoch   SyncEpoch
	BaseSeq SyncSeq
	Tx      WireTx
}

// ResyncRequest is what drain_resync_requests hands the transport layer.
type ResyncRequest struct {
	URI string
}

// ToWireTx converts a txn.Transaction to its wire representation.
func ToWireTx(t txn.Transaction) WireTx {
	w := make(WireTx, 0, len(t))
	for _, op := range t {
		switch op.Kind {
		case txn.OpRetain:
			w = append(w, WireOp{Kind: WireRetain, N: op.N})
		case txn.OpInsert:
			w = append(w, WireOp{Kind: WireInsert, Text: op.Text})
		case txn.OpDelete:
			w = append(w, WireOp{Kind: WireDelete, N: op.N})
		}
	}
	return w
}

// FromWireTx converts a broker wire transaction back to a txn.Transaction,
// the form applied to local document content.
func FromWireTx(w WireTx) txn.Transaction {
	t := make(txn.Transaction, 0, len(w))
	for _, op := range w {
		switch op.Kind {
		case WireRetain:
			t = append(t, txn.Retain(op.N))
		case WireInsert:
			t = append(t, txn.Insert(op.Text))
		case WireDelete:
			t = append(t, txn.Delete(op.N))
		}
	}
	return t
}
