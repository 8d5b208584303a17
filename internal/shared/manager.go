package shared

import (
	"hash/fnv"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/corazon/textcore/internal/logging"
	"github.com/corazon/textcore/internal/txn"
)

// Manager is the client-side shared-state (broker) manager. All
// operations are synchronous state transitions over an in-memory table
// keyed by URI; transport I/O is the caller's responsibility, per
// The design keeps "Shared-state: all operations are synchronous state
// transitions" note.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*SharedDocEntry
	local   SessionId
	log     zerolog.Logger
}

// New creates a Manager for the given local session id.
func New(local SessionId, log zerolog.Logger) *Manager {
	if (log == zerolog.Logger{}) {
		log = logging.Logger
	}
	return &Manager{entries: make(map[string]*SharedDocEntry), local: local, log: log}
}

func (m *Manager) entry(uri string) (*SharedDocEntry, bool) {
	e, ok := m.entries[uri]
	return e, ok
}

// PrepareOpen registers a URI↔docID mapping, increments the open
// refcount, and returns the Open request the transport must send.
func (m *Manager) PrepareOpen(uri string, docID uint64) SharedOpenRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entry(uri)
	if !ok {
		e = &SharedDocEntry{DocID: docID, URI: uri}
		m.entries[uri] = e
	}
	e.OpenRefcount++
	return SharedOpenRequest{URI: uri}
}

// HandleOpened applies a SharedOpened response's snapshot state.
func (m *Manager) HandleOpened(uri string, snapshot DocStateSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entry(uri)
	if !ok {
		return
	}
	m.applySnapshotState(e, snapshot)
}

func (m *Manager) applySnapshotState(e *SharedDocEntry, snapshot DocStateSnapshot) {
	e.Epoch = snapshot.Epoch
	e.Seq = snapshot.Seq
	e.Owner = snapshot.Owner
	e.PreferredOwner = snapshot.PreferredOwner
	e.Phase = snapshot.Phase
	if snapshot.Owner == m.local {
		e.Role = RoleOwner
	} else {
		e.Role = RoleFollower
	}
	if snapshot.Phase == PhaseDiverged && e.Role == RoleOwner {
		e.NeedsResync = true
		e.PendingDeltas = nil
		e.InFlight = nil
	}
}

// PrepareEdit converts tx to wire form and either returns the request to
// send immediately (marking it in flight) or queues it behind an
// in-flight edit. Returns an error if the session is not the owner or
// needs a resync first.
func (m *Manager) PrepareEdit(uri string, tx txn.Transaction) (*SharedEditRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entry(uri)
	if !ok {
		return nil, ErrSyncDocNotFound
	}
	if e.Role != RoleOwner {
		return nil, ErrNotDocOwner
	}
	if e.NeedsResync {
		return nil, ErrOwnerNeedsResync
	}

	wire := ToWireTx(tx)
	if e.InFlight != nil {
		e.PendingDeltas = append(e.PendingDeltas, wire)
		return nil, nil
	}
	e.InFlight = &InFlightEdit{Epoch: e.Epoch, BaseSeq: e.Seq}
	return &SharedEditRequest{URI: uri, Epoch: e.Epoch, BaseSeq: e.Seq, Tx: wire}, nil
}

// HandleEditAck validates and applies a SharedEditAck. A mismatched
// epoch/seq is a stale ack from a superseded edit and is silently
// ignored (logged).
func (m *Manager) HandleEditAck(uri string, epoch SyncEpoch, seq SyncSeq) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entry(uri)
	if !ok || e.InFlight == nil {
		return
	}
	if epoch != e.InFlight.Epoch || seq != e.InFlight.BaseSeq+1 {
		m.log.Warn().Str("uri", uri).Msg("ignoring stale shared-edit ack")
		return
	}
	e.Seq = seq
	e.InFlight = nil
}

// DrainPendingEditRequests pops one queued edit for every owner entry
// that is idle (no in-flight edit, not needing resync) and has queued
// work, returning the requests the transport must send.
func (m *Manager) DrainPendingEditRequests() []SharedEditRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SharedEditRequest
	for _, uri := range m.sortedURIs() {
		e := m.entries[uri]
		if e.Role != RoleOwner || e.InFlight != nil || e.NeedsResync || len(e.PendingDeltas) == 0 {
			continue
		}
		next := e.PendingDeltas[0]
		e.PendingDeltas = e.PendingDeltas[1:]
		e.InFlight = &InFlightEdit{Epoch: e.Epoch, BaseSeq: e.Seq}
		out = append(out, SharedEditRequest{URI: uri, Epoch: e.Epoch, BaseSeq: e.Seq, Tx: next})
	}
	return out
}

// HandleRemoteDelta applies a follower-side BufferSyncDelta. Returns the
// docID to apply the delta to locally, or ok=false if the delta violated
// the seq/epoch invariant (needs_resync is set in that case and the
// delta must not be applied).
func (m *Manager) HandleRemoteDelta(uri string, epoch SyncEpoch, seq SyncSeq) (docID uint64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, found := m.entry(uri)
	if !found {
		return 0, false
	}
	if epoch != e.Epoch || seq != e.Seq+1 {
		e.NeedsResync = true
		return 0, false
	}
	e.Seq = seq
	return e.DocID, true
}

// MarkNeedsResync flags uri for resync and clears its edit pipeline.
func (m *Manager) MarkNeedsResync(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entry(uri)
	if !ok {
		return
	}
	e.NeedsResync = true
	e.PendingDeltas = nil
	e.InFlight = nil
}

// HandleSnapshot applies a full SharedSnapshot resync payload, clearing
// needs_resync once text has been delivered, for a follower or for an
// owner whose snapshot is not diverged.
func (m *Manager) HandleSnapshot(uri string, snapshot DocStateSnapshot, textDelivered bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entry(uri)
	if !ok {
		return
	}
	m.applySnapshotState(e, snapshot)
	if textDelivered && (e.Role == RoleFollower || snapshot.Phase != PhaseDiverged) {
		e.NeedsResync = false
		e.ResyncRequested = false
	}
}

// DrainResyncRequests produces one ResyncRequest per document that needs
// a resync and has not already requested one.
func (m *Manager) DrainResyncRequests() []ResyncRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ResyncRequest
	for _, uri := range m.sortedURIs() {
		e := m.entries[uri]
		if e.NeedsResync && !e.ResyncRequested {
			e.ResyncRequested = true
			out = append(out, ResyncRequest{URI: uri})
		}
	}
	return out
}

// HandleRequestFailed reacts to a transport-level request failure: a
// resync request is allowed to retry, otherwise the edit pipeline is
// cleared so a subsequent edit starts clean.
func (m *Manager) HandleRequestFailed(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entry(uri)
	if !ok {
		return
	}
	if e.NeedsResync {
		e.ResyncRequested = false
		return
	}
	e.PendingDeltas = nil
	e.InFlight = nil
}

// DisableAll clears all shared-document state, used on broker
// disconnect.
func (m *Manager) DisableAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*SharedDocEntry)
}

// State returns a copy of uri's entry for test/introspection use.
func (m *Manager) State(uri string) (SharedDocEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entry(uri)
	if !ok {
		return SharedDocEntry{}, false
	}
	return *e, true
}

func (m *Manager) sortedURIs() []string {
	uris := make([]string, 0, len(m.entries))
	for uri := range m.entries {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// ShouldApplySnapshotText decides whether a resync/open snapshot should
// replace local content: always when the snapshot carries non-empty
// text, otherwise only when the local fingerprint (length plus a 64-bit
// content hash) differs from the snapshot's reported len_chars/hash64,
// once resolved.
func ShouldApplySnapshotText(text string, snapshotLen int, snapshotHash uint64, localLen int, localHash uint64) bool {
	if text != "" {
		return true
	}
	return localLen != snapshotLen || localHash != snapshotHash
}

// Hash64 computes the 64-bit FNV-1a hash used for snapshot-text
// fingerprinting. No corpus example wires a dedicated hashing library for
// this narrow a use, so this one function uses the standard library's
// hash/fnv rather than an ecosystem dependency.
func Hash64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
