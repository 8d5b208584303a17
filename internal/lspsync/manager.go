package lspsync

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/corazon/textcore/internal/document"
	"github.com/corazon/textcore/internal/logging"
)

// Manager is the LSP Sync Manager: one DocSyncState per open
// document, driven by Tick from the main loop.
type Manager struct {
	mu    sync.Mutex
	docs  map[document.Id]*DocSyncState
	log   zerolog.Logger
}

// New creates an empty Manager.
func New(log zerolog.Logger) *Manager {
	if (log == zerolog.Logger{}) {
		log = logging.Logger
	}
	return &Manager{docs: make(map[document.Id]*DocSyncState), log: log}
}

// OnDocOpen registers docID with cfg, marking it as needing a full sync
// on the next due tick.
func (m *Manager) OnDocOpen(docID document.Id, cfg Config, version uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[docID] = &DocSyncState{
		DocID:         docID,
		Config:        cfg,
		NeedsFull:     true,
		Phase:         PhaseIdle,
		EditorVersion: version,
	}
}

// OnDocClose forgets docID's sync state.
func (m *Manager) OnDocClose(docID document.Id) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, docID)
}

// OnDocEdit records a committed edit against docID, detecting contiguity
// breaks and escalating to a full sync when needed.
func (m *Manager) OnDocEdit(docID document.Id, prevVersion, newVersion uint64, changes []LspDocumentChange, bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.docs[docID]
	if !ok {
		return
	}

	now := time.Now()
	if s.expectedPrevSet && s.ExpectedPrev != prevVersion {
		m.log.Warn().Uint64("doc_id", uint64(docID)).
			Uint64("expected_prev", s.ExpectedPrev).Uint64("got_prev", prevVersion).
			Msg("lspsync: contiguity break, escalating to full sync")
		s.NeedsFull = true
		s.PendingChanges = nil
		s.PendingBytes = 0
		s.ExpectedPrev = newVersion
		s.expectedPrevSet = true
		s.EditorVersion = newVersion
		s.LastEditAt = now
		if s.Phase != PhaseInFlight {
			s.Phase = PhaseDebouncing
		}
		return
	}

	s.ExpectedPrev = newVersion
	s.expectedPrevSet = true
	s.EditorVersion = newVersion
	s.LastEditAt = now

	if !s.NeedsFull {
		if len(s.PendingChanges)+len(changes) > MaxIncrementalChanges || s.PendingBytes+bytes > MaxIncrementalBytes {
			s.NeedsFull = true
			s.PendingChanges = nil
			s.PendingBytes = 0
		} else {
			s.PendingChanges = append(s.PendingChanges, changes...)
			s.PendingBytes += bytes
		}
	}

	if s.Phase == PhaseIdle {
		s.Phase = PhaseDebouncing
	}
}

// CompletionResult is posted to Tick (via the completion channel in a
// real deployment; here, passed directly) when an in-flight send
// finishes.
type CompletionResult struct {
	DocID  document.Id
	WasFull bool
	Result SendResult
}

// TickResult reports what Tick decided to dispatch this call, so the
// composition root can spawn the actual sends.
type TickResult struct {
	DocID  document.Id
	IsFull bool
	Full   string              // populated when IsFull
	Delta  []LspDocumentChange // populated when !IsFull
	Version uint64
}

// Tick drains completions, checks write timeouts, and selects up to
// MaxDocsPerTick due documents to dispatch. clientReady
// gates dispatch entirely: when false, Tick still drains completions and
// checks timeouts but returns no new dispatches.
func (m *Manager) Tick(now time.Time, clientReady bool, completions []CompletionResult, content ContentSource) []TickResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range completions {
		if s, ok := m.docs[c.DocID]; ok {
			m.markComplete(s, c, now)
		}
	}

	for _, s := range m.docs {
		m.checkWriteTimeout(s, now)
	}

	if !clientReady {
		return nil
	}

	var due []*DocSyncState
	for _, s := range m.docs {
		if m.isDue(s, now) {
			due = append(due, s)
		}
		if len(due) >= MaxDocsPerTick {
			break
		}
	}

	results := make([]TickResult, 0, len(due))
	for _, s := range due {
		isFull := s.NeedsFull || !s.Config.SupportsIncremental
		delta := m.takeForSend(s, isFull, now)
		res := TickResult{DocID: s.DocID, IsFull: isFull, Version: s.EditorVersion}
		if isFull {
			if content != nil {
				res.Full = content.FullText(s.DocID)
			}
		} else {
			res.Delta = delta
		}
		results = append(results, res)
	}
	return results
}

func (m *Manager) markComplete(s *DocSyncState, c CompletionResult, now time.Time) {
	switch c.Result {
	case SendSuccess:
		s.RetryAfter = time.Time{}
		s.Inflight = nil
		if c.WasFull {
			s.ExpectedPrev = s.EditorVersion
			s.expectedPrevSet = true
			s.NeedsFull = false
		}
		if s.NeedsFull || len(s.PendingChanges) > 0 {
			s.Phase = PhaseDebouncing
		} else {
			s.Phase = PhaseIdle
		}
	case SendBackpressure, SendNotReady:
		s.Inflight = nil
		s.RetryAfter = now.Add(RetryDelay)
		s.Phase = PhaseDebouncing
	case SendFailed:
		s.Inflight = nil
		s.NeedsFull = true
		s.RetryAfter = now.Add(RetryDelay)
		s.Phase = PhaseDebouncing
	}
}

func (m *Manager) checkWriteTimeout(s *DocSyncState, now time.Time) {
	if s.Phase != PhaseInFlight || s.Inflight == nil {
		return
	}
	if now.Sub(s.Inflight.StartedAt) <= Timeout {
		return
	}
	m.log.Warn().Uint64("doc_id", uint64(s.DocID)).Msg("lspsync: write barrier timeout, escalating to full sync")
	s.Inflight = nil
	s.NeedsFull = true
	s.RetryAfter = now.Add(RetryDelay)
	s.Phase = PhaseDebouncing
}

func (m *Manager) isDue(s *DocSyncState, now time.Time) bool {
	if s.Phase == PhaseInFlight {
		return false
	}
	if now.Before(s.RetryAfter) {
		return false
	}
	if s.NeedsFull {
		return true
	}
	return len(s.PendingChanges) > 0 && now.Sub(s.LastEditAt) >= Debounce
}

// takeForSend empties the pending payload, marks the document InFlight,
// and returns the coalesced incremental changes (nil for a full send).
func (m *Manager) takeForSend(s *DocSyncState, isFull bool, now time.Time) []LspDocumentChange {
	var delta []LspDocumentChange
	if !isFull {
		delta = Coalesce(s.PendingChanges)
	}
	s.PendingChanges = nil
	s.PendingBytes = 0
	s.Phase = PhaseInFlight
	s.Inflight = &InflightInfo{IsFull: isFull, Version: s.EditorVersion, StartedAt: now}
	return delta
}

// State returns a copy of docID's sync state, for tests and diagnostics.
func (m *Manager) State(docID document.Id) (DocSyncState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.docs[docID]
	if !ok {
		return DocSyncState{}, false
	}
	return *s, true
}
