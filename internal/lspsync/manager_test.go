package lspsync

import (
	"testing"
	"time"

	"github.com/corazon/textcore/internal/document"
	"github.com/corazon/textcore/internal/logging"
)

func TestContiguityBreakForcesFullSync(t *testing.T) {
	m := New(logging.Discard())
	docID := document.Id(1)
	m.OnDocOpen(docID, Config{SupportsIncremental: true}, 0)

	// Drain the initial needs_full dispatch so ExpectedPrev only reflects
	// the subsequent edits under test.
	now := time.Now()
	m.Tick(now, true, nil, stubContent{})
	m.mu.Lock()
	s := m.docs[docID]
	s.Phase = PhaseIdle
	s.NeedsFull = false
	m.mu.Unlock()

	m.OnDocEdit(docID, 3, 4, []LspDocumentChange{{NewText: "a"}}, 10)
	// A gap: the next edit claims prev=7 but expected_prev is 4.
	m.OnDocEdit(docID, 7, 8, []LspDocumentChange{{NewText: "b"}}, 10)

	st, _ := m.State(docID)
	if !st.NeedsFull {
		t.Fatalf("expected contiguity break to set NeedsFull, got %+v", st)
	}

	results := m.Tick(now.Add(time.Second), true, nil, stubContent{text: "full@8"})
	if len(results) != 1 || !results[0].IsFull {
		t.Fatalf("expected one full-sync dispatch, got %+v", results)
	}
}

func TestSingleInflightPerDoc(t *testing.T) {
	m := New(logging.Discard())
	docID := document.Id(1)
	m.OnDocOpen(docID, Config{SupportsIncremental: true}, 0)

	now := time.Now()
	first := m.Tick(now, true, nil, stubContent{})
	if len(first) != 1 {
		t.Fatalf("expected initial full-sync dispatch, got %+v", first)
	}

	m.OnDocEdit(docID, 0, 1, []LspDocumentChange{{NewText: "x"}}, 1)
	second := m.Tick(now.Add(time.Hour), true, nil, stubContent{})
	if len(second) != 0 {
		t.Fatalf("expected no dispatch while inflight, got %+v", second)
	}
}

func TestWriteTimeoutEscalatesAndRetries(t *testing.T) {
	m := New(logging.Discard())
	docID := document.Id(1)
	m.OnDocOpen(docID, Config{SupportsIncremental: true}, 0)

	t0 := time.Now()
	m.Tick(t0, true, nil, stubContent{}) // dispatches full sync, InFlight

	past := t0.Add(Timeout + 100*time.Millisecond)
	m.Tick(past, true, nil, stubContent{}) // detects timeout

	st, _ := m.State(docID)
	if st.Phase == PhaseInFlight {
		t.Fatalf("expected timeout to clear inflight, got %+v", st)
	}
	if !st.NeedsFull {
		t.Fatalf("expected timeout to set NeedsFull")
	}

	// Before retry_after: not due yet.
	tooSoon := past.Add(time.Millisecond)
	if results := m.Tick(tooSoon, true, nil, stubContent{}); len(results) != 0 {
		t.Fatalf("expected no dispatch before retry_after, got %+v", results)
	}

	afterRetry := past.Add(RetryDelay + time.Millisecond)
	results := m.Tick(afterRetry, true, nil, stubContent{})
	if len(results) != 1 || !results[0].IsFull {
		t.Fatalf("expected a retried full sync after retry_after, got %+v", results)
	}
}

func TestEscalatesWhenBatchExceedsLimits(t *testing.T) {
	m := New(logging.Discard())
	docID := document.Id(1)
	m.OnDocOpen(docID, Config{SupportsIncremental: true}, 0)
	m.Tick(time.Now(), true, nil, stubContent{})
	m.mu.Lock()
	s := m.docs[docID]
	s.Phase = PhaseIdle
	s.NeedsFull = false
	m.mu.Unlock()

	m.OnDocEdit(docID, 0, 1, []LspDocumentChange{{NewText: "x"}}, MaxIncrementalBytes+1)
	st, _ := m.State(docID)
	if !st.NeedsFull {
		t.Fatalf("expected byte-limit escalation to full sync")
	}
	if len(st.PendingChanges) != 0 {
		t.Fatalf("expected pending changes dropped on escalation")
	}
}

type stubContent struct{ text string }

func (s stubContent) FullText(document.Id) string { return s.text }
