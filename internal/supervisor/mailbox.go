package supervisor

import (
	"context"
	"errors"
	"sync"
)

// ErrMailboxClosed is returned by Send once Close has been called.
var ErrMailboxClosed = errors.New("supervisor: mailbox closed")

// Mailbox is the bounded command queue an actor drains in its Run loop.
// Two policies are provided: Backpressure (no silent drops; Send blocks
// for capacity) and CoalesceByKey (never blocks; replaces or evicts
// instead).
type Mailbox interface {
	// Send enqueues msg, applying the mailbox's policy. It returns
	// ErrMailboxClosed if Close has already been called, or ctx.Err() if
	// ctx is cancelled while waiting for capacity (Backpressure only).
	Send(ctx context.Context, msg any) error
	// Recv blocks until a message is available, the mailbox is closed (ok
	// = false), or ctx is cancelled (err != nil).
	Recv(ctx context.Context) (msg any, ok bool, err error)
	// Close closes the mailbox; further Sends fail, pending Recvs drain
	// what remains and then report ok = false.
	Close()
}

// BackpressureMailbox blocks Send until capacity is free, so no message
// is ever silently dropped; closing it while a Send is outstanding is a
// fatal usage error (the send never completes) and is the caller's
// responsibility to avoid by draining before Close.
type BackpressureMailbox struct {
	ch     chan any
	closed chan struct{}
	once   sync.Once
}

// NewBackpressureMailbox creates a mailbox of the given capacity.
func NewBackpressureMailbox(capacity int) *BackpressureMailbox {
	return &BackpressureMailbox{
		ch:     make(chan any, capacity),
		closed: make(chan struct{}),
	}
}

func (m *BackpressureMailbox) Send(ctx context.Context, msg any) error {
	select {
	case <-m.closed:
		return ErrMailboxClosed
	default:
	}
	select {
	case m.ch <- msg:
		return nil
	case <-m.closed:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *BackpressureMailbox) Recv(ctx context.Context) (any, bool, error) {
	select {
	case msg, ok := <-m.ch:
		if ok {
			return msg, true, nil
		}
		return nil, false, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (m *BackpressureMailbox) Close() {
	m.once.Do(func() {
		close(m.closed)
		close(m.ch)
	})
}

// KeyedMsg is implemented by messages sent through a CoalesceByKey
// mailbox so the mailbox can identify which prior entry a new send
// should replace.
type KeyedMsg interface {
	CoalesceKey() any
}

// CoalesceByKeyMailbox never blocks: a Send whose message matches an
// already-queued entry's key replaces that entry in place (preserving its
// queue position); otherwise, if the mailbox is at capacity, the oldest
// entry (front of the queue) is evicted to make room. Grounded on the
// mailbox coalescing property.
type CoalesceByKeyMailbox struct {
	mu       sync.Mutex
	capacity int
	order    []any // FIFO by key, oldest first
	byKey    map[any]any
	notify   chan struct{}
	closed   bool
	once     sync.Once
}

// NewCoalesceByKeyMailbox creates a coalescing mailbox of the given
// capacity.
func NewCoalesceByKeyMailbox(capacity int) *CoalesceByKeyMailbox {
	return &CoalesceByKeyMailbox{
		capacity: capacity,
		byKey:    make(map[any]any),
		notify:   make(chan struct{}, 1),
	}
}

func (m *CoalesceByKeyMailbox) Send(_ context.Context, msg any) error {
	km, ok := msg.(KeyedMsg)
	var key any
	if ok {
		key = km.CoalesceKey()
	} else {
		key = msg // unkeyed messages coalesce only with identical values
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrMailboxClosed
	}

	if _, exists := m.byKey[key]; exists {
		m.byKey[key] = msg
		m.signal()
		return nil
	}

	if len(m.order) >= m.capacity && m.capacity > 0 {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.byKey, oldest)
	}
	m.order = append(m.order, key)
	m.byKey[key] = msg
	m.signal()
	return nil
}

func (m *CoalesceByKeyMailbox) signal() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *CoalesceByKeyMailbox) Recv(ctx context.Context) (any, bool, error) {
	for {
		m.mu.Lock()
		if len(m.order) > 0 {
			key := m.order[0]
			m.order = m.order[1:]
			msg := m.byKey[key]
			delete(m.byKey, key)
			m.mu.Unlock()
			return msg, true, nil
		}
		closed := m.closed
		m.mu.Unlock()
		if closed {
			return nil, false, nil
		}
		select {
		case <-m.notify:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
}

func (m *CoalesceByKeyMailbox) Close() {
	m.once.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()
		m.signal()
	})
}
