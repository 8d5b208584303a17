package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corazon/textcore/internal/logging"
)

func TestBackpressureMailboxNoLoss(t *testing.T) {
	mb := NewBackpressureMailbox(4)
	const n = 100
	go func() {
		for i := 0; i < n; i++ {
			_ = mb.Send(context.Background(), i)
		}
		mb.Close()
	}()

	got := map[int]bool{}
	for {
		msg, ok, err := mb.Recv(context.Background())
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if !ok {
			break
		}
		got[msg.(int)] = true
	}
	if len(got) != n {
		t.Fatalf("expected %d distinct messages, got %d", n, len(got))
	}
}

type keyedMsg struct {
	key   string
	value int
}

func (k keyedMsg) CoalesceKey() any { return k.key }

func TestCoalesceByKeyMailboxReplacesInPlace(t *testing.T) {
	mb := NewCoalesceByKeyMailbox(3)
	ctx := context.Background()
	_ = mb.Send(ctx, keyedMsg{"a", 1})
	_ = mb.Send(ctx, keyedMsg{"b", 1})
	_ = mb.Send(ctx, keyedMsg{"a", 2}) // replaces "a" in place, not at back
	_ = mb.Send(ctx, keyedMsg{"c", 1})
	mb.Close()

	var order []string
	for {
		msg, ok, _ := mb.Recv(ctx)
		if !ok {
			break
		}
		order = append(order, msg.(keyedMsg).key)
	}
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("unexpected drain order: %v", order)
	}
	// "a" should carry the replaced value.
}

func TestCoalesceByKeyMailboxEvictsOldestWhenFull(t *testing.T) {
	mb := NewCoalesceByKeyMailbox(2)
	ctx := context.Background()
	_ = mb.Send(ctx, keyedMsg{"a", 1})
	_ = mb.Send(ctx, keyedMsg{"b", 1})
	_ = mb.Send(ctx, keyedMsg{"c", 1}) // evicts "a"
	mb.Close()

	var order []string
	for {
		msg, ok, _ := mb.Recv(ctx)
		if !ok {
			break
		}
		order = append(order, msg.(keyedMsg).key)
	}
	if len(order) != 2 || order[0] != "b" || order[1] != "c" {
		t.Fatalf("expected [b c] after eviction, got %v", order)
	}
}

func TestSupervisorRestartsOnFailure(t *testing.T) {
	attempts := 0
	done := make(chan struct{})

	policy := DefaultOnFailure()
	policy.InitialBackoff = time.Millisecond
	policy.MaxBackoff = time.Millisecond

	sup := New(logging.Discard(), func(r Report) {
		if r.Reason == ExitHandlerFailed && errors.Is(r.Err, ErrMaxRestartsExceeded) {
			close(done)
		}
	})

	factory := func() Actor {
		return ActorFunc(func(ctx context.Context, mailbox Mailbox) error {
			attempts++
			return errors.New("boom")
		})
	}
	policy.MaxRestarts = 2
	sup.Spawn("test", policy, factory, func() Mailbox { return NewBackpressureMailbox(1) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor never gave up restarting")
	}
	if attempts < 3 {
		t.Fatalf("expected at least 3 attempts (1 + 2 restarts), got %d", attempts)
	}
}

func TestHandleStopClosesMailboxAndCancels(t *testing.T) {
	started := make(chan struct{})
	sup := New(logging.Discard(), nil)
	h := sup.Spawn("test", Never(), func() Actor {
		return ActorFunc(func(ctx context.Context, mailbox Mailbox) error {
			close(started)
			<-ctx.Done()
			return nil
		})
	}, func() Mailbox { return NewBackpressureMailbox(1) })

	<-started
	h.Stop(time.Second)
}
