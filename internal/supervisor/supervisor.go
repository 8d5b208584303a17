package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/corazon/textcore/internal/logging"
)

// ExitCallback receives a Report whenever a supervised actor's Run
// returns or panics, including reports for restarts (one Report per
// attempt, not just the final one).
type ExitCallback func(Report)

// Handle is returned by Spawn and identifies one supervised actor slot.
// A new Spawn under the same Supervisor does not reuse a Handle; each
// Handle owns exactly one generation lineage.
type Handle struct {
	class TaskClass
	sup   *Supervisor

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	mailbox    Mailbox
	stopped    bool
}

// Class reports the TaskClass this handle was spawned under.
func (h *Handle) Class() TaskClass { return h.class }

// Mailbox returns the current generation's mailbox, so callers can Send
// to the running actor.
func (h *Handle) Mailbox() Mailbox {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mailbox
}

// Generation returns the current generation number (starts at 1).
func (h *Handle) Generation() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.generation
}

// Respawn cancels the current generation (killing any zombie children
// still responding to the old context) and starts a new one running
// factory, replacing the mailbox. This is how a Supervisor restarts an
// actor, and is also exposed directly for callers that want to force a
// fresh generation outside the restart-policy path (e.g. on a language
// change invalidating in-flight syntax tasks).
func (h *Handle) Respawn(factory func() Actor, mailbox Mailbox) {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	h.generation++
	gen := h.generation
	h.mailbox = mailbox
	h.stopped = false
	h.mu.Unlock()

	h.sup.run(h, gen, factory(), mailbox)
}

// Cancel cancels the current generation's context without starting a new
// one; the actor's Run sees ctx.Done() on its next select.
func (h *Handle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
	}
}

// Stop closes the current generation's mailbox and waits up to timeout
// for the actor's goroutine to exit, then cancels the generation and
// waits up to timeout again, reporting ExitJoinFailed if the goroutine
// still has not exited. This is the two-phase
// "close mailbox, join, then cancel and join" shutdown sequence,
// collapsed into one call since Cancel here is immediate rather than a
// second explicit phase.
func (h *Handle) Stop(timeout time.Duration) {
	h.mu.Lock()
	h.stopped = true
	mailbox := h.mailbox
	cancel := h.cancel
	gen := h.generation
	h.mu.Unlock()

	if mailbox != nil {
		mailbox.Close()
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case <-h.sup.exited(h):
	case <-deadline.C:
	}

	if cancel != nil {
		cancel()
	}
	join := time.NewTimer(timeout)
	defer join.Stop()
	select {
	case <-h.sup.exited(h):
	case <-join.C:
		h.sup.emit(Report{Class: h.class, Generation: gen, Reason: ExitJoinFailed})
	}
}

// Supervisor spawns and restarts Actors, each under its own TaskClass and
// RestartPolicy, reporting every exit (including restart attempts) to an
// optional ExitCallback.
type Supervisor struct {
	mu       sync.Mutex
	onExit   ExitCallback
	log      zerolog.Logger
	exitedCh map[*Handle]chan struct{}
}

// New creates a Supervisor. onExit may be nil.
func New(log zerolog.Logger, onExit ExitCallback) *Supervisor {
	if (log == zerolog.Logger{}) {
		log = logging.Logger
	}
	return &Supervisor{
		onExit:   onExit,
		log:      log,
		exitedCh: make(map[*Handle]chan struct{}),
	}
}

// Spawn starts factory() as generation 1 of a new supervised actor under
// class, with policy governing restarts. mailboxFactory is called once
// per generation (including restarts), so each restart gets a fresh
// mailbox rather than replaying whatever was queued for the crashed
// generation.
func (s *Supervisor) Spawn(class TaskClass, policy RestartPolicy, factory func() Actor, mailboxFactory func() Mailbox) *Handle {
	mailbox := mailboxFactory()
	h := &Handle{class: class, sup: s, generation: 1, mailbox: mailbox}
	s.mu.Lock()
	s.exitedCh[h] = make(chan struct{})
	s.mu.Unlock()

	s.runWithPolicy(h, policy, factory, mailboxFactory, mailbox)
	return h
}

func (s *Supervisor) exited(h *Handle) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.exitedCh[h]
	if !ok {
		ch = make(chan struct{})
		close(ch)
	}
	return ch
}

// runWithPolicy launches the actor and, if it exits with a
// restart-eligible reason under RestartOnFailure, relaunches it with
// backoff until MaxRestarts is exhausted or the policy's generation is
// superseded by an explicit Respawn/Stop.
func (s *Supervisor) runWithPolicy(h *Handle, policy RestartPolicy, factory func() Actor, mailboxFactory func() Mailbox, mailbox Mailbox) {
	ctx, cancel := context.WithCancel(context.Background())
	h.mu.Lock()
	h.cancel = cancel
	gen := h.generation
	h.mu.Unlock()

	go func() {
		attempt := 0
		lastHealthy := time.Now()
		m := mailbox
		for {
			report := s.runOnce(ctx, h, gen, factory(), m)
			s.emit(report)

			h.mu.Lock()
			stopped := h.stopped
			currentGen := h.generation
			h.mu.Unlock()
			if stopped || currentGen != gen || report.Reason.Terminal() {
				return
			}
			if policy.Kind != RestartOnFailure {
				return
			}
			if time.Since(lastHealthy) > policy.ResetWindow {
				attempt = 0
			}
			attempt++
			if attempt > policy.MaxRestarts {
				s.emit(Report{Class: h.class, Generation: gen, Reason: ExitHandlerFailed, Err: ErrMaxRestartsExceeded})
				return
			}
			select {
			case <-time.After(policy.backoffFor(attempt)):
			case <-ctx.Done():
				return
			}
			lastHealthy = time.Now()
			m = mailboxFactory()
			h.mu.Lock()
			h.mailbox = m
			h.mu.Unlock()
		}
	}()
}

// run launches one generation without a restart loop; used by Respawn,
// which implements its own generation lifecycle via the caller.
func (s *Supervisor) run(h *Handle, gen uint64, a Actor, mailbox Mailbox) {
	ctx, cancel := context.WithCancel(context.Background())
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	s.mu.Lock()
	s.exitedCh[h] = make(chan struct{})
	s.mu.Unlock()

	go func() {
		report := s.runOnce(ctx, h, gen, a, mailbox)
		s.emit(report)
	}()
}

func (s *Supervisor) runOnce(ctx context.Context, h *Handle, gen uint64, a Actor, mailbox Mailbox) (report Report) {
	defer func() {
		if r := recover(); r != nil {
			report = Report{Class: h.class, Generation: gen, Reason: ExitPanicked, Err: panicError{r}}
		}
		s.mu.Lock()
		if ch, ok := s.exitedCh[h]; ok {
			select {
			case <-ch:
			default:
				close(ch)
			}
		}
		s.mu.Unlock()
	}()

	err := a.Run(ctx, mailbox)
	switch {
	case ctx.Err() != nil:
		return Report{Class: h.class, Generation: gen, Reason: ExitCancelled, Err: err}
	case err == nil:
		return Report{Class: h.class, Generation: gen, Reason: ExitStopped}
	default:
		return Report{Class: h.class, Generation: gen, Reason: ExitHandlerFailed, Err: err}
	}
}

func (s *Supervisor) emit(r Report) {
	s.log.Debug().Str("class", string(r.Class)).Uint64("generation", r.Generation).
		Str("reason", r.Reason.String()).AnErr("err", r.Err).Msg("supervisor: actor exited")
	if s.onExit != nil {
		s.onExit(r)
	}
}

type panicError struct{ v any }

func (p panicError) Error() string { return "panic recovered in actor" }
