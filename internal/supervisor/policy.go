package supervisor

import "time"

// RestartKind selects whether a Supervisor restarts an actor after it
// exits with a restart-eligible reason.
type RestartKind int

const (
	// RestartNever means the actor is never restarted; any
	// restart-eligible exit is simply reported.
	RestartNever RestartKind = iota
	// RestartOnFailure restarts the actor with exponential backoff, up to
	// MaxRestarts attempts, resetting the attempt counter after
	// ResetWindow of continuous healthy running.
	RestartOnFailure
)

// RestartPolicy configures restart behavior, grounded on
// dshills-keystorm/internal/lsp/supervisor.go's SupervisorConfig.
type RestartPolicy struct {
	Kind RestartKind

	MaxRestarts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	ResetWindow       time.Duration
}

// Never is the zero-effort RestartNever policy.
func Never() RestartPolicy { return RestartPolicy{Kind: RestartNever} }

// DefaultOnFailure mirrors dshills-keystorm/internal/lsp/supervisor.go's
// DefaultSupervisorConfig: 5 restarts, 1s initial backoff doubling to a
// 60s cap, reset after 5 minutes of healthy running.
func DefaultOnFailure() RestartPolicy {
	return RestartPolicy{
		Kind:              RestartOnFailure,
		MaxRestarts:       5,
		InitialBackoff:    time.Second,
		MaxBackoff:        60 * time.Second,
		BackoffMultiplier: 2.0,
		ResetWindow:       5 * time.Minute,
	}
}

// backoffFor returns the delay before the attempt'th restart (1-indexed).
func (p RestartPolicy) backoffFor(attempt int) time.Duration {
	d := p.InitialBackoff
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * p.BackoffMultiplier)
		if d > p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if d > p.MaxBackoff {
		d = p.MaxBackoff
	}
	return d
}
