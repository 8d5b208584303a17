package supervisor

import "context"

// TaskClass identifies the category of work an actor performs, used for
// metrics and for per-generation cancellation grouping (e.g. "lsp-send",
// "syntax-parse", "broker-io").
type TaskClass string

// Actor is a unit of supervised work. Run receives its mailbox and must
// return when ctx is cancelled (the Supervisor cancels ctx on Stop or on
// spawning a new generation). A returned error is classified as
// HandlerFailed unless Run panics, which the Supervisor recovers and
// classifies as Panicked.
type Actor interface {
	Run(ctx context.Context, mailbox Mailbox) error
}

// ActorFunc adapts a plain function to the Actor interface.
type ActorFunc func(ctx context.Context, mailbox Mailbox) error

func (f ActorFunc) Run(ctx context.Context, mailbox Mailbox) error { return f(ctx, mailbox) }
