package eventbus

import "errors"

var (
	// ErrNilHandler is returned by Subscribe when handler is nil.
	ErrNilHandler = errors.New("eventbus: nil handler")
	// ErrBusStopped names a stopped bus. No Bus method returns it: Bus has
	// no Stop method, and PublishSync/PublishAsync return no error.
	ErrBusStopped = errors.New("eventbus: bus stopped")
)
