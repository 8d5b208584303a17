package supervisor

import "errors"

// ErrMaxRestartsExceeded is reported via the Supervisor's ExitCallback when an
// OnFailure-restarted actor has failed more than RestartPolicy.MaxRestarts
// times within one ResetWindow.
var ErrMaxRestartsExceeded = errors.New("supervisor: max restarts exceeded")
