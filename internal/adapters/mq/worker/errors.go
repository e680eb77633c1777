package worker

import "errors"

// ErrPoolStopped is returned by Classify after Shutdown.
var ErrPoolStopped = errors.New("classifier pool stopped")
