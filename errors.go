package asyncrt

import "errors"

// ErrRuntimeStopped is returned by Spawn when the runtime's shutdown
// flag was already observed set at the instant of submission.
var ErrRuntimeStopped = errors.New("asyncrt: runtime stopped")
