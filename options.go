package asyncrt

import (
	"log/slog"

	"github.com/ChuLiYu/asyncrt/internal/metrics"
)

// Option configures ambient concerns of a Runtime (logging,
// instrumentation) without changing the scheduling core's semantics.
type Option func(*Runtime)

// WithMetrics attaches a Prometheus collector that the runtime updates
// as it spawns, completes, and panics on computations, as workers
// start and stop, and as workers pull Tasks off the queue. Passing a nil collector (the default) makes every
// instrumentation call a no-op.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runtime) {
		r.metrics = c
	}
}

// WithLogger overrides the *slog.Logger the runtime uses for its own
// diagnostics (worker exit lines, panic capture). Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}
