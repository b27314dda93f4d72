package asyncrt

import "log/slog"

// logPanic records a recovered poll-step panic as a structured
// warn-level line rather than letting it crash the worker. It logs
// through the Runtime's own logger (see WithLogger) rather than a
// package-wide default, so overriding the logger actually redirects
// panic-capture diagnostics too.
func logPanic(logger *slog.Logger, recovered any) {
	logger.Warn("computation panicked during poll step",
		"recovered", recovered,
	)
}
