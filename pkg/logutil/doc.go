// Package logutil configures structured logging for CLI applications and
// provides context-aware loggers.
//
// The configuration side builds a slog.Logger from a Config that mirrors the
// standard logging flags (--log-level, --log-file, --syslog-facility,
// --log-to-stdout). Multiple destinations can be active at the same time; the
// records get fanned out to all of them.
//
//	logger, err := logutil.New("myapp", logutil.Config{
//	    Level:    "info",
//	    ToStdout: true,
//	})
//
// The context side carries a logger through call chains, so libraries log
// with the fields of their caller:
//
//	ctx = logutil.Start(ctx, "sync-worker")
//	logutil.Get(ctx).Info("worker started")
//
// Start attaches a trace ID, making it easy to correlate all lines of one
// invocation.
package logutil
