// Package logging provides structured logging for msgview.
//
// This package wraps zap with a process-wide logger and a few helpers for
// the fetch lifecycle. Components that need an injectable logger (the
// display view, the message client) take a *zap.Logger and default to
// GetLogger().
//
// # Log Levels
//
//   - Debug: request ids, endpoints, raw response bodies
//   - Info: configuration resolution, discovery results
//   - Warn: recoverable oddities (discovery found nothing)
//   - Error: a fetch that produced no message
//
// # Configuration
//
// The level comes from the --log-level flag, then MSGVIEW_LOG_LEVEL, then a
// per-command default. The interactive view defaults to "error" and writes
// to a log file so the terminal stays clean:
//
//	if err := logging.Initialize(logging.Options{
//	    Level:        logLevel,
//	    DefaultLevel: "error",
//	    OutputPaths:  []string{logFile},
//	}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Non-interactive commands call InitializeFromEnv and stay silent unless
// the environment asks otherwise.
package logging
