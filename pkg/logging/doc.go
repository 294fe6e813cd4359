// Package logging provides the structured logging used across the pyrite CLI.
//
// It wraps Go's log/slog with a small set of subsystem-tagged helpers so that
// every log line carries the component that produced it:
//
//	logging.InitForCLI(logging.LevelWarn, os.Stderr)
//
//	logging.Debug("Auth", "Refreshing session expiring at %d", expiresAt)
//	logging.Warn("Config", "Ignoring unreadable config file %s", path)
//	logging.Error("API", err, "Request to %s failed", method)
//
// Output always goes to the writer given to InitForCLI (stderr for the CLI) so
// that command results on stdout stay machine-readable.
//
// # Audit Logging
//
// Changes to the stored credentials are recorded with Audit:
//
//	logging.Audit("session_stored", true, "Session stored",
//	    slog.String("path", path))
//
// Audit lines are prefixed with SECURITY_AUDIT and carry an event attribute.
// Successful events are logged at INFO, failures at WARN. Token values are
// never passed to the logger.
package logging
