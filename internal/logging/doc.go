// Package logging provides structured logging for sofactl.
//
// This package wraps zap with convenience functions for the logging
// patterns used throughout the tool, plus protocol-specific helpers for
// dumping raw frames.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: frame hex dumps, socket details
//   - Info: state transitions, frames sent/received
//   - Warn: non-fatal issues (missing command acknowledgements)
//   - Error: terminal session failures
//
// # Configuration
//
// Verbosity is controlled by the SOFACTL_LOG_LEVEL environment variable
// or an explicit Initialize call. When neither is set the logger is a
// nop, keeping CLI output clean by default:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Frame Logging
//
// LogFrame records a wire frame with a bounded hex and ASCII dump:
//
//	logging.LogFrame("sent", "discovery", frame)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
