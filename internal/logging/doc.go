// Package logging assembles the slog loggers used across qrdaconv.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// context helpers that tag log lines with run ids, source files, stages, and
// correlation ids. Logs go to stderr and a dated file under the configured
// log directory; stdout stays free for machine-readable command output.
// NewNop provides a discard logger for tests and optional wiring.
package logging
