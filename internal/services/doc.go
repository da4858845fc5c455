// Package services defines shared utilities consumed by the conversion
// engine, the batch driver, and the outer surfaces (CLI, HTTP, watcher).
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, source files, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (usage, decode, encode, i/o) consistently in reports and history.
//
// Use these helpers when wiring new conversion steps so failure reporting and
// observability stay uniform across the tool.
package services
