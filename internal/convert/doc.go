// Package convert runs one QRDA-III document through the pipeline: read,
// parse, decode, encode, and write.
//
// A Converter is built once per process from the configuration and the
// handler registry and is safe for concurrent use. Each call creates its own
// decode session, so findings from one file never leak into another. The
// batch driver, the watcher, and the HTTP boundary all convert through this
// package.
package convert
