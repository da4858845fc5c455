// Package history persists the final outcome of every conversion run in a
// SQLite database so `qrdaconv history` can list them later.
//
// Only final per-file outcomes are stored. Nothing about the decoded
// document or the encode pass is persisted. Writes retry on SQLITE_BUSY so
// the watcher and a concurrent CLI run can share one database.
package history
