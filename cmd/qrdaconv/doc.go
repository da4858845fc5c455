// Command qrdaconv converts QRDA-III XML documents into QPP JSON.
//
// Subcommands:
//   - convert: convert files, directories, or wildcard paths in parallel
//   - inspect: print the decoded node graph of one document
//   - serve: run the HTTP conversion boundary
//   - watch: convert documents as they appear in a directory
//   - history: list recorded runs
//   - status: show configuration and preflight results
//   - logs: print or follow the current log file
//   - config: create, show, or validate the configuration file
package main
