// Package batch resolves command-line paths into input files and converts
// them in parallel.
//
// Resolution accepts literal files, literal directories (every .xml file
// beneath them), and a wildcard in the final path segment. The driver runs a
// bounded pool of workers; each worker converts one file end to end, and a
// failure or panic in one file becomes a record for that file instead of
// stopping the run. The caller decides the exit status from the Summary
// using the configured fail_on policy.
package batch
