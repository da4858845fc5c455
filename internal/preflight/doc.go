// Package preflight checks the filesystem paths and listen address qrdaconv
// needs before it starts converting.
//
// The convert and watch commands call RunAll and refuse to start when a
// check fails, so a batch never discovers an unwritable output directory
// halfway through. The status command renders the same results as a table.
package preflight
