// Package logs reads the dated qrdaconv log files for the logs command.
//
// Last returns the final lines of a file with bounded memory, and Follow
// streams lines appended after an offset until its context ends, switching
// to the next day's file when the date rolls over.
package logs
