package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"qrdaconv/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var statusKinds = map[statusKind]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const ansiReset = "\x1b[0m"

// statusReport accumulates the lines printed by the status command.
type statusReport struct {
	colorize   bool
	labelWidth int
	lines      []string
}

func newStatusReport(w io.Writer) *statusReport {
	return &statusReport{colorize: shouldColorize(w), labelWidth: 20}
}

func (r *statusReport) section(title string) {
	if len(r.lines) > 0 {
		r.lines = append(r.lines, "")
	}
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	r.lines = append(r.lines, r.paint(statusInfo, heading), r.paint(statusInfo, strings.Repeat("-", len(heading))))
}

func (r *statusReport) line(label string, kind statusKind, message string) {
	status := "[" + statusKinds[kind].label + "]"
	if message != "" {
		status += " " + message
	}
	r.lines = append(r.lines, r.paint(kind, fmt.Sprintf("  %-*s %s", r.labelWidth, label+":", status)))
}

// check records a preflight result. Failures of optional checks are
// warnings.
func (r *statusReport) check(result preflight.Result, optional bool) {
	kind := statusOK
	if !result.Passed {
		kind = statusError
		if optional {
			kind = statusWarn
		}
	}
	r.line(result.Name, kind, result.Detail)
}

func (r *statusReport) paint(kind statusKind, s string) string {
	if !r.colorize {
		return s
	}
	return statusKinds[kind].color + s + ansiReset
}

func (r *statusReport) String() string {
	return strings.Join(r.lines, "\n")
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
