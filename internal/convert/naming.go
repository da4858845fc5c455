package convert

import (
	"path/filepath"
	"regexp"

	"qrdaconv/internal/config"
)

var xmlSuffix = regexp.MustCompile(`(?i)\.xml$`)

// OutputPath returns where the converted JSON for input is written. A
// trailing .xml (any case) is replaced by the configured suffix; any other
// name gets the suffix appended.
func OutputPath(input string, out config.Output) string {
	return derivedPath(input, out.Dir, out.Suffix)
}

// FindingsPath returns where the findings report for input is written.
func FindingsPath(input string, out config.Output) string {
	return derivedPath(input, out.Dir, out.FindingsSuffix)
}

func derivedPath(input, dir, suffix string) string {
	base := filepath.Base(input)
	if xmlSuffix.MatchString(base) {
		base = xmlSuffix.ReplaceAllString(base, suffix)
	} else {
		base += suffix
	}
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}
