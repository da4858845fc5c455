package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"qrdaconv/internal/logging"
	"qrdaconv/internal/services"
)

var (
	separators = regexp.MustCompile(`[/\\]`)
	xmlFile    = regexp.MustCompile(`(?i)\.xml$`)
)

// Resolution is the outcome of turning arguments into input files.
type Resolution struct {
	Files   []string
	Missing []string
	Usage   []error
}

// Resolve expands args into a de-duplicated, sorted list of files. Missing
// paths (literal or wildcard prefix), malformed wildcards, and unreadable
// directories are reported and skipped.
func Resolve(args []string, logger *slog.Logger) Resolution {
	if logger == nil {
		logger = logging.NewNop()
	}
	var res Resolution
	seen := make(map[string]struct{})

	for _, arg := range args {
		files, err := CheckPath(arg)
		switch {
		case err == nil:
		case isMissing(err):
			res.Missing = append(res.Missing, arg)
			logging.WarnWithContext(logger, "input path does not exist", "path_missing",
				logging.String("path", arg),
				logging.String(logging.FieldImpact, "argument skipped"),
			)
			continue
		default:
			res.Usage = append(res.Usage, err)
			hint := "use at most one wildcard, in the final path segment"
			if errors.Is(err, services.ErrIO) {
				hint = "check the permissions of the input directory"
			}
			logging.WarnWithContext(logger, "input path rejected", "path_usage",
				logging.String("path", arg),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, hint),
			)
			continue
		}
		for _, file := range files {
			key := file
			if abs, err := filepath.Abs(file); err == nil {
				key = abs
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			res.Files = append(res.Files, file)
		}
	}
	sort.Strings(res.Files)
	return res
}

type missingPathError struct{ path string }

func (e missingPathError) Error() string { return e.path + " does not exist" }

func isMissing(err error) bool {
	var missing missingPathError
	return errors.As(err, &missing)
}

// CheckPath resolves one argument. A literal file yields itself, a literal
// directory yields the .xml files beneath it, and an argument containing a
// wildcard is handed to ManyPath. Blank arguments yield nothing.
func CheckPath(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	if strings.Contains(path, "*") {
		return ManyPath(path)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, missingPathError{path: path}
		}
		return nil, services.Wrap(services.ErrIO, "resolve", "stat", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return walkMatching(path, xmlFile)
}

// ManyPath lists every file below the wildcard's directory prefix whose
// name matches the final segment. A prefix that does not exist, or is not a
// directory, is reported as a missing path.
func ManyPath(path string) ([]string, error) {
	pattern, err := WildcardToRegex(path)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, services.Wrap(services.ErrUsage, "resolve", "compile pattern", path, err)
	}
	dir := ExtractDir(path)
	info, err := os.Stat(filepath.Clean(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, missingPathError{path: path}
		}
		return nil, services.Wrap(services.ErrIO, "resolve", "stat", dir, err)
	}
	if !info.IsDir() {
		return nil, missingPathError{path: path}
	}
	return walkMatching(dir, re)
}

// ExtractDir returns the part of path before the first wildcard segment,
// ending in a separator, or "." when the wildcard is in the first segment.
// Both / and \ separate segments.
func ExtractDir(path string) string {
	var b strings.Builder
	for _, part := range separators.Split(path, -1) {
		if strings.Contains(part, "*") {
			break
		}
		b.WriteString(part)
		b.WriteRune(filepath.Separator)
	}
	if b.Len() == 0 {
		return "."
	}
	return b.String()
}

// WildcardToRegex converts the wildcard segment of path into a regular
// expression matched against file names. "*" matches any run of characters
// and "**" matches every file. A wildcard anywhere but the final segment is
// a usage error.
func WildcardToRegex(path string) (string, error) {
	dir := ExtractDir(path)
	wild := path
	if dir != "." {
		wild = path[len(dir):]
	}

	parts := separators.Split(wild, -1)
	if len(parts) > 1 {
		return "", services.Wrap(services.ErrUsage, "resolve", "wildcard", fmt.Sprintf("too many wildcard segments in %s", path), nil)
	}
	last := parts[len(parts)-1]
	if last == "**" {
		return ".*", nil
	}
	quoted := strings.Split(last, "*")
	for i, piece := range quoted {
		quoted[i] = regexp.QuoteMeta(piece)
	}
	return strings.Join(quoted, ".*"), nil
}

func walkMatching(root string, re *regexp.Regexp) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if re.MatchString(d.Name()) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "resolve", "walk", root, err)
	}
	return files, nil
}
