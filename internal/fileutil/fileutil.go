// Package fileutil holds small filesystem helpers shared by the converter
// and the watcher.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temp file next to path and renames it into
// place, so readers see either the old content or the complete new content.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// IsStable reports whether path exists as a regular file and has not
// changed size or modification time since prev. It returns the current info
// for the next comparison.
func IsStable(path string, prev os.FileInfo) (bool, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, nil, err
	}
	if !info.Mode().IsRegular() {
		return false, info, nil
	}
	if prev == nil {
		return false, info, nil
	}
	return info.Size() == prev.Size() && info.ModTime().Equal(prev.ModTime()), info, nil
}
