package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteDocuments writes count copies of content into dir as doc-NN.xml and
// returns their paths in order.
func WriteDocuments(t testing.TB, dir, content string, count int) []string {
	t.Helper()

	paths := make([]string, 0, count)
	for i := 0; i < count; i++ {
		name := filepath.Join(dir, "doc-"+twoDigits(i)+".xml")
		paths = append(paths, WriteFile(t, name, content))
	}
	return paths
}

// ReadFile returns the content at path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func twoDigits(i int) string {
	return string([]byte{byte('0' + (i/10)%10), byte('0' + i%10)})
}
