package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"qrdaconv/internal/batch"
	"qrdaconv/internal/convert"
	"qrdaconv/internal/decode"
	"qrdaconv/internal/handlers"
	"qrdaconv/internal/testsupport"
	"qrdaconv/internal/watch"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestWatcherConvertsNewFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := filepath.Join(testsupport.BaseDir(cfg), "inbox")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	reg, err := handlers.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	driver := batch.New(convert.New(cfg, reg, nil), 2, nil)

	var (
		mu   sync.Mutex
		runs []*batch.Summary
	)
	w := watch.New(cfg, dir, driver, decode.Options{}, watch.Options{
		OnRun: func(_ context.Context, s *batch.Summary) {
			mu.Lock()
			runs = append(runs, s)
			mu.Unlock()
		},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	testsupport.WriteFile(t, filepath.Join(dir, "ignored.txt"), "not xml")
	testsupport.WriteFile(t, filepath.Join(dir, "report.xml"), testsupport.QRDADocument)

	output := filepath.Join(dir, "report.qpp.json")
	waitFor(t, 5*time.Second, func() bool {
		_, err := os.Stat(output)
		return err == nil
	})
	if got := testsupport.ReadFile(t, output); got != testsupport.QRDADocumentJSON {
		t.Fatalf("unexpected output:\n%s", got)
	}
	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(runs) > 0
	})
	mu.Lock()
	first := runs[0]
	mu.Unlock()
	if first.Converted != 1 || first.Records[0].Source != filepath.Join(dir, "report.xml") {
		t.Fatalf("unexpected run %+v", first)
	}
}

func TestWatcherConvertsExistingFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := filepath.Join(testsupport.BaseDir(cfg), "inbox")
	testsupport.WriteFile(t, filepath.Join(dir, "old.xml"), testsupport.QRDADocument)
	reg, err := handlers.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	w := watch.New(cfg, dir, batch.New(convert.New(cfg, reg, nil), 1, nil), decode.Options{}, watch.Options{ConvertExisting: true}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor(t, 5*time.Second, func() bool {
		_, err := os.Stat(filepath.Join(dir, "old.qpp.json"))
		return err == nil
	})
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestWatcherRefusesSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	held := flock.New(cfg.Paths.LockPath)
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	w := watch.New(cfg, t.TempDir(), nil, decode.Options{}, watch.Options{}, nil)
	if err := w.Run(context.Background()); !errors.Is(err, watch.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestWatcherRejectsMissingDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	w := watch.New(cfg, filepath.Join(t.TempDir(), "missing"), nil, decode.Options{}, watch.Options{}, nil)
	if err := w.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
