package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"qrdaconv/internal/batch"
	"qrdaconv/internal/config"
	"qrdaconv/internal/convert"
	"qrdaconv/internal/decode"
	"qrdaconv/internal/handlers"
	"qrdaconv/internal/services"
	"qrdaconv/internal/testsupport"
)

func newDriver(t *testing.T, cfg *config.Config) *batch.Driver {
	t.Helper()
	reg, err := handlers.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return batch.New(convert.New(cfg, reg, nil), cfg.Batch.MaxParallel, nil)
}

func TestBatchIsolatesMalformedFile(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithParallel(3))
	dir := filepath.Join(testsupport.BaseDir(cfg), "in")
	paths := testsupport.WriteDocuments(t, dir, testsupport.QRDADocument, 5)
	testsupport.WriteFile(t, paths[2], testsupport.MalformedXML)

	summary, err := newDriver(t, cfg).Run(context.Background(), []string{dir + "/*.xml"}, decode.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Records) != 5 || summary.Converted != 4 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: converted=%d failed=%d records=%d", summary.Converted, summary.Failed, len(summary.Records))
	}

	for i, rec := range summary.Records {
		if rec.Source != paths[i] {
			t.Fatalf("record %d is %s, want %s", i, rec.Source, paths[i])
		}
		output := strings.TrimSuffix(paths[i], ".xml") + ".qpp.json"
		_, statErr := os.Stat(output)
		if i == 2 {
			if rec.Status != batch.StatusFailed || rec.Kind() != "decode" {
				t.Fatalf("expected decode failure for malformed file, got %+v", rec)
			}
			if !errors.Is(statErr, os.ErrNotExist) {
				t.Fatalf("malformed file produced output")
			}
			continue
		}
		if rec.Status != batch.StatusConverted || statErr != nil {
			t.Fatalf("record %d: status %s stat err %v", i, rec.Status, statErr)
		}
	}
	if !summary.FailedUnder(config.FailOnAny) {
		t.Fatal("fail_on=any should fail with one bad file")
	}
	if summary.FailedUnder(config.FailOnAll) || summary.FailedUnder(config.FailOnNever) {
		t.Fatal("fail_on=all and never should pass")
	}
}

func TestBatchReportsMissingAndUsage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	summary, err := newDriver(t, cfg).Run(context.Background(), []string{
		filepath.Join(t.TempDir(), "missing.xml"),
		"a/*/*/*.xml",
	}, decode.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Records) != 0 || len(summary.Missing) != 1 || len(summary.Usage) != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if !summary.FailedUnder(config.FailOnAny) || !summary.FailedUnder(config.FailOnAll) {
		t.Fatal("an empty run should fail")
	}
}

type fakeConverter struct {
	calls atomic.Int32
	fn    func(path string) (convert.Result, error)
}

func (f *fakeConverter) ConvertFile(_ context.Context, path string, _ decode.Options) (convert.Result, error) {
	f.calls.Add(1)
	return f.fn(path)
}

func TestBatchRecoversPanics(t *testing.T) {
	dir := t.TempDir()
	paths := testsupport.WriteDocuments(t, dir, "<x/>", 3)
	conv := &fakeConverter{fn: func(path string) (convert.Result, error) {
		if path == paths[1] {
			panic("handler bug")
		}
		return convert.Result{Source: path, Output: path + ".json"}, nil
	}}

	summary, err := batch.New(conv, 2, nil).Run(context.Background(), []string{dir}, decode.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Converted != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary converted=%d failed=%d", summary.Converted, summary.Failed)
	}
	rec := summary.Records[1]
	if !errors.Is(rec.Err, services.ErrInternal) || !strings.Contains(rec.Err.Error(), "handler bug") {
		t.Fatalf("expected recovered panic, got %v", rec.Err)
	}
}

func TestBatchCancelledBeforeStart(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteDocuments(t, dir, "<x/>", 4)
	conv := &fakeConverter{fn: func(path string) (convert.Result, error) {
		return convert.Result{Source: path}, nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := batch.New(conv, 2, nil).Run(ctx, []string{dir}, decode.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Cancelled != 4 || conv.calls.Load() != 0 {
		t.Fatalf("expected every file cancelled, got cancelled=%d calls=%d", summary.Cancelled, conv.calls.Load())
	}
	for _, rec := range summary.Records {
		if rec.Kind() != "cancelled" {
			t.Fatalf("unexpected kind %q", rec.Kind())
		}
	}
}

func TestDriverStateEndsDone(t *testing.T) {
	conv := &fakeConverter{fn: func(path string) (convert.Result, error) { return convert.Result{}, nil }}
	d := batch.New(conv, 0, nil)
	if d.State() != batch.StateIdle {
		t.Fatalf("initial state %s", d.State())
	}
	summary, err := d.Run(context.Background(), []string{testsupport.WriteFile(t, filepath.Join(t.TempDir(), "a.xml"), "<x/>")}, decode.Options{})
	if err != nil || summary.Converted != 1 {
		t.Fatalf("Run: %v %+v", err, summary)
	}
	if d.State() != batch.StateDone {
		t.Fatalf("state after run %s", d.State())
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
}

func TestBatchBoundsConcurrency(t *testing.T) {
	tests := []struct {
		parallel int
		files    int
	}{
		{parallel: 3, files: 7},
		{parallel: 8, files: 3},
		{parallel: 1, files: 4},
	}
	for _, tt := range tests {
		dir := t.TempDir()
		testsupport.WriteDocuments(t, dir, "<x/>", tt.files)
		want := int32(min(tt.parallel, tt.files))

		var inFlight, peak atomic.Int32
		release := make(chan struct{})
		var once sync.Once
		conv := &fakeConverter{fn: func(path string) (convert.Result, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			if n >= want {
				once.Do(func() { close(release) })
			}
			select {
			case <-release:
			case <-time.After(2 * time.Second):
			}
			return convert.Result{Source: path}, nil
		}}

		summary, err := batch.New(conv, tt.parallel, nil).Run(context.Background(), []string{dir}, decode.Options{})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if summary.Converted != tt.files {
			t.Fatalf("parallel=%d files=%d: converted %d", tt.parallel, tt.files, summary.Converted)
		}
		if got := peak.Load(); got != want {
			t.Fatalf("parallel=%d files=%d: peak in-flight %d, want %d", tt.parallel, tt.files, got, want)
		}
	}
}

func TestBatchRefusesSharedOutputPath(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithOutputDir("out"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	in := filepath.Join(testsupport.BaseDir(cfg), "in")
	first := testsupport.WriteFile(t, filepath.Join(in, "a", "r.xml"), testsupport.QRDADocument)
	second := testsupport.WriteFile(t, filepath.Join(in, "b", "r.xml"), testsupport.QRDADocument)

	summary, err := newDriver(t, cfg).Run(context.Background(), []string{in}, decode.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Converted != 1 || summary.Failed != 1 || len(summary.Records) != 2 {
		t.Fatalf("unexpected summary converted=%d failed=%d", summary.Converted, summary.Failed)
	}
	kept, refused := summary.Records[0], summary.Records[1]
	if kept.Source != first || kept.Status != batch.StatusConverted {
		t.Fatalf("expected %s converted, got %+v", first, kept)
	}
	if refused.Source != second || refused.Kind() != "usage" || !strings.Contains(refused.Err.Error(), first) {
		t.Fatalf("expected %s refused with a usage error naming %s, got %+v", second, first, refused)
	}
	if kept.Output != filepath.Join(cfg.Output.Dir, "r.qpp.json") {
		t.Fatalf("unexpected output %s", kept.Output)
	}
}
