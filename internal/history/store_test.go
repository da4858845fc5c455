package history_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"qrdaconv/internal/batch"
	"qrdaconv/internal/history"
	"qrdaconv/internal/services"
	"qrdaconv/internal/testsupport"
)

func TestRecordAndListRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := history.Run{
		ID:         "run-1",
		Origin:     history.OriginCLI,
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Files:      2,
		Converted:  1,
		Failed:     1,
	}
	files := []history.FileOutcome{
		{SourcePath: "/in/b.xml", Status: "failed", FailureKind: "decode", ErrorMessage: "malformed XML"},
		{SourcePath: "/in/a.xml", OutputPath: "/in/a.qpp.json", Status: "converted", Findings: 2, FindingErrors: 1, Duration: 40 * time.Millisecond},
	}
	if err := store.Record(ctx, run, files); err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := store.Runs(ctx, 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-1" || runs[0].Failed != 1 {
		t.Fatalf("unexpected runs %+v", runs)
	}
	if !runs[0].StartedAt.Equal(started) || runs[0].Duration() != 1500*time.Millisecond {
		t.Fatalf("timestamps did not round trip: %+v", runs[0])
	}

	got, err := store.Files(ctx, "run-1")
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(got) != 2 || got[0].SourcePath != "/in/a.xml" {
		t.Fatalf("unexpected files %+v", got)
	}
	if got[0].Duration != 40*time.Millisecond || got[0].FindingErrors != 1 || got[0].FailureKind != "" {
		t.Fatalf("unexpected converted outcome %+v", got[0])
	}
	if got[1].OutputPath != "" || got[1].FailureKind != "decode" {
		t.Fatalf("unexpected failed outcome %+v", got[1])
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := history.Run{
			ID:         fmt.Sprintf("run-%d", i),
			Origin:     history.OriginWatch,
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i) * time.Hour),
		}
		files := []history.FileOutcome{{SourcePath: "/in/x.xml", Status: "converted"}}
		if err := store.Record(ctx, run, files); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	removed, err := store.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 runs removed, got %d", removed)
	}
	runs, err := store.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-4" || runs[1].ID != "run-3" {
		t.Fatalf("unexpected remaining runs %+v", runs)
	}
	if files, _ := store.Files(ctx, "run-0"); len(files) != 0 {
		t.Fatalf("expected cascaded file delete, got %+v", files)
	}
}

func TestRecordSummary(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	now := time.Now()
	summary := &batch.Summary{
		RunID:    "summary-run",
		Started:  now,
		Finished: now.Add(time.Second),
		Records: []batch.Record{
			{Source: "/in/a.xml", Output: "/in/a.qpp.json", Status: batch.StatusConverted, Findings: 1},
			{Source: "/in/b.xml", Status: batch.StatusFailed, Err: services.Wrap(services.ErrDecode, "parse", "read xml", "", errors.New("eof"))},
		},
		Converted: 1,
		Failed:    1,
	}
	if err := store.RecordSummary(ctx, history.OriginCLI, summary, 10, nil); err != nil {
		t.Fatalf("RecordSummary: %v", err)
	}
	if err := store.RecordSummary(ctx, history.OriginCLI, &batch.Summary{RunID: "empty"}, 10, nil); err != nil {
		t.Fatalf("RecordSummary empty: %v", err)
	}

	runs, err := store.Runs(ctx, 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one run, got %+v err=%v", runs, err)
	}
	files, err := store.Files(ctx, "summary-run")
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if files[1].FailureKind != "decode" || files[1].ErrorMessage == "" {
		t.Fatalf("expected decode failure recorded, got %+v", files[1])
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	first, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}
	second := testsupport.MustOpenHistory(t, cfg)
	if second.Path() != cfg.Paths.HistoryDB {
		t.Fatalf("unexpected path %q", second.Path())
	}
}

func TestOpenRefusesOtherSchemaVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	store := testsupport.MustOpenHistory(t, cfg)
	_ = store.Close()

	db, err := sql.Open("sqlite", cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 7"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	_ = db.Close()

	if _, err := history.Open(cfg); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
