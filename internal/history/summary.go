package history

import (
	"context"
	"log/slog"

	"qrdaconv/internal/batch"
	"qrdaconv/internal/logging"
)

// FromSummary converts a batch summary into the rows Record stores.
func FromSummary(origin string, summary *batch.Summary) (Run, []FileOutcome) {
	run := Run{
		ID:         summary.RunID,
		Origin:     origin,
		StartedAt:  summary.Started,
		FinishedAt: summary.Finished,
		Files:      len(summary.Records),
		Converted:  summary.Converted,
		Failed:     summary.Failed,
		Cancelled:  summary.Cancelled,
	}
	files := make([]FileOutcome, 0, len(summary.Records))
	for _, rec := range summary.Records {
		outcome := FileOutcome{
			RunID:         summary.RunID,
			SourcePath:    rec.Source,
			OutputPath:    rec.Output,
			Status:        string(rec.Status),
			FailureKind:   rec.Kind(),
			Findings:      rec.Findings,
			FindingErrors: rec.Errors,
			Duration:      rec.Duration,
		}
		if rec.Err != nil {
			outcome.ErrorMessage = rec.Err.Error()
		}
		files = append(files, outcome)
	}
	return run, files
}

// RecordSummary stores summary and prunes old runs. Runs that resolved no
// files are not recorded.
func (s *Store) RecordSummary(ctx context.Context, origin string, summary *batch.Summary, keep int, logger *slog.Logger) error {
	if s == nil || summary == nil || len(summary.Records) == 0 {
		return nil
	}
	run, files := FromSummary(origin, summary)
	if err := s.Record(ctx, run, files); err != nil {
		return err
	}
	removed, err := s.Prune(ctx, keep)
	if err != nil {
		return err
	}
	if removed > 0 && logger != nil {
		logger.Debug("pruned run history",
			logging.Int64("removed", removed),
			logging.Int("keep_runs", keep),
		)
	}
	return nil
}
