package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"qrdaconv/internal/batch"
	"qrdaconv/internal/history"
	"qrdaconv/internal/logging"
	"qrdaconv/internal/preflight"
)

var errRunFailed = errors.New("conversion run failed")

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var skipValidation bool
	var skipDefaults bool
	var parallel int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "convert <path>...",
		Short: "Convert QRDA-III files, directories, or wildcard paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conv, logger, err := ctx.converter()
			if err != nil {
				return err
			}
			if failed := preflight.Failed(preflight.RunAll(cfg)); len(failed) > 0 {
				return preflightError(failed)
			}

			opts := conv.Options()
			if cmd.Flags().Changed("skip-validation") {
				opts.SkipValidation = skipValidation
			}
			if cmd.Flags().Changed("skip-defaults") {
				opts.SkipDefaults = skipDefaults
			}
			workers := cfg.Batch.MaxParallel
			if parallel > 0 {
				workers = parallel
			}

			driver := batch.New(conv, workers, logger)
			summary, err := driver.Run(cmd.Context(), args, opts)
			if err != nil {
				return err
			}

			store, err := ctx.openHistory()
			if err != nil {
				logger.Warn("run history unavailable", logging.Error(err))
			} else if store != nil {
				if err := store.RecordSummary(cmd.Context(), history.OriginCLI, summary, cfg.History.KeepRuns, logger); err != nil {
					logger.Warn("record run history failed", logging.Error(err))
				}
				closeHistory(store, logger)
			}

			if asJSON {
				if err := writeJSON(cmd, summaryJSON(summary)); err != nil {
					return err
				}
			} else {
				printSummary(cmd, summary)
			}

			if summary.FailedUnder(cfg.Batch.FailOn) {
				return fmt.Errorf("%w: %d converted, %d failed, %d cancelled", errRunFailed, summary.Converted, summary.Failed, summary.Cancelled)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "Do not collect validation findings")
	cmd.Flags().BoolVar(&skipDefaults, "skip-defaults", false, "Do not inject default values for missing fields")
	cmd.Flags().IntVarP(&parallel, "parallel", "j", 0, "Maximum concurrent conversions (default batch.max_parallel)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run summary as JSON")
	return cmd
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, r.Name+": "+r.Detail)
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
}

func printSummary(cmd *cobra.Command, summary *batch.Summary) {
	out := cmd.OutOrStdout()
	if len(summary.Records) > 0 {
		rows := make([][]string, 0, len(summary.Records))
		for _, rec := range summary.Records {
			rows = append(rows, []string{
				filepath.Base(rec.Source),
				titleCase(string(rec.Status)),
				strconv.Itoa(rec.Findings),
				strconv.Itoa(rec.Errors),
				formatDuration(rec.Duration),
				recordDetail(rec),
			})
		}
		fmt.Fprintln(out, renderTable(fileColumns, rows))
	}
	for _, missing := range summary.Missing {
		fmt.Fprintf(out, "Missing: %s\n", missing)
	}
	for _, usage := range summary.Usage {
		fmt.Fprintf(out, "Invalid path: %v\n", usage)
	}
	fmt.Fprintf(out, "Converted %d, failed %d, cancelled %d (run %s)\n",
		summary.Converted, summary.Failed, summary.Cancelled, summary.RunID)
}

func recordDetail(rec batch.Record) string {
	switch {
	case rec.Err != nil:
		return titleCase(rec.Kind()) + ": " + rec.Err.Error()
	case rec.Output != "":
		return rec.Output
	default:
		return ""
	}
}

type recordJSON struct {
	Source       string `json:"source"`
	Output       string `json:"output,omitempty"`
	FindingsPath string `json:"findingsPath,omitempty"`
	Status       string `json:"status"`
	Findings     int    `json:"findings"`
	Errors       int    `json:"errors"`
	FailureKind  string `json:"failureKind,omitempty"`
	Error        string `json:"error,omitempty"`
	DurationMS   int64  `json:"durationMs"`
}

type runJSON struct {
	RunID     string       `json:"runId"`
	Started   time.Time    `json:"started"`
	Finished  time.Time    `json:"finished"`
	Converted int          `json:"converted"`
	Failed    int          `json:"failed"`
	Cancelled int          `json:"cancelled"`
	Missing   []string     `json:"missing,omitempty"`
	Usage     []string     `json:"usage,omitempty"`
	Files     []recordJSON `json:"files"`
}

func summaryJSON(summary *batch.Summary) runJSON {
	out := runJSON{
		RunID:     summary.RunID,
		Started:   summary.Started,
		Finished:  summary.Finished,
		Converted: summary.Converted,
		Failed:    summary.Failed,
		Cancelled: summary.Cancelled,
		Missing:   summary.Missing,
		Files:     make([]recordJSON, 0, len(summary.Records)),
	}
	for _, usage := range summary.Usage {
		out.Usage = append(out.Usage, usage.Error())
	}
	for _, rec := range summary.Records {
		item := recordJSON{
			Source:       rec.Source,
			Output:       rec.Output,
			FindingsPath: rec.FindingsPath,
			Status:       string(rec.Status),
			Findings:     rec.Findings,
			Errors:       rec.Errors,
			DurationMS:   rec.Duration.Milliseconds(),
		}
		if rec.Err != nil {
			item.FailureKind = rec.Kind()
			item.Error = rec.Err.Error()
		}
		out.Files = append(out.Files, item)
	}
	return out
}
