package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"qrdaconv/internal/batch"
	"qrdaconv/internal/history"
	"qrdaconv/internal/logging"
	"qrdaconv/internal/preflight"
	"qrdaconv/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var existing bool
	var parallel int

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Convert documents as they are written into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conv, logger, err := ctx.converter()
			if err != nil {
				return err
			}
			if failed := preflight.Failed(preflight.RunAll(cfg)); len(failed) > 0 {
				return preflightError(failed)
			}

			store, err := ctx.openHistory()
			if err != nil {
				logger.Warn("run history unavailable", logging.Error(err))
				store = nil
			}
			if store != nil {
				defer closeHistory(store, logger)
			}

			workers := cfg.Batch.MaxParallel
			if parallel > 0 {
				workers = parallel
			}
			driver := batch.New(conv, workers, logger)
			out := cmd.OutOrStdout()

			w := watch.New(cfg, args[0], driver, conv.Options(), watch.Options{
				ConvertExisting: existing,
				OnRun: func(runCtx context.Context, summary *batch.Summary) {
					for _, rec := range summary.Records {
						fmt.Fprintf(out, "%s %s\n", titleCase(string(rec.Status)), recordLine(rec))
					}
					if store == nil {
						return
					}
					if err := store.RecordSummary(context.WithoutCancel(runCtx), history.OriginWatch, summary, cfg.History.KeepRuns, logger); err != nil {
						logger.Warn("record run history failed", logging.Error(err))
					}
				},
			}, logger)

			fmt.Fprintf(out, "Watching %s for %s\n", args[0], cfg.Watch.Pattern)
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&existing, "existing", false, "Also convert matching files already in the directory")
	cmd.Flags().IntVarP(&parallel, "parallel", "j", 0, "Maximum concurrent conversions (default batch.max_parallel)")
	return cmd
}

func recordLine(rec batch.Record) string {
	if detail := recordDetail(rec); detail != "" && detail != rec.Source {
		return rec.Source + " (" + detail + ")"
	}
	return rec.Source
}
