package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"qrdaconv/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or the files of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if store == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (history.enabled = false)")
				return nil
			}
			defer store.Close()

			if len(args) == 1 {
				files, err := store.Files(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, files)
				}
				printRunFiles(cmd, args[0], files)
				return nil
			}

			runs, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, runs)
			}
			printRuns(cmd, runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func printRuns(cmd *cobra.Command, runs []history.Run) {
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			titleCase(run.Origin),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(run.Files),
			strconv.Itoa(run.Converted),
			strconv.Itoa(run.Failed),
			strconv.Itoa(run.Cancelled),
			formatDuration(run.Duration()),
		})
	}
	fmt.Fprintln(out, renderTable([]column{
		{header: "Run"},
		{header: "Origin"},
		{header: "Started"},
		{header: "Files", right: true},
		{header: "Converted", right: true},
		{header: "Failed", right: true},
		{header: "Cancelled", right: true},
		{header: "Time", right: true},
	}, rows))
}

func printRunFiles(cmd *cobra.Command, runID string, files []history.FileOutcome) {
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintf(out, "No files recorded for run %s\n", runID)
		return
	}
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		detail := f.OutputPath
		if f.ErrorMessage != "" {
			detail = titleCase(f.FailureKind) + ": " + f.ErrorMessage
		}
		rows = append(rows, []string{
			filepath.Base(f.SourcePath),
			titleCase(f.Status),
			strconv.Itoa(f.Findings),
			strconv.Itoa(f.FindingErrors),
			formatDuration(f.Duration),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable(fileColumns, rows))
}
