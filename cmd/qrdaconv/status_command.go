package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qrdaconv/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and preflight results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reg, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report := newStatusReport(out)

			configMsg := ctx.configPath
			if !ctx.configExists {
				configMsg += " (defaults)"
			}
			report.section("Configuration")
			report.line("Config", statusInfo, configMsg)
			report.line("Parallel workers", statusInfo, fmt.Sprintf("%d", cfg.Batch.MaxParallel))
			report.line("Fail policy", statusInfo, titleCase(cfg.Batch.FailOn))
			report.line("Validation", statusInfo, yesNo(!cfg.Conversion.SkipValidation))
			report.line("Default values", statusInfo, yesNo(!cfg.Conversion.SkipDefaults))
			report.line("Handlers", statusInfo, fmt.Sprintf("%d registered", len(reg.Entries())))
			report.line("History", statusInfo, yesNo(cfg.History.Enabled))

			report.section("Preflight")
			for _, result := range preflight.RunAll(cfg) {
				report.check(result, false)
			}
			report.check(preflight.CheckBindAvailable("API bind", cfg.API.Bind), true)

			fmt.Fprintln(out, report.String())
			return nil
		},
	}
}
