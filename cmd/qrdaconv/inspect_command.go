package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var skipDefaults bool
	var dump bool
	var dumpDepth int

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the decoded node graph and findings of one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conv, _, err := ctx.converter()
			if err != nil {
				return err
			}
			opts := conv.Options()
			opts.SkipValidation = false
			if cmd.Flags().Changed("skip-defaults") {
				opts.SkipDefaults = skipDefaults
			}

			root, findings, err := conv.Inspect(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dump {
				cfg := spew.ConfigState{
					Indent:                  "  ",
					DisableMethods:          true,
					MaxDepth:                dumpDepth,
					DisablePointerAddresses: true,
					DisableCapacities:       true,
					SortKeys:                true,
				}
				cfg.Fdump(out, root)
			} else {
				fmt.Fprint(out, root.String())
			}

			if len(findings) == 0 {
				fmt.Fprintln(out, "No findings")
				return nil
			}
			fmt.Fprintf(out, "%d finding(s):\n", len(findings))
			for _, f := range findings {
				fmt.Fprintf(out, "  %s\n", f.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipDefaults, "skip-defaults", false, "Do not inject default values for missing fields")
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the node structures instead of the outline")
	cmd.Flags().IntVar(&dumpDepth, "dump-depth", 8, "Maximum nesting depth for --dump")
	return cmd
}
