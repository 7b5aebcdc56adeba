package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jvmabi/internal/diag"
	"jvmabi/internal/plan"
)

func newCheckCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [declaration files...]",
		Short: "Report declaration and placement diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			strict, err := cmd.Flags().GetBool("strict")
			if err != nil {
				return err
			}
			failOnValue, err := cmd.Flags().GetString("fail-on")
			if err != nil {
				return err
			}
			failOn, err := diag.ParseSeverity(failOnValue)
			if err != nil {
				return err
			}
			if strict && failOn > diag.SevWarning {
				failOn = diag.SevWarning
			}
			ctx := cmd.Context()
			ws, err := loadWorkspace(ctx, v, args)
			if err != nil {
				return err
			}
			p, err := plan.Build(ctx, ws.planRequest())
			if err != nil {
				return err
			}
			diags := collectDiagnostics(ws.maxDiags, ws.diags, p.Diagnostics)
			quiet := v.GetBool(keyQuiet)
			printDiagnostics(cmd.OutOrStdout(), diags, quiet)

			errs, warns := summarize(diags)
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d error(s), %d warning(s)\n", ws.graph.Module, errs, warns)
			}
			if ws.showTiming {
				fmt.Fprint(cmd.ErrOrStderr(), ws.timer.Summary())
			}
			for _, d := range diags.Items() {
				if d.Severity >= failOn {
					return errFindings
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("strict", false, "treat warnings as errors (same as --fail-on=warning)")
	cmd.Flags().String("fail-on", "error", "lowest severity that fails the check (info|warning|error)")
	return cmd
}
