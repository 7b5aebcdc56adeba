package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jvmabi/internal/abi"
	"jvmabi/internal/diag"
	"jvmabi/internal/plan"
)

var (
	outerColor = color.New(color.FgGreen)
	movedColor = color.New(color.FgMagenta)
	classColor = color.New(color.Bold)
)

func newPlanCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [declaration files...]",
		Short: "Show accessor names and backing-field placement",
		Long: `Plan loads declaration files (the manifest sources when no files are given)
and prints the JVM-visible layout of every property.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, v, args)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|table|json)")
	cmd.Flags().Bool("record", false, "persist moved-field facts to the metadata file")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

func runPlan(cmd *cobra.Command, v *viper.Viper, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "table", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, table or json)", format)
	}
	record, err := cmd.Flags().GetBool("record")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	quiet := v.GetBool(keyQuiet)

	ctx := cmd.Context()
	ws, err := loadWorkspace(ctx, v, args)
	if err != nil {
		return err
	}
	req := ws.planRequest()
	var p *plan.Plan
	if !quiet && shouldUseTUI(mode) {
		p, err = runPlanWithUI(ctx, "planning "+ws.graph.Module, topLevelNames(ws), req)
	} else {
		p, err = plan.Build(ctx, req)
	}
	if err != nil {
		return err
	}
	diags := collectDiagnostics(ws.maxDiags, ws.diags, p.Diagnostics)

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		if err := renderPlanJSON(out, p, diags); err != nil {
			return err
		}
	case "table":
		fmt.Fprint(out, renderPlanTable(p))
		printDiagnostics(cmd.ErrOrStderr(), diags, quiet)
	default:
		renderPlanPretty(out, p)
		printDiagnostics(cmd.ErrOrStderr(), diags, quiet)
	}

	if record {
		if diags.HasErrors() {
			return fmt.Errorf("not recording metadata: %w", errFindings)
		}
		changed := p.RecordMoves(ws.store)
		if ws.store.Dirty() {
			if err := ws.saveMetadata(ctx); err != nil {
				return err
			}
		}
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "recorded %d new moved field(s) in %s\n", changed, ws.storePath)
		}
	}
	if ws.showTiming {
		fmt.Fprint(cmd.ErrOrStderr(), ws.timer.Summary())
	}
	if diags.HasErrors() {
		return errFindings
	}
	return nil
}

func (ws *workspace) planRequest() plan.Request {
	return plan.Request{
		Graph:          ws.graph,
		Intrinsics:     ws.registry,
		History:        ws.store,
		Jobs:           ws.jobs,
		NoMemo:         ws.noMemo,
		MaxDiagnostics: ws.maxDiags,
		Timer:          ws.timer,
	}
}

func topLevelNames(ws *workspace) []string {
	top := ws.graph.TopLevelClasses()
	names := make([]string, 0, len(top))
	for _, id := range top {
		names = append(names, ws.graph.Class(id).FqName.String())
	}
	return names
}

func renderPlanPretty(out io.Writer, p *plan.Plan) {
	fmt.Fprintf(out, "module %s: %d classes, %d properties, %d fields in outer classes\n",
		p.Module, p.Stats.Classes, p.Stats.Properties, p.Stats.OuterFields)
	for _, c := range p.Classes {
		header := c.FqName.String() + " [" + c.Kind + "]"
		switch {
		case c.Intrinsic:
			header += " intrinsic companion"
		case c.FieldsInOuter:
			header += " fields in outer"
		}
		fmt.Fprintln(out, classColor.Sprint(header))
		for _, pp := range c.Properties {
			fmt.Fprintf(out, "  %s\n", describeProperty(pp))
		}
	}
	if len(p.TopLevel) > 0 {
		fmt.Fprintln(out, classColor.Sprint("top-level"))
		for _, pp := range p.TopLevel {
			fmt.Fprintf(out, "  %s\n", describeProperty(pp))
		}
	}
	for _, ta := range p.TypeAliases {
		if ta.AnnotationsHolder != "" {
			fmt.Fprintf(out, "typealias %s annotations=%s\n", ta.FqName, ta.AnnotationsHolder)
		}
	}
}

func describeProperty(pp plan.PropertyPlan) string {
	var sb strings.Builder
	sb.WriteString(pp.FqName.ShortName())
	sb.WriteString(" get=" + pp.Getter)
	if pp.Setter != "" {
		sb.WriteString(" set=" + pp.Setter)
	}
	if pp.Field != "" {
		sb.WriteString(" field=" + pp.FieldHost.String() + "#" + pp.Field)
	}
	if pp.AnnotationsHolder != "" {
		sb.WriteString(" annotations=" + pp.AnnotationsHolder)
	}
	switch pp.Placement {
	case abi.PlacementOuter:
		sb.WriteString(" " + outerColor.Sprint("outer"))
	case abi.PlacementNotApplicable:
		sb.WriteString(" (no storage)")
	case abi.PlacementOwner:
	}
	if pp.Moved {
		sb.WriteString(" " + movedColor.Sprint("moved"))
	}
	return sb.String()
}

func renderPlanTable(p *plan.Plan) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Property", "Getter", "Setter", "Field", "Host", "Placement"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	row := func(pp plan.PropertyPlan) {
		table.Append([]string{pp.FqName.String(), pp.Getter, pp.Setter, pp.Field, pp.FieldHost.String(), pp.Placement.String()})
	}
	for _, c := range p.Classes {
		for _, pp := range c.Properties {
			row(pp)
		}
	}
	for _, pp := range p.TopLevel {
		row(pp)
	}
	table.SetFooter([]string{
		fmt.Sprintf("Total %d", p.Stats.Properties), "", "", "",
		"outer", fmt.Sprintf("%d", p.Stats.OuterFields),
	})
	table.Render()
	return buf.String()
}

func renderPlanJSON(out io.Writer, p *plan.Plan, diags *diag.Bag) error {
	payload := struct {
		*plan.Plan
		Diagnostics []diagnosticJSON `json:"diagnostics,omitempty"`
	}{Plan: p, Diagnostics: diagnosticsJSON(diags)}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
