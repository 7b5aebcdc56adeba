package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"jvmabi/internal/diag"
)

var (
	sevErrorColor   = color.New(color.FgRed, color.Bold)
	sevWarningColor = color.New(color.FgYellow, color.Bold)
	sevInfoColor    = color.New(color.FgCyan)
	noteColor       = color.New(color.Faint)
)

type diagnosticJSON struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

// collectDiagnostics merges load and plan findings into one sorted bag.
func collectDiagnostics(maxDiags int, bags ...*diag.Bag) *diag.Bag {
	out := diag.NewBag(maxDiags)
	for _, b := range bags {
		out.Merge(b)
	}
	out.Sort()
	out.Dedup()
	return out
}

func printDiagnostics(w io.Writer, bag *diag.Bag, quiet bool) {
	for _, d := range bag.Items() {
		if quiet && d.Severity == diag.SevInfo {
			continue
		}
		fmt.Fprintf(w, "%s[%s] %s: %s\n", severityLabel(d.Severity), d.Code.ID(), d.Subject, d.Message)
		for _, n := range d.Notes {
			fmt.Fprintln(w, noteColor.Sprintf("  note: %s: %s", n.Subject, n.Msg))
		}
	}
}

func severityLabel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return sevErrorColor.Sprint(sev)
	case diag.SevWarning:
		return sevWarningColor.Sprint(sev)
	case diag.SevInfo:
	}
	return sevInfoColor.Sprint(sev)
}

func diagnosticsJSON(bag *diag.Bag) []diagnosticJSON {
	items := bag.Items()
	if len(items) == 0 {
		return nil
	}
	out := make([]diagnosticJSON, 0, len(items))
	for _, d := range items {
		out = append(out, diagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Subject:  d.Subject,
			Message:  d.Message,
		})
	}
	return out
}

func summarize(bag *diag.Bag) (errs, warns int) {
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		case diag.SevInfo:
		}
	}
	return errs, warns
}
