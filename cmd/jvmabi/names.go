package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"jvmabi/internal/abi"
)

type mangledName struct {
	Property          string `json:"property"`
	Getter            string `json:"getter"`
	Setter            string `json:"setter"`
	AnnotationsHolder string `json:"annotations_holder"`
	IsPrefix          bool   `json:"is_prefix"`
}

func mangle(name string) mangledName {
	return mangledName{
		Property:          name,
		Getter:            abi.GetterName(name),
		Setter:            abi.SetterName(name),
		AnnotationsHolder: abi.SyntheticMethodNameForAnnotatedProperty(name),
		IsPrefix:          abi.StartsWithIsPrefix(name),
	}
}

func newNamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "names <property>...",
		Short: "Print JVM accessor names for property names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			rows := make([]mangledName, 0, len(args))
			for _, name := range args {
				rows = append(rows, mangle(name))
			}
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			case "table":
				fmt.Fprint(cmd.OutOrStdout(), renderNamesTable(rows))
				return nil
			default:
				return fmt.Errorf("unsupported format %q (must be table or json)", format)
			}
		},
	}
	cmd.Flags().String("format", "table", "output format (table|json)")
	return cmd
}

func renderNamesTable(rows []mangledName) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Property", "Getter", "Setter", "Annotations"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)
	for _, r := range rows {
		table.Append([]string{r.Property, r.Getter, r.Setter, r.AnnotationsHolder})
	}
	table.Render()
	return buf.String()
}
