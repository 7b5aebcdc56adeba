package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jvmabi/internal/metadata"
)

func newMetadataCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Inspect persisted ABI facts",
	}
	dump := &cobra.Command{
		Use:   "dump",
		Short: "Print the records of the metadata file",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			path := v.GetString(keyMetadata)
			if path == "" {
				m, err := findManifest(v.GetString(keyManifest))
				if err != nil {
					return fmt.Errorf("%w: %w", errNoMetadataPath, err)
				}
				path = m.MetadataPath()
			}
			store, found, err := metadata.Load(path, "")
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s: metadata file does not exist", path)
			}
			return dumpMetadata(cmd, store, format)
		},
	}
	dump.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.AddCommand(dump)
	return cmd
}

type metadataRecordJSON struct {
	Property string   `json:"property"`
	Flags    []string `json:"flags"`
}

func dumpMetadata(cmd *cobra.Command, store *metadata.Store, format string) error {
	out := cmd.OutOrStdout()
	records := store.Records()
	switch strings.ToLower(format) {
	case "json":
		payload := struct {
			Module     string               `json:"module"`
			ModuleHash string               `json:"module_hash,omitempty"`
			Records    []metadataRecordJSON `json:"records"`
		}{Module: store.Module(), Records: make([]metadataRecordJSON, 0, len(records))}
		if h := store.ModuleHash(); !h.IsZero() {
			payload.ModuleHash = h.String()
		}
		for _, r := range records {
			payload.Records = append(payload.Records, metadataRecordJSON{Property: string(r.Key), Flags: r.Flags.Strings()})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty":
		hash := "none"
		if h := store.ModuleHash(); !h.IsZero() {
			hash = h.Short()
		}
		fmt.Fprintf(out, "module %s (sources %s), %d record(s)\n", store.Module(), hash, len(records))
		for _, r := range records {
			fmt.Fprintf(out, "  %s %s\n", r.Key, strings.Join(r.Flags.Strings(), ","))
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}
