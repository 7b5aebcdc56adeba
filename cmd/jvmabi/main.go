package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jvmabi/internal/version"
)

// errFindings is returned when a command reported error diagnostics; the
// diagnostics themselves are already printed.
var errFindings = errors.New("declarations have errors")

func newRootCmd() *cobra.Command {
	cfg := newConfig()
	var cleanupTrace func()

	root := &cobra.Command{
		Use:           "jvmabi",
		Short:         "JVM ABI naming and companion field placement",
		Long:          `jvmabi computes JVM-visible accessor names and backing-field placement for Kotlin-style declarations`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyColorMode(cfg.GetString(keyColor)); err != nil {
				return err
			}
			cleanup, err := setupTracing(cmd, cfg)
			if err != nil {
				return err
			}
			cleanupTrace = cleanup
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cleanupTrace != nil {
				cleanupTrace()
			}
		},
	}

	// Глобальные флаги
	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("manifest", "", "path to "+manifestHint+" or its directory (default: search upward)")
	flags.String("module", "", "module name when declaration files are given as arguments")
	flags.String("metadata", "", "metadata file with persisted facts")
	flags.StringSlice("intrinsic", nil, "extra intrinsic companion (class or companion FqName, repeatable)")
	flags.IntP("jobs", "j", 0, "max parallel classes (0 = GOMAXPROCS)")
	flags.Bool("no-memo", false, "recompute interface companion decisions on every query")
	flags.String("trace", "", "trace output path (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	bindRootFlags(root, cfg)

	root.AddCommand(newPlanCmd(cfg))
	root.AddCommand(newCheckCmd(cfg))
	root.AddCommand(newNamesCmd())
	root.AddCommand(newMetadataCmd(cfg))
	root.AddCommand(newVersionCmd())
	return root
}

// main builds the CLI and exits with status 1 if the command fails.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		}
		os.Exit(1)
	}
}

func applyColorMode(mode string) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
