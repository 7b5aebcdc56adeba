package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"jvmabi/internal/project"
)

const (
	envPrefix    = "JVMABI"
	manifestHint = project.ManifestName

	keyColor          = "color"
	keyQuiet          = "quiet"
	keyTimings        = "timings"
	keyMaxDiagnostics = "max_diagnostics"
	keyManifest       = "manifest"
	keyModule         = "module.name"
	keyMetadata       = "metadata.path"
	keyIntrinsics     = "intrinsics.extra"
	keyJobs           = "plan.jobs"
	keyNoMemo         = "plan.no_memo"
	keyTracePath      = "trace.path"
	keyTraceLevel     = "trace.level"
	keyTraceFormat    = "trace.format"
)

// flagKeys maps persistent flags to config keys; env variables use the key
// with dots replaced, e.g. JVMABI_PLAN_JOBS.
var flagKeys = []struct {
	flag string
	key  string
}{
	{"color", keyColor},
	{"quiet", keyQuiet},
	{"timings", keyTimings},
	{"max-diagnostics", keyMaxDiagnostics},
	{"manifest", keyManifest},
	{"module", keyModule},
	{"metadata", keyMetadata},
	{"intrinsic", keyIntrinsics},
	{"jobs", keyJobs},
	{"no-memo", keyNoMemo},
	{"trace", keyTracePath},
	{"trace-level", keyTraceLevel},
	{"trace-format", keyTraceFormat},
}

func newConfig() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

func bindRootFlags(root *cobra.Command, v *viper.Viper) {
	for _, fk := range flagKeys {
		bindFlagToConfig(v, root.PersistentFlags().Lookup(fk.flag), fk.key)
	}
}

// bindFlagToConfig wires a Cobra flag to a Viper key so env values and
// manifest defaults feed the flag.
func bindFlagToConfig(v *viper.Viper, flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(v.BindPFlag(key, flag))
}

// applyManifestDefaults lets manifest values act as defaults below flags and
// environment.
func applyManifestDefaults(v *viper.Viper, m *project.Manifest) {
	v.SetDefault(keyModule, m.Config.Module.Name)
	v.SetDefault(keyMetadata, m.MetadataPath())
	v.SetDefault(keyIntrinsics, m.Config.Intrinsics.Extra)
	v.SetDefault(keyJobs, m.Config.Plan.Jobs)
	v.SetDefault(keyNoMemo, m.Config.Plan.NoMemo)
}
