package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const apiDecls = `
module = "app"

[[class]]
fqname = "app.Api"
kind = "interface"

  [class.companion]

    [[class.companion.property]]
    name = "VERSION"
    annotations = ["field:kotlin.jvm.JvmField"]

[[class]]
fqname = "app.Svc"

  [[class.property]]
  name = "isReady"
  mutable = true
`

const regressedDecls = `
module = "app"

[[class]]
fqname = "app.Old"
kind = "interface"

  [class.companion]

    [[class.companion.property]]
    name = "X"
    moved_from_interface_companion = true

    [[class.companion.property]]
    name = "y"
    mutable = true
`

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(append([]string{"--color=off"}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

type planOutput struct {
	Module  string   `json:"module"`
	Moved   []string `json:"moved"`
	Classes []struct {
		FqName     string `json:"fqname"`
		Properties []struct {
			FqName    string `json:"fqname"`
			Getter    string `json:"getter"`
			Setter    string `json:"setter"`
			FieldHost string `json:"field_host"`
			Placement string `json:"placement"`
		} `json:"properties"`
	} `json:"classes"`
}

func decodePlan(t *testing.T, out string) planOutput {
	t.Helper()
	var p planOutput
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("invalid plan JSON: %v\n%s", err, out)
	}
	return p
}

func placementOf(p planOutput, fq string) string {
	for _, c := range p.Classes {
		for _, pp := range c.Properties {
			if pp.FqName == fq {
				return pp.Placement
			}
		}
	}
	return ""
}

func TestPlanJSONFromFiles(t *testing.T) {
	file := writeFile(t, filepath.Join(t.TempDir(), "api.toml"), apiDecls)
	out, _, err := runCLI(t, "plan", "--ui=off", "--format=json", file)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	p := decodePlan(t, out)
	if p.Module != "app" {
		t.Fatalf("module = %q, want %q", p.Module, "app")
	}
	if got := placementOf(p, "app.Api.Companion.VERSION"); got != "outer" {
		t.Fatalf("VERSION placement = %q, want outer", got)
	}
	if len(p.Moved) != 1 || p.Moved[0] != "app.Api.Companion.VERSION" {
		t.Fatalf("moved = %v", p.Moved)
	}
	for _, c := range p.Classes {
		if c.FqName == "app.Svc" {
			if c.Properties[0].Getter != "isReady" || c.Properties[0].Setter != "setReady" {
				t.Fatalf("isReady accessors = %+v", c.Properties[0])
			}
		}
	}
}

func TestPlanTableAndPretty(t *testing.T) {
	file := writeFile(t, filepath.Join(t.TempDir(), "api.toml"), apiDecls)
	out, _, err := runCLI(t, "plan", "--ui=off", "--format=table", file)
	if err != nil {
		t.Fatalf("plan table: %v", err)
	}
	if !strings.Contains(out, "app.Api.Companion.VERSION") || !strings.Contains(out, "outer") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	out, _, err = runCLI(t, "plan", "--ui=off", file)
	if err != nil {
		t.Fatalf("plan pretty: %v", err)
	}
	if !strings.Contains(out, "VERSION get=getVERSION field=app.Api#VERSION outer moved") {
		t.Fatalf("unexpected pretty output:\n%s", out)
	}
	if _, _, err := runCLI(t, "plan", "--ui=off", "--format=xml", file); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestCheckReportsRegression(t *testing.T) {
	file := writeFile(t, filepath.Join(t.TempDir(), "old.toml"), regressedDecls)
	out, _, err := runCLI(t, "check", file)
	if !errors.Is(err, errFindings) {
		t.Fatalf("check error = %v, want errFindings", err)
	}
	if !strings.Contains(out, "error[ABI2001] app.Old.Companion.X") {
		t.Fatalf("missing regression diagnostic:\n%s", out)
	}
	if !strings.Contains(out, "app: 1 error(s), 0 warning(s)") {
		t.Fatalf("missing summary:\n%s", out)
	}
}

func TestCheckStrict(t *testing.T) {
	decls := `
[[class]]
fqname = "app.P"
kind = "interface"
  [class.companion]
    [[class.companion.property]]
    name = "A"
    annotations = ["kotlin.jvm.JvmField"]
    [[class.companion.property]]
    name = "b"
`
	file := writeFile(t, filepath.Join(t.TempDir(), "p.toml"), decls)
	if _, _, err := runCLI(t, "check", "--module=app", file); err != nil {
		t.Fatalf("check: %v", err)
	}
	if _, _, err := runCLI(t, "check", "--module=app", "--strict", file); !errors.Is(err, errFindings) {
		t.Fatalf("strict check error = %v, want errFindings", err)
	}
	if _, _, err := runCLI(t, "check", "--module=app", "--fail-on=warning", file); !errors.Is(err, errFindings) {
		t.Fatalf("--fail-on=warning error = %v, want errFindings", err)
	}
	if _, _, err := runCLI(t, "check", "--module=app", "--fail-on=fatal", file); err == nil || errors.Is(err, errFindings) {
		t.Fatalf("unknown --fail-on value must be rejected, got %v", err)
	}
}

func TestManifestRecordKeepsFieldOuter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "jvmabi.toml"), `
[module]
name = "app"
sources = ["decls/*.toml"]

[metadata]
path = ".jvmabi/metadata.mp"
`)
	decls := filepath.Join(dir, "decls", "api.toml")
	writeFile(t, decls, apiDecls)

	if _, _, err := runCLI(t, "--manifest", dir, "--quiet", "plan", "--ui=off", "--record"); err != nil {
		t.Fatalf("plan --record: %v", err)
	}
	out, _, err := runCLI(t, "--manifest", dir, "metadata", "dump", "--format=json")
	if err != nil {
		t.Fatalf("metadata dump: %v", err)
	}
	if !strings.Contains(out, `"property": "app.Api.Companion.VERSION"`) || !strings.Contains(out, "moved_from_interface_companion") {
		t.Fatalf("unexpected dump:\n%s", out)
	}

	// without the marker the recorded move still keeps the field outer
	writeFile(t, decls, strings.Replace(apiDecls, `annotations = ["field:kotlin.jvm.JvmField"]`, "", 1))
	out, _, err = runCLI(t, "--manifest", dir, "plan", "--ui=off", "--format=json")
	if err != nil {
		t.Fatalf("plan after edit: %v", err)
	}
	if got := placementOf(decodePlan(t, out), "app.Api.Companion.VERSION"); got != "outer" {
		t.Fatalf("VERSION placement = %q, want outer", got)
	}
	if !strings.Contains(out, "ABI2004") {
		t.Fatalf("expected stale metadata note in:\n%s", out)
	}
}

func TestRecordWithoutMetadataPath(t *testing.T) {
	file := writeFile(t, filepath.Join(t.TempDir(), "api.toml"), apiDecls)
	_, _, err := runCLI(t, "plan", "--ui=off", "--record", file)
	if !errors.Is(err, errNoMetadataPath) {
		t.Fatalf("error = %v, want errNoMetadataPath", err)
	}
}

func TestNamesJSON(t *testing.T) {
	out, _, err := runCLI(t, "names", "--format=json", "isReady", "island", "url")
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	var rows []mangledName
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	want := []mangledName{
		{Property: "isReady", Getter: "isReady", Setter: "setReady", AnnotationsHolder: "isReady$annotations", IsPrefix: true},
		{Property: "island", Getter: "getIsland", Setter: "setIsland", AnnotationsHolder: "island$annotations"},
		{Property: "url", Getter: "getUrl", Setter: "setUrl", AnnotationsHolder: "url$annotations"},
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
	if _, _, err := runCLI(t, "names"); err == nil {
		t.Fatalf("names without arguments must fail")
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := runCLI(t, "version", "--format=json", "--hash")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Tool != "jvmabi" || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestTraceToFile(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, filepath.Join(dir, "api.toml"), apiDecls)
	tracePath := filepath.Join(dir, "trace.ndjson")
	if _, _, err := runCLI(t, "--trace", tracePath, "--trace-level=detail", "plan", "--ui=off", file); err != nil {
		t.Fatalf("plan: %v", err)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("trace file: %v", err)
	}
	for _, want := range []string{`"name":"load"`, `"name":"plan"`, `"name":"class:app.Api"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("trace missing %s:\n%s", want, data)
		}
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("JVMABI_PLAN_JOBS", "3")
	t.Setenv("JVMABI_PLAN_NO_MEMO", "true")
	v := newConfig()
	if got := v.GetInt(keyJobs); got != 3 {
		t.Fatalf("jobs = %d, want 3", got)
	}
	if !v.GetBool(keyNoMemo) {
		t.Fatalf("no_memo not read from env")
	}
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in   string
		want uiMode
		ok   bool
	}{
		{"", uiModeAuto, true},
		{"ON", uiModeOn, true},
		{"off", uiModeOff, true},
		{"maybe", "", false},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}
