package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"off", LevelOff, true},
		{"PHASE", LevelPhase, true},
		{"detail", LevelDetail, true},
		{"debug", LevelDebug, true},
		{"verbose", LevelOff, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, ok=%v", tt.in, got, err, tt.want, tt.ok)
		}
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopeStage) || LevelPhase.ShouldEmit(ScopeClass) {
		t.Fatalf("phase level must stop at stage scope")
	}
	if !LevelDetail.ShouldEmit(ScopeClass) || LevelDetail.ShouldEmit(ScopeProperty) {
		t.Fatalf("detail level must stop at class scope")
	}
	if !LevelDebug.ShouldEmit(ScopeProperty) {
		t.Fatalf("debug level must emit property scope")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	span := Begin(tr, ScopeStage, "plan", 0)
	Begin(tr, ScopeProperty, "hidden", span.ID()).End("")
	span.WithExtra("classes", "2").End("ok")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("property span leaked at detail level:\n%s", out)
	}
	if !strings.Contains(out, "→ plan") || !strings.Contains(out, "← plan (ok) {classes=2}") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeProperty, "placement", "outer", 0)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid NDJSON %q: %v", buf.String(), err)
	}
	if got["name"] != "placement" || got["scope"] != "property" || got["kind"] != "point" {
		t.Fatalf("event = %v", got)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer is enabled")
	}
	if s := Begin(tr, ScopeDriver, "x", 0); s.End("") != 0 {
		t.Fatalf("nop span reported a duration")
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trace.ndjson")
	tr, err := New(Config{Level: LevelPhase, OutputPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopeDriver, "plan", 0).End("")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", lines, data)
	}
	if !strings.HasPrefix(string(data), "{") {
		t.Fatalf("expected NDJSON output, got %q", data)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatalf("tracer not propagated")
	}
	root := Begin(tr, ScopeDriver, "root", 0)
	ctx = WithSpan(ctx, root)
	child := Start(ctx, ScopeStage, "plan")
	if child.ID() == 0 || child.parentID != root.ID() {
		t.Fatalf("child parent = %d, want %d", child.parentID, root.ID())
	}
	if FromContext(WithTracer(ctx, nil)) != Nop {
		t.Fatalf("nil tracer must become Nop")
	}
	if Start(WithTracer(ctx, nil), ScopeStage, "off").ID() != 0 {
		t.Fatalf("span under Nop must be inert")
	}
}
