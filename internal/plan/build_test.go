package plan

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"jvmabi/internal/abi"
	"jvmabi/internal/decl"
	"jvmabi/internal/diag"
	"jvmabi/internal/intrinsics"
	"jvmabi/internal/metadata"
	"jvmabi/internal/observ"
	"jvmabi/internal/pipeline"
)

var (
	jvmField       = decl.Annotations{{FqName: abi.JvmFieldAnnotation, Target: decl.TargetField}}
	propertyMarker = decl.Annotations{{FqName: "app.Marker", Target: decl.TargetProperty}}
)

type fixture struct {
	b *decl.Builder
	t *testing.T
}

func (f fixture) class(fq decl.FqName, kind decl.ClassKind) decl.ClassID {
	f.t.Helper()
	id, err := f.b.AddClass(decl.Class{FqName: fq, Kind: kind})
	if err != nil {
		f.t.Fatalf("AddClass(%s): %v", fq, err)
	}
	return id
}

func (f fixture) companion(outer decl.ClassID) decl.ClassID {
	f.t.Helper()
	id, err := f.b.AddCompanion(outer, "")
	if err != nil {
		f.t.Fatalf("AddCompanion: %v", err)
	}
	return id
}

func (f fixture) prop(p decl.Property) {
	f.t.Helper()
	if _, err := f.b.AddProperty(p); err != nil {
		f.t.Fatalf("AddProperty(%s): %v", p.Name, err)
	}
}

func sampleGraph(t *testing.T) *decl.Graph {
	t.Helper()
	f := fixture{b: decl.NewBuilder("app", 0, 0), t: t}

	api := f.companion(f.class("app.Api", decl.ClassKindInterface))
	f.prop(decl.Property{Name: "VERSION", Owner: api, Annotations: jvmField})

	partial := f.companion(f.class("app.Partial", decl.ClassKindInterface))
	f.prop(decl.Property{Name: "A", Owner: partial, Annotations: jvmField})
	f.prop(decl.Property{Name: "b", Owner: partial})

	svc := f.class("app.Svc", decl.ClassKindClass)
	svcComp := f.companion(svc)
	f.prop(decl.Property{Name: "LIMIT", Owner: svcComp, Const: true})
	f.prop(decl.Property{Name: "counter", Owner: svcComp, Mutability: decl.Var, Delegated: true})
	f.prop(decl.Property{Name: "isReady", Owner: svc, Mutability: decl.Var, Annotations: propertyMarker})
	f.prop(decl.Property{Name: "size", Owner: svc, NoField: true})
	f.prop(decl.Property{Name: "hashCode", Owner: svc, Kind: decl.KindFakeOverride})

	intComp := f.companion(f.class("kotlin.Int", decl.ClassKindClass))
	f.prop(decl.Property{Name: "MAX_VALUE", Owner: intComp, Const: true})

	old := f.companion(f.class("app.Old", decl.ClassKindInterface))
	f.prop(decl.Property{Name: "X", Owner: old, Persisted: &decl.PersistedFacts{MovedFromInterfaceCompanion: true}})
	f.prop(decl.Property{Name: "y", Owner: old, Mutability: decl.Var})

	f.prop(decl.Property{Name: "total", Package: "app", Delegated: true})
	if _, err := f.b.AddTypeAlias(decl.TypeAlias{Name: "Handler", Package: "app", Annotations: propertyMarker}); err != nil {
		t.Fatalf("AddTypeAlias: %v", err)
	}
	if _, err := f.b.AddTypeAlias(decl.TypeAlias{Name: "Plain", Package: "app"}); err != nil {
		t.Fatalf("AddTypeAlias: %v", err)
	}
	return f.b.Build()
}

func buildSample(t *testing.T, req Request) *Plan {
	t.Helper()
	if req.Graph == nil {
		req.Graph = sampleGraph(t)
	}
	if req.Intrinsics == nil {
		req.Intrinsics = intrinsics.Default()
	}
	p, err := Build(context.Background(), req)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

func TestBuildPropertyPlans(t *testing.T) {
	p := buildSample(t, Request{})
	tests := []struct {
		fq   decl.FqName
		want PropertyPlan
	}{
		{"app.Api.Companion.VERSION", PropertyPlan{
			Getter: "getVERSION", Field: "VERSION", FieldHost: "app.Api",
			Placement: abi.PlacementOuter, JvmField: true, Moved: true,
		}},
		{"app.Partial.Companion.A", PropertyPlan{
			Getter: "getA", Field: "A", FieldHost: "app.Partial.Companion",
			Placement: abi.PlacementOwner, JvmField: true,
		}},
		{"app.Svc.Companion.counter", PropertyPlan{
			Getter: "getCounter", Setter: "setCounter", Field: "counter$delegate", FieldHost: "app.Svc",
			Placement: abi.PlacementOuter,
		}},
		{"app.Svc.isReady", PropertyPlan{
			Getter: "isReady", Setter: "setReady", Field: "isReady", FieldHost: "app.Svc",
			Placement: abi.PlacementOwner, AnnotationsHolder: "isReady$annotations",
		}},
		{"app.Svc.size", PropertyPlan{Getter: "getSize", Placement: abi.PlacementOwner}},
		{"app.Svc.hashCode", PropertyPlan{Getter: "getHashCode", Placement: abi.PlacementNotApplicable}},
		{"kotlin.Int.Companion.MAX_VALUE", PropertyPlan{
			Getter: "getMAX_VALUE", Field: "MAX_VALUE", FieldHost: "kotlin.Int.Companion",
			Placement: abi.PlacementOwner,
		}},
		{"app.total", PropertyPlan{
			Getter: "getTotal", Field: "total$delegate", FieldHost: "app", Placement: abi.PlacementOwner,
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.fq), func(t *testing.T) {
			got, ok := p.Property(tt.fq)
			if !ok {
				t.Fatalf("property %s not planned", tt.fq)
			}
			tt.want.FqName = tt.fq
			if got != tt.want {
				t.Fatalf("plan = %+v\nwant  %+v", got, tt.want)
			}
		})
	}
}

func TestBuildClassesAndAliases(t *testing.T) {
	p := buildSample(t, Request{})
	comp, ok := p.Class("app.Api.Companion")
	if !ok || !comp.Companion || !comp.FieldsInOuter {
		t.Fatalf("app.Api.Companion = %+v", comp)
	}
	intComp, _ := p.Class("kotlin.Int.Companion")
	if !intComp.Intrinsic || intComp.FieldsInOuter {
		t.Fatalf("kotlin.Int.Companion = %+v", intComp)
	}
	if p.Classes[0].FqName != "app.Api" || p.Classes[1].FqName != "app.Api.Companion" {
		t.Fatalf("unexpected class order: %s, %s", p.Classes[0].FqName, p.Classes[1].FqName)
	}
	wantAliases := []TypeAliasPlan{
		{FqName: "app.Handler", AnnotationsHolder: "Handler$annotations"},
		{FqName: "app.Plain"},
	}
	if !reflect.DeepEqual(p.TypeAliases, wantAliases) {
		t.Fatalf("TypeAliases = %+v, want %+v", p.TypeAliases, wantAliases)
	}
	if !reflect.DeepEqual(p.Moved, []decl.FqName{"app.Api.Companion.VERSION"}) {
		t.Fatalf("Moved = %v", p.Moved)
	}
	if p.Stats.OuterFields != 3 || p.Stats.MovedFields != 1 || p.Stats.NoFieldProps != 2 {
		t.Fatalf("Stats = %+v", p.Stats)
	}
}

func TestBuildDiagnostics(t *testing.T) {
	p := buildSample(t, Request{})
	type key struct {
		code    diag.Code
		subject string
	}
	got := make(map[key]diag.Severity)
	for _, d := range p.Diagnostics.Items() {
		got[key{d.Code, d.Subject}] = d.Severity
	}
	want := map[key]diag.Severity{
		{diag.AbiMovedFieldRegressed, "app.Old.Companion.X"}:        diag.SevError,
		{diag.AbiInterfaceCompanionPartial, "app.Partial.Companion"}: diag.SevWarning,
		{diag.AbiIntrinsicCompanionState, "kotlin.Int.Companion"}:    diag.SevInfo,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("diagnostics = %v, want %v", got, want)
	}
}

func TestBuildDeterministic(t *testing.T) {
	g := sampleGraph(t)
	base := buildSample(t, Request{Graph: g, Jobs: 1})
	for _, req := range []Request{
		{Graph: g, Jobs: 8},
		{Graph: g, Jobs: 3, NoMemo: true},
	} {
		p := buildSample(t, req)
		if !reflect.DeepEqual(p.Classes, base.Classes) || !reflect.DeepEqual(p.Moved, base.Moved) {
			t.Fatalf("plan with jobs=%d nomemo=%v differs from sequential plan", req.Jobs, req.NoMemo)
		}
		if !reflect.DeepEqual(p.Diagnostics.Items(), base.Diagnostics.Items()) {
			t.Fatalf("diagnostics differ for jobs=%d", req.Jobs)
		}
	}
}

func TestBuildHistoryKeepsFieldsOuter(t *testing.T) {
	f := fixture{b: decl.NewBuilder("app", 0, 0), t: t}
	comp := f.companion(f.class("app.Api", decl.ClassKindInterface))
	f.prop(decl.Property{Name: "VERSION", Owner: comp})
	g := f.b.Build()

	store := metadata.NewStore("app")
	p := buildSample(t, Request{Graph: g, History: store})
	if got, _ := p.Property("app.Api.Companion.VERSION"); got.Placement != abi.PlacementOwner {
		t.Fatalf("without history the field must stay, got %v", got.Placement)
	}

	store.Record("app.Api.Companion.VERSION", metadata.FlagMovedFromInterfaceCompanion)
	p = buildSample(t, Request{Graph: g, History: store})
	if got, _ := p.Property("app.Api.Companion.VERSION"); got.Placement != abi.PlacementOuter {
		t.Fatalf("recorded move must keep the field outer, got %v", got.Placement)
	}
	if p.Diagnostics.HasErrors() {
		t.Fatalf("unexpected errors: %+v", p.Diagnostics.Items())
	}
}

func TestBuildMovesOnlyStoredFields(t *testing.T) {
	f := fixture{b: decl.NewBuilder("app", 0, 0), t: t}
	comp := f.companion(f.class("app.Api", decl.ClassKindInterface))
	f.prop(decl.Property{Name: "VERSION", Owner: comp, Annotations: jvmField})
	f.prop(decl.Property{Name: "computed", Owner: comp, Annotations: jvmField, NoField: true})
	g := f.b.Build()

	p := buildSample(t, Request{Graph: g})
	computed, _ := p.Property("app.Api.Companion.computed")
	if computed.Placement != abi.PlacementOuter || computed.Field != "" || computed.Moved {
		t.Fatalf("computed = %+v", computed)
	}
	if !reflect.DeepEqual(p.Moved, []decl.FqName{"app.Api.Companion.VERSION"}) {
		t.Fatalf("Moved = %v", p.Moved)
	}
	store := metadata.NewStore("app")
	if n := p.RecordMoves(store); n != 1 {
		t.Fatalf("RecordMoves = %d, want 1", n)
	}
	if store.MovedFromInterfaceCompanion("app.Api.Companion.computed") {
		t.Fatalf("property without a backing field must not be recorded")
	}
}

func TestBuildIntrinsicInterfaceCompanion(t *testing.T) {
	f := fixture{b: decl.NewBuilder("app", 0, 0), t: t}
	comp := f.companion(f.class("app.Api", decl.ClassKindInterface))
	f.prop(decl.Property{Name: "VERSION", Owner: comp, Annotations: jvmField})
	g := f.b.Build()

	p := buildSample(t, Request{Graph: g, Intrinsics: intrinsics.New([]string{"app.Api"})})
	cp, _ := p.Class("app.Api.Companion")
	if !cp.Intrinsic || cp.FieldsInOuter {
		t.Fatalf("app.Api.Companion = %+v", cp)
	}
	version, _ := p.Property("app.Api.Companion.VERSION")
	if version.Placement != abi.PlacementOwner || version.FieldHost != "app.Api.Companion" || version.Moved {
		t.Fatalf("VERSION = %+v", version)
	}
	if len(p.Moved) != 0 {
		t.Fatalf("Moved = %v, want none", p.Moved)
	}
	items := p.Diagnostics.Items()
	if len(items) != 1 || items[0].Code != diag.AbiIntrinsicCompanionState {
		t.Fatalf("diagnostics = %+v", items)
	}
}

func TestRecordMoves(t *testing.T) {
	p := buildSample(t, Request{})
	store := metadata.NewStore("app")
	if n := p.RecordMoves(store); n != 1 {
		t.Fatalf("RecordMoves = %d, want 1", n)
	}
	if n := p.RecordMoves(store); n != 0 {
		t.Fatalf("second RecordMoves = %d, want 0", n)
	}
	if !store.MovedFromInterfaceCompanion("app.Api.Companion.VERSION") {
		t.Fatalf("store lost the moved flag")
	}
	if p.RecordMoves(nil) != 0 {
		t.Fatalf("nil store must record nothing")
	}
}

func TestBuildProgressAndTimer(t *testing.T) {
	events := make(chan pipeline.Event, 64)
	timer := observ.NewTimer()
	p := buildSample(t, Request{Progress: pipeline.ChannelSink{Ch: events}, Timer: timer})
	close(events)

	finished := 0
	for ev := range events {
		if ev.Status == pipeline.StatusDone || ev.Status == pipeline.StatusError {
			finished++
		}
	}
	if finished != 5 {
		t.Fatalf("finished events = %d, want 5", finished)
	}
	if !p.Timings.Has(pipeline.StagePlan) {
		t.Fatalf("plan stage timing missing")
	}
	if r := timer.Report(); len(r.Phases) != 1 || r.Phases[0].Name != "plan" {
		t.Fatalf("timer report = %+v", r)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, Request{Graph: sampleGraph(t)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Build error = %v, want context.Canceled", err)
	}
	if _, err := Build(context.Background(), Request{}); err == nil {
		t.Fatalf("expected error for nil graph")
	}
}
