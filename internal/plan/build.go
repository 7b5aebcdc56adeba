package plan

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"jvmabi/internal/abi"
	"jvmabi/internal/decl"
	"jvmabi/internal/diag"
	"jvmabi/internal/observ"
	"jvmabi/internal/pipeline"
	"jvmabi/internal/trace"
)

// Request describes one planning run.
type Request struct {
	Graph      *decl.Graph
	Intrinsics abi.IntrinsicCompanions
	History    abi.MoveHistory
	// Jobs bounds the number of classes planned concurrently; <= 0 uses GOMAXPROCS.
	Jobs           int
	NoMemo         bool
	MaxDiagnostics int
	Progress       pipeline.ProgressSink
	Timer          *observ.Timer
}

// classResult is produced by one worker; indices are unique per goroutine.
type classResult struct {
	classes []ClassPlan
	moved   []decl.FqName
	bag     *diag.Bag
}

// Build plans every declaration of req.Graph. Top-level classes are planned
// in parallel; the output order does not depend on scheduling.
func Build(ctx context.Context, req Request) (*Plan, error) {
	g := req.Graph
	if g == nil {
		return nil, fmt.Errorf("plan: nil declaration graph")
	}
	tracer := trace.FromContext(ctx)
	span := trace.Start(ctx, trace.ScopeStage, "plan")
	phase := req.Timer.Begin("plan")
	started := time.Now()

	resolver := abi.NewResolver(g, req.Intrinsics, req.History, abi.Options{NoMemo: req.NoMemo})
	top := g.TopLevelClasses()
	subjects := make([]string, len(top))
	for i, id := range top {
		subjects[i] = g.Class(id).FqName.String()
		pipeline.Emit(req.Progress, pipeline.Event{Subject: subjects[i], Stage: pipeline.StagePlan, Status: pipeline.StatusQueued})
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]classResult, len(top))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, min(jobs, len(top))))
	for i, id := range top {
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			begin := time.Now()
			pipeline.Emit(req.Progress, pipeline.Event{Subject: subjects[i], Stage: pipeline.StagePlan, Status: pipeline.StatusWorking})
			cspan := trace.Begin(tracer, trace.ScopeClass, "class:"+subjects[i], span.ID())
			w := &worker{
				graph:    g,
				resolver: resolver,
				tracer:   tracer,
				span:     cspan.ID(),
				res:      classResult{bag: diag.NewBag(req.MaxDiagnostics)},
			}
			w.class(id)
			results[i] = w.res
			cspan.WithExtra("classes", strconv.Itoa(len(w.res.classes))).End("")
			status := pipeline.StatusDone
			if w.res.bag.HasErrors() {
				status = pipeline.StatusError
			}
			pipeline.Emit(req.Progress, pipeline.Event{
				Subject: subjects[i],
				Stage:   pipeline.StagePlan,
				Status:  status,
				Elapsed: time.Since(begin),
			})
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		span.End("cancelled")
		req.Timer.End(phase, "cancelled")
		return nil, err
	}

	out := &Plan{
		Module:      g.Module,
		Diagnostics: diag.NewBag(req.MaxDiagnostics),
	}
	for i := range results {
		out.Classes = append(out.Classes, results[i].classes...)
		out.Moved = append(out.Moved, results[i].moved...)
		out.Diagnostics.Merge(results[i].bag)
	}

	top0 := &worker{graph: g, resolver: resolver, tracer: tracer, span: span.ID(), res: classResult{bag: out.Diagnostics}}
	for _, id := range g.TopLevelProperties() {
		out.TopLevel = append(out.TopLevel, top0.property(id, decl.RootFqName))
	}
	for _, id := range g.TypeAliases() {
		out.TypeAliases = append(out.TypeAliases, typeAlias(g.TypeAlias(id)))
	}
	slices.Sort(out.Moved)
	out.Stats = stats(out)
	out.Diagnostics.Sort()
	out.Diagnostics.Dedup()

	elapsed := time.Since(started)
	out.Timings.Set(pipeline.StagePlan, elapsed)
	note := fmt.Sprintf("%d classes, %d properties", out.Stats.Classes, out.Stats.Properties)
	req.Timer.End(phase, note)
	span.WithExtra("outer", strconv.Itoa(out.Stats.OuterFields)).End(note)
	return out, nil
}

type worker struct {
	graph    *decl.Graph
	resolver *abi.Resolver
	tracer   trace.Tracer
	span     uint64
	res      classResult
}

// class plans id, then its companion and nested classes.
func (w *worker) class(id decl.ClassID) {
	c := w.graph.Class(id)
	if c == nil {
		return
	}
	cp := ClassPlan{
		FqName:    c.FqName,
		Kind:      c.Kind.String(),
		Companion: c.Companion,
	}
	var host decl.FqName
	if c.Companion {
		cp.FieldsInOuter = w.resolver.CompanionHasFieldsInOuter(id)
		cp.Intrinsic = w.resolver.IsMappedIntrinsicCompanion(id)
		if cp.FieldsInOuter {
			host = w.graph.Class(c.Outer).FqName
		}
	}
	for _, pid := range c.Properties {
		cp.Properties = append(cp.Properties, w.property(pid, host))
	}
	w.res.classes = append(w.res.classes, cp)
	if c.Companion {
		w.checkCompanion(id, &cp)
	}
	for _, nested := range c.Nested {
		w.class(nested)
	}
}

// property plans one property; outerHost is set when the owner's fields are
// hoisted into its outer class.
func (w *worker) property(id decl.PropertyID, outerHost decl.FqName) PropertyPlan {
	g := w.graph
	p := g.Property(id)
	fq := g.PropertyFqName(id)
	pp := PropertyPlan{
		FqName:    fq,
		Getter:    abi.GetterName(p.Name),
		Placement: w.resolver.Placement(id),
		JvmField:  abi.HasJvmField(p),
	}
	if p.IsVar() {
		pp.Setter = abi.SetterName(p.Name)
	}
	if p.Kind != decl.KindFakeOverride && !p.NoField {
		pp.Field = p.Name
		if p.Delegated {
			pp.Field += abi.DelegatedPropertyNameSuffix
		}
		switch {
		case pp.Placement == abi.PlacementOuter && !outerHost.IsRoot():
			pp.FieldHost = outerHost
		case p.Owner.IsValid():
			pp.FieldHost = g.Class(p.Owner).FqName
		default:
			pp.FieldHost = p.Package
		}
	}
	if needsAnnotationsHolder(p.Annotations) {
		pp.AnnotationsHolder = abi.SyntheticMethodNameForAnnotatedProperty(p.Name)
	}
	if pp.Placement == abi.PlacementOuter && pp.Field != "" {
		switch g.OuterScope(p.Owner).Kind {
		case decl.ScopeInterface, decl.ScopeAnnotationClass:
			pp.Moved = true
			w.res.moved = append(w.res.moved, fq)
		case decl.ScopeOther, decl.ScopeClass, decl.ScopeEnumClass, decl.ScopeCompanion:
		}
	}
	trace.Point(w.tracer, trace.ScopeProperty, fq.String(), pp.Placement.String(), w.span)
	return pp
}

// checkCompanion reports placement findings for one companion object.
func (w *worker) checkCompanion(id decl.ClassID, cp *ClassPlan) {
	g := w.graph
	c := g.Class(id)
	if cp.Intrinsic && len(c.Properties) > 0 {
		w.res.bag.Infof(diag.AbiIntrinsicCompanionState, c.FqName.String(),
			fmt.Sprintf("%d properties of intrinsic companion stay in %s", len(c.Properties), c.Name))
	}
	switch g.OuterScope(id).Kind {
	case decl.ScopeInterface, decl.ScopeAnnotationClass:
	case decl.ScopeOther, decl.ScopeClass, decl.ScopeEnumClass, decl.ScopeCompanion:
		return
	}
	if cp.FieldsInOuter {
		return
	}
	annotated := 0
	for i, pid := range c.Properties {
		if cp.Properties[i].JvmField {
			annotated++
		}
		if w.resolver.MovedFromInterfaceCompanion(pid) {
			w.res.bag.Errorf(diag.AbiMovedFieldRegressed, g.PropertyFqName(pid).String(),
				"backing field was moved to "+g.Class(c.Outer).FqName.String()+" by an earlier compilation but would now stay in the companion")
		}
	}
	if annotated > 0 && !cp.Intrinsic {
		w.res.bag.Add(diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.AbiInterfaceCompanionPartial,
			Subject:  c.FqName.String(),
			Message: fmt.Sprintf("%d of %d properties are @JvmField but every property must be a public final val with @JvmField for fields to move",
				annotated, len(c.Properties)),
		})
	}
}

// needsAnnotationsHolder reports annotations that land on the synthetic
// holder method: property-targeted ones and untargeted ones other than
// the JvmField marker.
func needsAnnotationsHolder(anns decl.Annotations) bool {
	for _, a := range anns {
		switch a.Target {
		case decl.TargetProperty:
			return true
		case decl.TargetNone:
			if a.FqName != abi.JvmFieldAnnotation {
				return true
			}
		case decl.TargetField, decl.TargetGetter, decl.TargetSetter, decl.TargetSetterParam,
			decl.TargetParam, decl.TargetDelegate, decl.TargetReceiver, decl.TargetFile:
		}
	}
	return false
}

func typeAlias(t *decl.TypeAlias) TypeAliasPlan {
	tp := TypeAliasPlan{FqName: t.Package.Child(t.Name)}
	if len(t.Annotations) > 0 {
		tp.AnnotationsHolder = abi.SyntheticMethodNameForAnnotatedTypeAlias(t.Name)
	}
	return tp
}

func stats(p *Plan) Stats {
	var s Stats
	s.Classes = len(p.Classes)
	s.MovedFields = len(p.Moved)
	count := func(pp PropertyPlan) {
		s.Properties++
		if pp.Placement == abi.PlacementOuter {
			s.OuterFields++
		}
		if pp.Field == "" {
			s.NoFieldProps++
		}
	}
	for _, c := range p.Classes {
		for _, pp := range c.Properties {
			count(pp)
		}
	}
	for _, pp := range p.TopLevel {
		count(pp)
	}
	return s
}
