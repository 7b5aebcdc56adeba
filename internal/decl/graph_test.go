package decl

import (
	"errors"
	"testing"
)

func TestBuilderCompanionLinks(t *testing.T) {
	b := NewBuilder("app", 0, 0)
	outer, err := b.AddClass(Class{FqName: "com.example.Config", Kind: ClassKindInterface})
	if err != nil {
		t.Fatalf("AddClass: %v", err)
	}
	comp, err := b.AddCompanion(outer, "")
	if err != nil {
		t.Fatalf("AddCompanion: %v", err)
	}
	prop, err := b.AddProperty(Property{Name: "VERSION", Owner: comp})
	if err != nil {
		t.Fatalf("AddProperty: %v", err)
	}
	g := b.Build()

	if got := g.CompanionOf(outer); got != comp {
		t.Fatalf("CompanionOf = %d, want %d", got, comp)
	}
	if got := g.Class(comp).FqName; got != "com.example.Config.Companion" {
		t.Fatalf("companion FqName = %q", got)
	}
	if got := g.PropertyFqName(prop); got != "com.example.Config.Companion.VERSION" {
		t.Fatalf("PropertyFqName = %q", got)
	}
	if sc := g.ContainingScope(prop); sc.Kind != ScopeCompanion || sc.Class != comp {
		t.Fatalf("ContainingScope = %+v", sc)
	}
	if sc := g.OuterScope(comp); sc.Kind != ScopeInterface {
		t.Fatalf("OuterScope = %v, want interface", sc.Kind)
	}
	if len(g.TopLevelClasses()) != 1 {
		t.Fatalf("expected one top-level class, got %d", len(g.TopLevelClasses()))
	}
}

func TestBuilderRejectsMalformedCompanions(t *testing.T) {
	b := NewBuilder("app", 0, 0)
	if _, err := b.AddCompanion(NoClassID, ""); !errors.Is(err, ErrCompanionWithoutOuter) {
		t.Fatalf("expected ErrCompanionWithoutOuter, got %v", err)
	}
	outer, err := b.AddClass(Class{FqName: "a.B"})
	if err != nil {
		t.Fatalf("AddClass: %v", err)
	}
	if _, err := b.AddCompanion(outer, ""); err != nil {
		t.Fatalf("AddCompanion: %v", err)
	}
	if _, err := b.AddCompanion(outer, "Other"); !errors.Is(err, ErrDuplicateCompanion) {
		t.Fatalf("expected ErrDuplicateCompanion, got %v", err)
	}
	if _, err := b.AddClass(Class{FqName: "a.B"}); !errors.Is(err, ErrDuplicateClass) {
		t.Fatalf("expected ErrDuplicateClass, got %v", err)
	}
	if _, err := b.AddProperty(Property{Name: "x", Owner: ClassID(99)}); !errors.Is(err, ErrUnknownOwner) {
		t.Fatalf("expected ErrUnknownOwner, got %v", err)
	}
}

func TestScopeOfClass(t *testing.T) {
	tests := []struct {
		kind ClassKind
		want ScopeKind
	}{
		{ClassKindClass, ScopeClass},
		{ClassKindEnumClass, ScopeEnumClass},
		{ClassKindInterface, ScopeInterface},
		{ClassKindAnnotationClass, ScopeAnnotationClass},
		{ClassKindObject, ScopeOther},
		{ClassKindEnumEntry, ScopeOther},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			b := NewBuilder("app", 0, 0)
			id, err := b.AddClass(Class{FqName: "p.C", Kind: tt.kind})
			if err != nil {
				t.Fatalf("AddClass: %v", err)
			}
			p, err := b.AddProperty(Property{Name: "v", Owner: id})
			if err != nil {
				t.Fatalf("AddProperty: %v", err)
			}
			g := b.Build()
			if got := g.ContainingScope(p).Kind; got != tt.want {
				t.Fatalf("ContainingScope = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopLevelPropertyIdentity(t *testing.T) {
	b := NewBuilder("app", 0, 0)
	id, err := b.AddProperty(Property{Name: "answer", Package: "com.example"})
	if err != nil {
		t.Fatalf("AddProperty: %v", err)
	}
	g := b.Build()
	if got := g.PropertyFqName(id); got != "com.example.answer" {
		t.Fatalf("PropertyFqName = %q", got)
	}
	if got := g.ContainingScope(id).Kind; got != ScopeOther {
		t.Fatalf("ContainingScope = %v, want other", got)
	}
	if g.Property(NoPropertyID) != nil {
		t.Fatalf("expected nil for NoPropertyID")
	}
}
