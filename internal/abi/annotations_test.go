package abi

import (
	"testing"

	"jvmabi/internal/decl"
)

func TestFindAnnotation(t *testing.T) {
	tests := []struct {
		name string
		anns decl.Annotations
		want Provenance
	}{
		{name: "none", anns: nil, want: ProvenanceNone},
		{name: "direct", anns: decl.Annotations{{FqName: JvmFieldAnnotation}}, want: ProvenanceDirect},
		{name: "field target", anns: decl.Annotations{{FqName: JvmFieldAnnotation, Target: decl.TargetField}}, want: ProvenanceFieldTarget},
		{
			name: "field target wins",
			anns: decl.Annotations{{FqName: JvmFieldAnnotation}, {FqName: JvmFieldAnnotation, Target: decl.TargetField}},
			want: ProvenanceFieldTarget,
		},
		{name: "getter target ignored", anns: decl.Annotations{{FqName: JvmFieldAnnotation, Target: decl.TargetGetter}}, want: ProvenanceNone},
		{name: "other annotation", anns: decl.Annotations{{FqName: "kotlin.Deprecated", Target: decl.TargetField}}, want: ProvenanceNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &decl.Property{Name: "x", Annotations: tt.anns}
			if got := FindAnnotation(p, JvmFieldAnnotation); got != tt.want {
				t.Fatalf("FindAnnotation = %v, want %v", got, tt.want)
			}
			if got := HasJvmField(p); got != (tt.want != ProvenanceNone) {
				t.Fatalf("HasJvmField = %v", got)
			}
		})
	}
}

func TestHasAnnotationOnOtherDeclarations(t *testing.T) {
	alias := &decl.TypeAlias{Name: "Handler", Annotations: decl.Annotations{{FqName: "a.Marker"}}}
	if !HasAnnotation(alias, "a.Marker") {
		t.Fatalf("expected marker on type alias")
	}
	if HasAnnotation(nil, "a.Marker") {
		t.Fatalf("nil declaration must not carry annotations")
	}
	if HasJvmField(nil) {
		t.Fatalf("nil property must not carry JvmField")
	}
}
