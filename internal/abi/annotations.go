package abi

import "jvmabi/internal/decl"

// Provenance tells where a marker annotation was found.
type Provenance uint8

const (
	ProvenanceNone Provenance = iota
	// ProvenanceFieldTarget means "@field:X" on the declaration.
	ProvenanceFieldTarget
	// ProvenanceDirect means "@X" without a use-site target.
	ProvenanceDirect
)

func (p Provenance) String() string {
	switch p {
	case ProvenanceFieldTarget:
		return "field-target"
	case ProvenanceDirect:
		return "direct"
	default:
		return "none"
	}
}

// FindAnnotation looks for fq on d. Field-targeted annotations are checked
// before the general annotation set.
func FindAnnotation(d decl.Declaration, fq decl.FqName) Provenance {
	if d == nil {
		return ProvenanceNone
	}
	anns := d.DeclAnnotations()
	for _, a := range anns.UseSiteTargeted() {
		if a.Target == decl.TargetField && a.FqName == fq {
			return ProvenanceFieldTarget
		}
	}
	if anns.HasAnnotation(fq) {
		return ProvenanceDirect
	}
	return ProvenanceNone
}

// HasAnnotation reports fq either directly or with the field: target.
func HasAnnotation(d decl.Declaration, fq decl.FqName) bool {
	return FindAnnotation(d, fq) != ProvenanceNone
}

// HasJvmField reports the JvmField marker on a property.
func HasJvmField(p *decl.Property) bool {
	if p == nil {
		return false
	}
	return HasAnnotation(p, JvmFieldAnnotation)
}
