// Package plan computes the JVM-visible layout of a declaration graph:
// accessor names, backing-field names and hosts, annotation holder methods,
// and the facts that must be persisted for later compilations.
package plan

import (
	"jvmabi/internal/abi"
	"jvmabi/internal/decl"
	"jvmabi/internal/diag"
	"jvmabi/internal/metadata"
	"jvmabi/internal/pipeline"
)

// PropertyPlan is the emitted shape of one property.
type PropertyPlan struct {
	FqName            decl.FqName   `json:"fqname"`
	Getter            string        `json:"getter"`
	Setter            string        `json:"setter,omitempty"`
	Field             string        `json:"field,omitempty"`
	FieldHost         decl.FqName   `json:"field_host,omitempty"`
	Placement         abi.Placement `json:"placement"`
	AnnotationsHolder string        `json:"annotations_holder,omitempty"`
	JvmField          bool          `json:"jvm_field,omitempty"`
	// Moved is set when the field leaves an interface companion; such
	// properties are recorded in metadata.
	Moved bool `json:"moved,omitempty"`
}

// ClassPlan groups the properties of one class or object.
type ClassPlan struct {
	FqName        decl.FqName    `json:"fqname"`
	Kind          string         `json:"kind"`
	Companion     bool           `json:"companion,omitempty"`
	FieldsInOuter bool           `json:"fields_in_outer,omitempty"`
	Intrinsic     bool           `json:"intrinsic,omitempty"`
	Properties    []PropertyPlan `json:"properties,omitempty"`
}

// TypeAliasPlan carries the holder method for annotated type aliases.
type TypeAliasPlan struct {
	FqName            decl.FqName `json:"fqname"`
	AnnotationsHolder string      `json:"annotations_holder,omitempty"`
}

// Stats summarises a plan.
type Stats struct {
	Classes      int `json:"classes"`
	Properties   int `json:"properties"`
	OuterFields  int `json:"outer_fields"`
	MovedFields  int `json:"moved_fields"`
	NoFieldProps int `json:"no_field"`
}

// Plan is the result of Build. Classes are ordered by top-level class, each
// followed by its companion and nested classes.
type Plan struct {
	Module      string           `json:"module"`
	Classes     []ClassPlan      `json:"classes"`
	TopLevel    []PropertyPlan   `json:"top_level,omitempty"`
	TypeAliases []TypeAliasPlan  `json:"type_aliases,omitempty"`
	Moved       []decl.FqName    `json:"moved,omitempty"`
	Stats       Stats            `json:"stats"`
	Timings     pipeline.Timings `json:"-"`
	Diagnostics *diag.Bag        `json:"-"`
}

// Property finds a property plan by its fully-qualified name.
func (p *Plan) Property(fq decl.FqName) (PropertyPlan, bool) {
	for i := range p.Classes {
		for _, pp := range p.Classes[i].Properties {
			if pp.FqName == fq {
				return pp, true
			}
		}
	}
	for _, pp := range p.TopLevel {
		if pp.FqName == fq {
			return pp, true
		}
	}
	return PropertyPlan{}, false
}

// Class finds a class plan by its fully-qualified name.
func (p *Plan) Class(fq decl.FqName) (ClassPlan, bool) {
	for _, c := range p.Classes {
		if c.FqName == fq {
			return c, true
		}
	}
	return ClassPlan{}, false
}

// RecordMoves stores the moved-from-interface-companion flag of every moved
// property and reports how many records changed.
func (p *Plan) RecordMoves(store *metadata.Store) int {
	if store == nil {
		return 0
	}
	changed := 0
	for _, fq := range p.Moved {
		if store.Record(fq, metadata.FlagMovedFromInterfaceCompanion) {
			changed++
		}
	}
	return changed
}
