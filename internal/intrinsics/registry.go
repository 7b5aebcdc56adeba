// Package intrinsics knows which companion objects the compiler maps onto
// built-in platform types. Such companions must not gain backing fields in
// their outer class.
package intrinsics

import (
	"slices"
	"strings"

	"jvmabi/internal/decl"
)

const companionName = "Companion"

// builtinClasses are the standard types whose companions are intrinsic.
var builtinClasses = []decl.FqName{
	"kotlin.Char",
	"kotlin.Byte",
	"kotlin.Short",
	"kotlin.Int",
	"kotlin.Long",
	"kotlin.Float",
	"kotlin.Double",
	"kotlin.String",
	"kotlin.Enum",
}

// Registry is a read-only set of intrinsic companion objects. Entries name
// either a companion or the class owning it.
type Registry struct {
	names map[decl.FqName]struct{}
}

// Default returns the registry of built-in mappings.
func Default() *Registry {
	return New(nil)
}

// New returns the built-in mappings plus extra names. An extra may name the
// companion itself ("a.B.Companion", "a.B.Factory") or its class ("a.B").
func New(extra []string) *Registry {
	r := &Registry{names: make(map[decl.FqName]struct{}, len(builtinClasses)+len(extra))}
	for _, cls := range builtinClasses {
		r.names[cls.Child(companionName)] = struct{}{}
	}
	for _, e := range extra {
		if e = strings.TrimSpace(e); e != "" {
			r.names[decl.FqName(e)] = struct{}{}
		}
	}
	return r
}

// IsMappedIntrinsicCompanion reports whether the companion, or the class
// that owns it, is registered.
func (r *Registry) IsMappedIntrinsicCompanion(companion decl.FqName) bool {
	if r == nil || companion.IsRoot() {
		return false
	}
	if _, ok := r.names[companion]; ok {
		return true
	}
	_, ok := r.names[companion.Parent()]
	return ok
}

// Names returns the sorted registered names.
func (r *Registry) Names() []decl.FqName {
	if r == nil {
		return nil
	}
	out := make([]decl.FqName, 0, len(r.names))
	for fq := range r.names {
		out = append(out, fq)
	}
	slices.Sort(out)
	return out
}
