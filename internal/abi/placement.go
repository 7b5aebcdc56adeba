package abi

import (
	"sync"

	"jvmabi/internal/decl"
)

// IntrinsicCompanions answers whether a companion object is one of the
// compiler's built-in mappings onto platform types.
type IntrinsicCompanions interface {
	IsMappedIntrinsicCompanion(companion decl.FqName) bool
}

// MoveHistory answers whether a property was already compiled with its
// backing field moved out of an interface companion.
type MoveHistory interface {
	MovedFromInterfaceCompanion(property decl.FqName) bool
}

// Placement is the three-valued form of the backing-field decision.
type Placement uint8

const (
	// PlacementNotApplicable is reported for members that introduce no storage.
	PlacementNotApplicable Placement = iota
	// PlacementOwner keeps the field in the declaring class or object.
	PlacementOwner
	// PlacementOuter hoists the field into the class enclosing the companion.
	PlacementOuter
)

func (p Placement) String() string {
	switch p {
	case PlacementOwner:
		return "owner"
	case PlacementOuter:
		return "outer"
	default:
		return "n/a"
	}
}

// MarshalText encodes the placement as its String form.
func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Options tune the resolver.
type Options struct {
	// NoMemo recomputes interface companion decisions on every query.
	NoMemo bool
}

// Resolver decides backing-field placement over one immutable graph.
// It is safe for concurrent use.
type Resolver struct {
	graph      *decl.Graph
	intrinsics IntrinsicCompanions
	history    MoveHistory
	memo       *companionMemo
}

// NewResolver builds a resolver. Nil intrinsics or history behave as empty.
func NewResolver(g *decl.Graph, intrinsics IntrinsicCompanions, history MoveHistory, opts Options) *Resolver {
	r := &Resolver{graph: g, intrinsics: intrinsics, history: history}
	if !opts.NoMemo {
		r.memo = newCompanionMemo()
	}
	return r
}

// HasOuterBackingField reports whether the property's backing field must be
// emitted in the class enclosing its companion object.
func (r *Resolver) HasOuterBackingField(id decl.PropertyID) bool {
	return r.Placement(id) == PlacementOuter
}

// Placement returns the placement decision for a property.
func (r *Resolver) Placement(id decl.PropertyID) Placement {
	p := r.graph.Property(id)
	if p == nil {
		return PlacementNotApplicable
	}
	switch p.Kind {
	case decl.KindFakeOverride:
		return PlacementNotApplicable
	case decl.KindDeclaration, decl.KindDelegation, decl.KindSynthesized:
	}
	if r.CompanionHasFieldsInOuter(p.Owner) {
		return PlacementOuter
	}
	return PlacementOwner
}

// CompanionHasFieldsInOuter reports whether all backing fields of the given
// companion object live in its outer class.
func (r *Resolver) CompanionHasFieldsInOuter(companion decl.ClassID) bool {
	scope := r.graph.ScopeOfClass(companion)
	if scope.Kind != decl.ScopeCompanion || r.isMappedIntrinsic(companion) {
		return false
	}
	switch r.graph.OuterScope(companion).Kind {
	case decl.ScopeClass, decl.ScopeEnumClass:
		return true
	case decl.ScopeInterface, decl.ScopeAnnotationClass:
		return r.interfaceCompanionQualifies(companion)
	case decl.ScopeOther, decl.ScopeCompanion:
		return false
	}
	return false
}

// IsMappedIntrinsicCompanion exposes the registry check for reporting.
func (r *Resolver) IsMappedIntrinsicCompanion(companion decl.ClassID) bool {
	return r.graph.ScopeOfClass(companion).Kind == decl.ScopeCompanion && r.isMappedIntrinsic(companion)
}

// MovedFromInterfaceCompanion reports the persisted move flag of a property,
// from its own deserialized facts or from the injected history.
func (r *Resolver) MovedFromInterfaceCompanion(id decl.PropertyID) bool {
	p := r.graph.Property(id)
	if p == nil {
		return false
	}
	if p.Persisted != nil && p.Persisted.MovedFromInterfaceCompanion {
		return true
	}
	if r.history == nil {
		return false
	}
	return r.history.MovedFromInterfaceCompanion(r.graph.PropertyFqName(id))
}

func (r *Resolver) isMappedIntrinsic(companion decl.ClassID) bool {
	if r.intrinsics == nil {
		return false
	}
	c := r.graph.Class(companion)
	return c != nil && r.intrinsics.IsMappedIntrinsicCompanion(c.FqName)
}

func (r *Resolver) interfaceCompanionQualifies(companion decl.ClassID) bool {
	if r.memo == nil {
		return r.scanInterfaceCompanion(companion)
	}
	if v, ok := r.memo.get(companion); ok {
		return v
	}
	v := r.scanInterfaceCompanion(companion)
	r.memo.put(companion, v)
	return v
}

// scanInterfaceCompanion qualifies the companion only if every property is a
// public final val that is either marked @JvmField or was moved before, and
// at least one property exists.
func (r *Resolver) scanInterfaceCompanion(companion decl.ClassID) bool {
	c := r.graph.Class(companion)
	if c == nil {
		return false
	}
	qualified := false
	for _, id := range c.Properties {
		p := r.graph.Property(id)
		if p == nil {
			continue
		}
		if p.Visibility != decl.VisibilityPublic || p.IsVar() || p.Modality != decl.ModalityFinal {
			return false
		}
		if !r.MovedFromInterfaceCompanion(id) && !HasJvmField(p) {
			return false
		}
		qualified = true
	}
	return qualified
}

type companionMemo struct {
	mu     sync.RWMutex
	byComp map[decl.ClassID]bool
}

func newCompanionMemo() *companionMemo {
	return &companionMemo{byComp: make(map[decl.ClassID]bool, 16)}
}

func (m *companionMemo) get(id decl.ClassID) (bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.byComp[id]
	return v, ok
}

func (m *companionMemo) put(id decl.ClassID, v bool) {
	m.mu.Lock()
	m.byComp[id] = v
	m.mu.Unlock()
}
