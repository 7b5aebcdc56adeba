package decl

// ScopeKind classifies the direct container of a declaration as far as
// backing-field placement is concerned.
type ScopeKind uint8

const (
	ScopeOther ScopeKind = iota
	ScopeClass
	ScopeEnumClass
	ScopeInterface
	ScopeAnnotationClass
	ScopeCompanion
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeClass:
		return "class"
	case ScopeEnumClass:
		return "enum_class"
	case ScopeInterface:
		return "interface"
	case ScopeAnnotationClass:
		return "annotation_class"
	case ScopeCompanion:
		return "companion"
	default:
		return "other"
	}
}

// Scope is a resolved containing scope.
type Scope struct {
	Kind  ScopeKind
	Class ClassID
}

// ScopeOfClass maps a class to its scope kind.
func (g *Graph) ScopeOfClass(id ClassID) Scope {
	c := g.Class(id)
	if c == nil {
		return Scope{Kind: ScopeOther}
	}
	if c.Companion {
		return Scope{Kind: ScopeCompanion, Class: id}
	}
	switch c.Kind {
	case ClassKindClass:
		return Scope{Kind: ScopeClass, Class: id}
	case ClassKindEnumClass:
		return Scope{Kind: ScopeEnumClass, Class: id}
	case ClassKindInterface:
		return Scope{Kind: ScopeInterface, Class: id}
	case ClassKindAnnotationClass:
		return Scope{Kind: ScopeAnnotationClass, Class: id}
	case ClassKindInvalid, ClassKindEnumEntry, ClassKindObject:
		return Scope{Kind: ScopeOther, Class: id}
	}
	return Scope{Kind: ScopeOther, Class: id}
}

// ContainingScope returns the direct container of a property.
func (g *Graph) ContainingScope(id PropertyID) Scope {
	p := g.Property(id)
	if p == nil || !p.Owner.IsValid() {
		return Scope{Kind: ScopeOther}
	}
	return g.ScopeOfClass(p.Owner)
}

// OuterScope returns the scope of the class enclosing cls.
func (g *Graph) OuterScope(cls ClassID) Scope {
	c := g.Class(cls)
	if c == nil || !c.Outer.IsValid() {
		return Scope{Kind: ScopeOther}
	}
	return g.ScopeOfClass(c.Outer)
}
