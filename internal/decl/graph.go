package decl

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

var (
	// ErrDuplicateClass is returned when two classes share a fully-qualified name.
	ErrDuplicateClass = errors.New("duplicate class")
	// ErrDuplicateCompanion is returned when a class declares a second companion.
	ErrDuplicateCompanion = errors.New("class already has a companion object")
	// ErrCompanionWithoutOuter is returned for a companion declared at top level.
	ErrCompanionWithoutOuter = errors.New("companion object must be nested in a class")
	// ErrUnknownOwner is returned when a declaration references a missing class.
	ErrUnknownOwner = errors.New("unknown owner class")
)

// Graph is an immutable declaration graph. Index 0 of every arena is reserved
// for the invalid ID.
type Graph struct {
	Module   string
	classes  []Class
	props    []Property
	aliases  []TypeAlias
	byFqName map[FqName]ClassID
	topProps []PropertyID
	topTypes []ClassID
	aliasTop []TypeAliasID
}

// Class returns the class pointer or nil if ID is invalid.
func (g *Graph) Class(id ClassID) *Class {
	if g == nil || !id.IsValid() || int(id) >= len(g.classes) {
		return nil
	}
	return &g.classes[id]
}

// Property returns the property pointer or nil if ID is invalid.
func (g *Graph) Property(id PropertyID) *Property {
	if g == nil || !id.IsValid() || int(id) >= len(g.props) {
		return nil
	}
	return &g.props[id]
}

// TypeAlias returns the type alias pointer or nil if ID is invalid.
func (g *Graph) TypeAlias(id TypeAliasID) *TypeAlias {
	if g == nil || !id.IsValid() || int(id) >= len(g.aliases) {
		return nil
	}
	return &g.aliases[id]
}

// ClassCount reports the number of classes excluding the sentinel.
func (g *Graph) ClassCount() int { return len(g.classes) - 1 }

// PropertyCount reports the number of properties excluding the sentinel.
func (g *Graph) PropertyCount() int { return len(g.props) - 1 }

// TypeAliasCount reports the number of type aliases excluding the sentinel.
func (g *Graph) TypeAliasCount() int { return len(g.aliases) - 1 }

// ClassByFqName looks up a class by its fully-qualified name.
func (g *Graph) ClassByFqName(fq FqName) ClassID {
	if g == nil {
		return NoClassID
	}
	return g.byFqName[fq]
}

// TopLevelClasses returns classes without an outer class, in declaration order.
func (g *Graph) TopLevelClasses() []ClassID { return g.topTypes }

// TopLevelProperties returns package-level properties, in declaration order.
func (g *Graph) TopLevelProperties() []PropertyID { return g.topProps }

// TypeAliases returns all type aliases; aliases are always package-level.
func (g *Graph) TypeAliases() []TypeAliasID { return g.aliasTop }

// CompanionOf returns the companion object of cls, if any.
func (g *Graph) CompanionOf(cls ClassID) ClassID {
	c := g.Class(cls)
	if c == nil {
		return NoClassID
	}
	for _, n := range c.Nested {
		if nested := g.Class(n); nested != nil && nested.Companion {
			return n
		}
	}
	return NoClassID
}

// PropertyFqName returns the stable identity of a property: the owner's
// fully-qualified name (or package) plus the property name.
func (g *Graph) PropertyFqName(id PropertyID) FqName {
	p := g.Property(id)
	if p == nil {
		return RootFqName
	}
	if c := g.Class(p.Owner); c != nil {
		return c.FqName.Child(p.Name)
	}
	return p.Package.Child(p.Name)
}

// Builder accumulates declarations and produces a Graph.
type Builder struct {
	g *Graph
}

// NewBuilder creates a builder with optional capacity hints.
func NewBuilder(module string, classHint, propHint uint32) *Builder {
	if classHint == 0 {
		classHint = 16
	}
	if propHint == 0 {
		propHint = 64
	}
	return &Builder{g: &Graph{
		Module:   module,
		classes:  make([]Class, 1, classHint+1),
		props:    make([]Property, 1, propHint+1),
		aliases:  make([]TypeAlias, 1, 4),
		byFqName: make(map[FqName]ClassID, classHint),
	}}
}

// AddClass allocates a class. An empty FqName is derived from the outer class.
func (b *Builder) AddClass(c Class) (ClassID, error) {
	g := b.g
	if c.Outer.IsValid() {
		outer := g.Class(c.Outer)
		if outer == nil {
			return NoClassID, fmt.Errorf("%s: %w", c.Name, ErrUnknownOwner)
		}
		if c.FqName == RootFqName {
			c.FqName = outer.FqName.Child(c.Name)
		}
		if c.Companion && g.CompanionOf(c.Outer).IsValid() {
			return NoClassID, fmt.Errorf("%s: %w", outer.FqName, ErrDuplicateCompanion)
		}
	} else if c.Companion {
		return NoClassID, fmt.Errorf("%s: %w", c.Name, ErrCompanionWithoutOuter)
	}
	if c.FqName == RootFqName {
		c.FqName = FqName(c.Name)
	}
	if c.Name == "" {
		c.Name = c.FqName.ShortName()
	}
	if _, dup := g.byFqName[c.FqName]; dup {
		return NoClassID, fmt.Errorf("%s: %w", c.FqName, ErrDuplicateClass)
	}
	if c.Companion {
		c.Kind = ClassKindObject
	}
	value, err := safecast.Conv[uint32](len(g.classes))
	if err != nil {
		panic(fmt.Errorf("classes arena overflow: %w", err))
	}
	id := ClassID(value)
	c.Properties = nil
	c.Nested = nil
	g.classes = append(g.classes, c)
	g.byFqName[c.FqName] = id
	if c.Outer.IsValid() {
		outer := g.Class(c.Outer)
		outer.Nested = append(outer.Nested, id)
	} else {
		g.topTypes = append(g.topTypes, id)
	}
	return id, nil
}

// AddCompanion allocates the companion object of outer.
func (b *Builder) AddCompanion(outer ClassID, name string) (ClassID, error) {
	if name == "" {
		name = "Companion"
	}
	return b.AddClass(Class{Name: name, Kind: ClassKindObject, Companion: true, Outer: outer})
}

// AddProperty allocates a property and links it to its owner.
func (b *Builder) AddProperty(p Property) (PropertyID, error) {
	g := b.g
	if p.Owner.IsValid() && g.Class(p.Owner) == nil {
		return NoPropertyID, fmt.Errorf("%s: %w", p.Name, ErrUnknownOwner)
	}
	value, err := safecast.Conv[uint32](len(g.props))
	if err != nil {
		panic(fmt.Errorf("properties arena overflow: %w", err))
	}
	id := PropertyID(value)
	g.props = append(g.props, p)
	if p.Owner.IsValid() {
		owner := g.Class(p.Owner)
		owner.Properties = append(owner.Properties, id)
	} else {
		g.topProps = append(g.topProps, id)
	}
	return id, nil
}

// AddTypeAlias allocates a type alias.
func (b *Builder) AddTypeAlias(t TypeAlias) (TypeAliasID, error) {
	g := b.g
	value, err := safecast.Conv[uint32](len(g.aliases))
	if err != nil {
		panic(fmt.Errorf("type alias arena overflow: %w", err))
	}
	id := TypeAliasID(value)
	g.aliases = append(g.aliases, t)
	g.aliasTop = append(g.aliasTop, id)
	return id, nil
}

// Build finalizes the graph. The builder must not be used afterwards.
func (b *Builder) Build() *Graph {
	g := b.g
	b.g = nil
	return g
}
