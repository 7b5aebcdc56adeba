package decl

// Declaration is the closed set of declarations the ABI layer reads.
// Implementations: *Class, *Property, *TypeAlias.
type Declaration interface {
	declNode()
	DeclName() string
	DeclAnnotations() Annotations
}

// Class describes a class-like declaration: class, interface, enum,
// annotation class or object. Companion objects are objects with Companion set.
type Class struct {
	Name        string
	FqName      FqName
	Kind        ClassKind
	Companion   bool
	Outer       ClassID
	Properties  []PropertyID
	Nested      []ClassID
	Annotations Annotations
}

// PersistedFacts are flags read back from metadata of a previously compiled
// artifact. Nil on a Property means the declaration comes from source.
type PersistedFacts struct {
	MovedFromInterfaceCompanion bool
}

// Property is a property declaration.
type Property struct {
	Name        string
	Kind        CallableKind
	Owner       ClassID // NoClassID for top-level properties
	Package     FqName  // package of top-level properties
	Visibility  Visibility
	Mutability  Mutability
	Modality    Modality
	Delegated   bool
	Const       bool
	NoField     bool // no backing field (computed accessors, abstract)
	Annotations Annotations
	Persisted   *PersistedFacts
}

// IsVar reports whether the property is reassignable.
func (p *Property) IsVar() bool { return p.Mutability == Var }

// TypeAlias is a type alias declaration.
type TypeAlias struct {
	Name        string
	Package     FqName
	Annotations Annotations
}

func (*Class) declNode()     {}
func (*Property) declNode()  {}
func (*TypeAlias) declNode() {}

func (c *Class) DeclName() string     { return c.Name }
func (p *Property) DeclName() string  { return p.Name }
func (t *TypeAlias) DeclName() string { return t.Name }

func (c *Class) DeclAnnotations() Annotations     { return c.Annotations }
func (p *Property) DeclAnnotations() Annotations  { return p.Annotations }
func (t *TypeAlias) DeclAnnotations() Annotations { return t.Annotations }
