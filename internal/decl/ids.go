package decl

// ClassID identifies a class-like declaration in the graph arena.
type ClassID uint32

const (
	// NoClassID marks the absence of a class reference (top-level scope).
	NoClassID ClassID = 0
)

// IsValid reports whether the class ID refers to an allocated class.
func (id ClassID) IsValid() bool { return id != NoClassID }

// PropertyID identifies a property declaration in the graph arena.
type PropertyID uint32

const (
	// NoPropertyID marks the absence of a property reference.
	NoPropertyID PropertyID = 0
)

// IsValid reports whether the property ID refers to an allocated property.
func (id PropertyID) IsValid() bool { return id != NoPropertyID }

// TypeAliasID identifies a type alias declaration in the graph arena.
type TypeAliasID uint32

const (
	// NoTypeAliasID marks the absence of a type alias reference.
	NoTypeAliasID TypeAliasID = 0
)

// IsValid reports whether the type alias ID refers to an allocated alias.
func (id TypeAliasID) IsValid() bool { return id != NoTypeAliasID }
