package decl

import "strings"

// ClassKind classifies class-like declarations.
type ClassKind uint8

const (
	ClassKindInvalid ClassKind = iota
	ClassKindClass
	ClassKindInterface
	ClassKindEnumClass
	ClassKindEnumEntry
	ClassKindAnnotationClass
	ClassKindObject
)

func (k ClassKind) String() string {
	switch k {
	case ClassKindClass:
		return "class"
	case ClassKindInterface:
		return "interface"
	case ClassKindEnumClass:
		return "enum_class"
	case ClassKindEnumEntry:
		return "enum_entry"
	case ClassKindAnnotationClass:
		return "annotation_class"
	case ClassKindObject:
		return "object"
	default:
		return "invalid"
	}
}

// ParseClassKind accepts the String form plus a few spellings used in
// declaration files ("enum", "annotation").
func ParseClassKind(s string) (ClassKind, bool) {
	switch normalizeKeyword(s) {
	case "class", "":
		return ClassKindClass, true
	case "interface":
		return ClassKindInterface, true
	case "enum_class", "enum":
		return ClassKindEnumClass, true
	case "enum_entry":
		return ClassKindEnumEntry, true
	case "annotation_class", "annotation":
		return ClassKindAnnotationClass, true
	case "object":
		return ClassKindObject, true
	default:
		return ClassKindInvalid, false
	}
}

// CallableKind tells whether a member introduces new storage or is inherited.
type CallableKind uint8

const (
	KindDeclaration CallableKind = iota
	KindFakeOverride
	KindDelegation
	KindSynthesized
)

func (k CallableKind) String() string {
	switch k {
	case KindDeclaration:
		return "declaration"
	case KindFakeOverride:
		return "fake_override"
	case KindDelegation:
		return "delegation"
	case KindSynthesized:
		return "synthesized"
	default:
		return "invalid"
	}
}

// ParseCallableKind parses the String form; empty means KindDeclaration.
func ParseCallableKind(s string) (CallableKind, bool) {
	switch normalizeKeyword(s) {
	case "declaration", "":
		return KindDeclaration, true
	case "fake_override":
		return KindFakeOverride, true
	case "delegation":
		return KindDelegation, true
	case "synthesized":
		return KindSynthesized, true
	default:
		return KindDeclaration, false
	}
}

// Visibility of a member.
type Visibility uint8

const (
	VisibilityPublic Visibility = iota
	VisibilityProtected
	VisibilityInternal
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityProtected:
		return "protected"
	case VisibilityInternal:
		return "internal"
	case VisibilityPrivate:
		return "private"
	default:
		return "invalid"
	}
}

// ParseVisibility parses the String form; empty means public.
func ParseVisibility(s string) (Visibility, bool) {
	switch normalizeKeyword(s) {
	case "public", "":
		return VisibilityPublic, true
	case "protected":
		return VisibilityProtected, true
	case "internal":
		return VisibilityInternal, true
	case "private":
		return VisibilityPrivate, true
	default:
		return VisibilityPublic, false
	}
}

// Modality of a member.
type Modality uint8

const (
	ModalityFinal Modality = iota
	ModalityOpen
	ModalityAbstract
	ModalitySealed
)

func (m Modality) String() string {
	switch m {
	case ModalityFinal:
		return "final"
	case ModalityOpen:
		return "open"
	case ModalityAbstract:
		return "abstract"
	case ModalitySealed:
		return "sealed"
	default:
		return "invalid"
	}
}

// ParseModality parses the String form; empty means final.
func ParseModality(s string) (Modality, bool) {
	switch normalizeKeyword(s) {
	case "final", "":
		return ModalityFinal, true
	case "open":
		return ModalityOpen, true
	case "abstract":
		return ModalityAbstract, true
	case "sealed":
		return ModalitySealed, true
	default:
		return ModalityFinal, false
	}
}

// Mutability distinguishes val from var.
type Mutability uint8

const (
	Val Mutability = iota
	Var
)

func (m Mutability) String() string {
	if m == Var {
		return "var"
	}
	return "val"
}

func normalizeKeyword(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "-", "_")
}
