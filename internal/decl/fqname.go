package decl

import "strings"

// FqName is a dot-separated fully-qualified name, e.g. "kotlin.jvm.JvmField".
// The empty FqName is the root package.
type FqName string

// RootFqName is the root package.
const RootFqName FqName = ""

// IsRoot reports whether the name denotes the root package.
func (n FqName) IsRoot() bool { return n == RootFqName }

// Child appends a single segment.
func (n FqName) Child(segment string) FqName {
	if n.IsRoot() {
		return FqName(segment)
	}
	return FqName(string(n) + "." + segment)
}

// Parent drops the last segment. The parent of a single segment is the root.
func (n FqName) Parent() FqName {
	idx := strings.LastIndexByte(string(n), '.')
	if idx < 0 {
		return RootFqName
	}
	return n[:idx]
}

// ShortName returns the last segment.
func (n FqName) ShortName() string {
	idx := strings.LastIndexByte(string(n), '.')
	if idx < 0 {
		return string(n)
	}
	return string(n[idx+1:])
}

// Segments splits the name; the root has no segments.
func (n FqName) Segments() []string {
	if n.IsRoot() {
		return nil
	}
	return strings.Split(string(n), ".")
}

func (n FqName) String() string { return string(n) }
