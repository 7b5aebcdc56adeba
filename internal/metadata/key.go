// Package metadata persists per-property ABI facts between compilations.
//
// The only fact recorded today is "the backing field was moved out of an
// interface companion". Once recorded, a property keeps the flag on every
// later compilation of the same module so the class file shape stays stable.
package metadata

import (
	"golang.org/x/text/unicode/norm"

	"jvmabi/internal/decl"
)

// Key is the stable identity of a property across incremental builds: its
// fully-qualified name in Unicode NFC.
type Key string

// KeyOf normalises a property's fully-qualified name into a Key.
func KeyOf(fq decl.FqName) Key {
	return Key(norm.NFC.String(string(fq)))
}

// Flags is a bit set of persisted property facts.
type Flags uint8

const (
	// FlagMovedFromInterfaceCompanion marks a property whose backing field was
	// hoisted out of an interface or annotation companion.
	FlagMovedFromInterfaceCompanion Flags = 1 << iota
)

// Has reports whether all bits of other are set.
func (f Flags) Has(other Flags) bool { return f&other == other && other != 0 }

// Strings returns textual labels of the set flags.
func (f Flags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 1)
	if f&FlagMovedFromInterfaceCompanion != 0 {
		labels = append(labels, "moved_from_interface_companion")
	}
	return labels
}

// Record is one persisted property entry.
type Record struct {
	Key   Key   `msgpack:"k"`
	Flags Flags `msgpack:"f"`
}
