// Package decl holds the read-only declaration model consumed by the ABI
// layer: classes, companion objects, properties and type aliases stored in
// slice arenas and addressed by small integer IDs.
//
// A Graph is produced once by a Builder and never mutated afterwards, so it
// may be shared between goroutines without locking.
package decl
