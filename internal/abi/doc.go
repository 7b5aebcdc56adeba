// Package abi decides JVM-visible member names and backing-field placement
// for property declarations.
//
// # Contents
//
//   - names.go: getter/setter mangling and fixed synthetic name constants
//   - annotations.go: marker annotation presence, including field: targets
//   - placement.go: companion-object backing-field placement
//
// Everything here is a pure function of the declaration graph and the
// injected IntrinsicCompanions / MoveHistory queries. Names produced here are
// part of the binary contract of compiled output and must not change.
package abi
