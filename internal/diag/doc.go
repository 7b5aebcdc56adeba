// Package diag defines the diagnostic model shared by the declaration loader
// and the ABI planner.
//
// A Diagnostic carries a Severity, a stable numeric Code, a short message and
// the Subject it is about: a declaration file path or the fully-qualified
// name of a class or property. Producers collect diagnostics in a Bag, which
// supports limits, merging, deterministic sorting and deduplication.
//
// Package diag does not format or print anything; rendering lives in the CLI.
package diag
