// Package doc defines the in-memory document tree: the value types a
// configuration document can hold after parsing, plus the canonical JSON
// serialization and content hashing used for run snapshots.
//
// Value is a sealed interface - only Null, String, Int, Float, Bool,
// Sequence, and *Mapping implement it. Consumers dispatch with an
// exhaustive type switch; there is no reflection-based inspection.
//
// Mapping is insertion-ordered. Document key order is load-bearing for the
// resolver (references may only point at keys visited earlier), so the
// ordering a document was written in must survive all the way through.
package doc
