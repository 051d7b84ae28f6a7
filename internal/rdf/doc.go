// Package rdf provides the in-memory statement model consumed by
// transformations.
//
// A Graph is an insertion-ordered set of (subject, predicate, object)
// statements plus a designated root node. Graphs are read-only from the
// engine's perspective: transformations traverse them but never mutate them.
//
// # Determinism
//
// Statement insertion order is preserved and is the only order the package
// ever exposes. Traversal helpers (ObjectsOf, SubjectsOf) yield results in
// statement insertion order, so any evaluation built on them is reproducible
// for a fixed Graph. This is the documented tie-break for value ordering:
// deterministic for a given immutable Graph, not tied to any canonical
// serialization order.
//
// Literal lexical forms are normalized to Unicode NFC on construction, so
// two literals that differ only in normalization form compare equal.
package rdf
