// Package transform defines the transformation contract shared by every
// transformation family, the format-agnostic Result model, the media-type
// dispatch Factory, and the error taxonomy surfaced to callers.
//
// A Transform is a pure function from a graph to a Result. It is bound to
// one compiled program at construction and carries no per-invocation state,
// so a single instance may be applied concurrently to any number of graphs.
//
// The Factory is the single dispatch point: it matches a negotiated content
// type against an ordered registry and constructs the matching Transform,
// already bound to its parsed program. First structural match wins; an
// unmatched content type fails with ErrCodeUnsupportedKind and never falls
// back to a default transform family.
//
// Results serialize to deterministic JSON: field declaration order for
// field mappings, traversal order for values, variable declaration order
// for table rows. The same program applied to the same graph marshals to
// identical bytes.
package transform
