// Package ldpath implements the path-expression transformation engine.
//
// A program is a sequence of rule statements, each defining one named field
// as a selector chain over the graph:
//
//	@prefix dc : <http://purl.org/dc/elements/1.1/> ;
//	title  = dc:title ;
//	parent = ^dcterms:hasPart / dc:title ;
//	head   = fn:first(dc:title) ;
//	en     = dc:description[@en] ;
//	people = dc:contributor[rdf:type is foaf:Person] ;
//	id     = . :: xsd:string ;
//
// A step follows a predicate forward, follows it in reverse (^), selects the
// current node itself (.), and may carry a language or value filter. An fn:
// function reduces or rewrites the values its argument paths produce.
//
// Parsing is total and side-effect-free. It rejects duplicate field names,
// empty programs, malformed selector syntax, references to undeclared
// prefixes, and unknown fn: functions, each with a distinct parse error.
// A parsed Program is immutable and safe for concurrent Apply calls.
//
// Evaluation starts from the graph root and maps the current node set
// through each step in order, in graph statement order, deduplicating while
// preserving first occurrence. Traversal depth is bounded by the selector
// chain length, so cyclic graphs cannot cause non-termination. A field whose
// chain matches nothing yields an empty value sequence, never an error.
package ldpath
