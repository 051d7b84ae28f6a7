// Package sparql implements the query transformation family: a compact
// SPARQL subset executed directly against a graph's statements.
//
// Supported query forms:
//
//	PREFIX dc: <http://purl.org/dc/elements/1.1/>
//	ASK { ?s a <http://example.org/Report> }
//	SELECT DISTINCT ?s ?title WHERE { ?s dc:title ?title } LIMIT 10
//	CONSTRUCT { ?s dc:title ?t } WHERE { ?s dc:title ?t }
//
// A query is compiled once at construction; malformed query text fails at
// compile time with an INVALID_QUERY_SYNTAX error, never at apply time.
// Pattern solving joins basic graph patterns left to right over statements
// in graph insertion order, so results are deterministic for a fixed graph.
// A query matching nothing yields the empty result of its form: an empty
// row sequence, false, or an empty graph.
package sparql
