package transform

import (
	"github.com/fcrepo4-labs/fcrepo-transform/internal/rdf"
)

// Transform is the common contract every transformation family implements:
// a pure function from a graph to a result value.
//
// Apply must not mutate the graph and must not retain it past the call.
// For a fixed graph, repeated applications yield identical Results.
type Transform interface {
	Apply(g *rdf.Graph) (Result, error)
}
