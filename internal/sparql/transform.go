package sparql

import (
	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

// MediaType is the content type identifying SPARQL query bodies.
const MediaType = "application/sparql-query"

// New compiles query text into a ready-to-apply transform.
// New satisfies transform.Constructor.
func New(program []byte) (transform.Transform, error) {
	q, err := Compile(program)
	if err != nil {
		return nil, err
	}
	return q, nil
}
