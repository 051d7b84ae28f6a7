package ldpath

import (
	"github.com/google/uuid"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

// MediaType is the content type identifying LDPath program bodies.
const MediaType = "application/rdf+ldpath"

// New parses inline program source into a ready-to-apply transform.
// Inline programs are anonymous and scoped to one request; each gets a
// generated name so log lines stay correlatable.
//
// New satisfies transform.Constructor.
func New(program []byte) (transform.Transform, error) {
	return NewNamed("inline-"+uuid.Must(uuid.NewV7()).String(), program)
}

// NewNamed parses stored program source under its logical name.
func NewNamed(name string, program []byte) (transform.Transform, error) {
	p, err := ParseNamed(name, program)
	if err != nil {
		return nil, err
	}
	return p, nil
}
