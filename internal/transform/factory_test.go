package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/rdf"
)

// stubTransform records which registration constructed it.
type stubTransform struct {
	label   string
	program string
}

func (s *stubTransform) Apply(g *rdf.Graph) (Result, error) {
	return Boolean(true), nil
}

func stubConstructor(label string) Constructor {
	return func(program []byte) (Transform, error) {
		return &stubTransform{label: label, program: string(program)}, nil
	}
}

func TestFactory_SelectMatchesRegisteredType(t *testing.T) {
	f := NewFactory(
		Registration{MediaType: "application/rdf+ldpath", New: stubConstructor("ldpath")},
		Registration{MediaType: "application/sparql-query", New: stubConstructor("sparql")},
	)

	tr, err := f.Select("application/sparql-query", []byte("ASK {}"))
	require.NoError(t, err)
	stub := tr.(*stubTransform)
	assert.Equal(t, "sparql", stub.label)
	assert.Equal(t, "ASK {}", stub.program)
}

func TestFactory_SelectIgnoresParametersAndCase(t *testing.T) {
	f := NewFactory(
		Registration{MediaType: "application/rdf+ldpath", New: stubConstructor("ldpath")},
	)

	tr, err := f.Select("Application/RDF+LDPath; charset=utf-8", nil)
	require.NoError(t, err)
	assert.Equal(t, "ldpath", tr.(*stubTransform).label)
}

func TestFactory_SelectUnknownTypeFails(t *testing.T) {
	f := NewFactory(
		Registration{MediaType: "application/rdf+ldpath", New: stubConstructor("ldpath")},
	)

	_, err := f.Select("application/unknown", nil)
	require.Error(t, err)
	assert.True(t, IsUnsupportedKind(err))

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "application/unknown", te.MediaType, "error must name the offending content type")
}

func TestFactory_SelectNeverFallsBack(t *testing.T) {
	f := NewFactory(
		Registration{MediaType: "application/rdf+ldpath", New: stubConstructor("ldpath")},
	)

	tests := []string{"", "garbage", "text/plain", "application/ rdf+ldpath extra"}
	for _, mediaType := range tests {
		_, err := f.Select(mediaType, nil)
		assert.True(t, IsUnsupportedKind(err), "media type %q must not select a default transform", mediaType)
	}
}

func TestFactory_FirstMatchWins(t *testing.T) {
	f := NewFactory(
		Registration{MediaType: "application/rdf+ldpath", New: stubConstructor("first")},
		Registration{MediaType: "application/rdf+ldpath", New: stubConstructor("second")},
	)

	tr, err := f.Select("application/rdf+ldpath", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", tr.(*stubTransform).label)
}

func TestFactory_RegistryCopiedAtConstruction(t *testing.T) {
	regs := []Registration{
		{MediaType: "application/rdf+ldpath", New: stubConstructor("original")},
	}
	f := NewFactory(regs...)

	// Mutating the caller's slice must not change dispatch.
	regs[0] = Registration{MediaType: "application/rdf+ldpath", New: stubConstructor("mutated")}

	tr, err := f.Select("application/rdf+ldpath", nil)
	require.NoError(t, err)
	assert.Equal(t, "original", tr.(*stubTransform).label)
}
