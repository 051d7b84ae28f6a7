package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dcTitle       = IRI("http://purl.org/dc/elements/1.1/title")
	dcDescription = IRI("http://purl.org/dc/elements/1.1/description")
	dcHasPart     = IRI("http://purl.org/dc/terms/hasPart")
)

func TestGraph_InsertionOrderPreserved(t *testing.T) {
	root := IRI("http://example.org/report")
	g := NewGraph(root)
	g.Add(root, dcDescription, NewLiteral("A"))
	g.Add(root, dcDescription, NewLiteral("B"))
	g.Add(root, dcTitle, NewLiteral("Report"))

	objects := g.ObjectsOf(root, dcDescription)
	require.Len(t, objects, 2)
	assert.Equal(t, NewLiteral("A"), objects[0])
	assert.Equal(t, NewLiteral("B"), objects[1])
}

func TestGraph_AddDeduplicates(t *testing.T) {
	root := IRI("http://example.org/report")
	g := NewGraph(root)
	g.Add(root, dcTitle, NewLiteral("Report"))
	g.Add(root, dcTitle, NewLiteral("Report"))

	assert.Equal(t, 1, g.Len())
}

func TestGraph_SubjectsOfReverseLookup(t *testing.T) {
	root := IRI("http://example.org/collection")
	a := IRI("http://example.org/a")
	b := IRI("http://example.org/b")

	g := NewGraph(root)
	g.Add(a, dcHasPart, root)
	g.Add(b, dcHasPart, root)

	subjects := g.SubjectsOf(dcHasPart, root)
	require.Len(t, subjects, 2)
	assert.Equal(t, Term(a), subjects[0])
	assert.Equal(t, Term(b), subjects[1])
}

func TestGraph_ContainsAndEmptyLookups(t *testing.T) {
	root := IRI("http://example.org/report")
	g := NewGraph(root)
	g.Add(root, dcTitle, NewLiteral("Report"))

	assert.True(t, g.Contains(root, dcTitle, NewLiteral("Report")))
	assert.False(t, g.Contains(root, dcTitle, NewLiteral("Other")))
	assert.Empty(t, g.ObjectsOf(root, dcDescription))
}

func TestLiteral_NFCNormalization(t *testing.T) {
	// "é" as combining sequence vs precomposed must compare equal.
	combining := NewLiteral("Café")
	precomposed := NewLiteral("Café")
	assert.Equal(t, precomposed, combining)
}

func TestTerm_NTriplesForms(t *testing.T) {
	tests := []struct {
		name string
		term Term
		want string
	}{
		{"iri", IRI("http://example.org/a"), "<http://example.org/a>"},
		{"plain literal", NewLiteral("hello"), `"hello"`},
		{"lang literal", NewLangLiteral("hallo", "de"), `"hallo"@de`},
		{"typed literal", NewTypedLiteral("5", XSDInteger), `"5"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"string-typed literal collapses", NewTypedLiteral("x", XSDString), `"x"`},
		{"blank node", BlankNode("b1"), "_:b1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.term.String())
		})
	}
}

func TestValue(t *testing.T) {
	assert.Equal(t, "http://example.org/a", Value(IRI("http://example.org/a")))
	assert.Equal(t, "Report", Value(NewLiteral("Report")))
	assert.Equal(t, "_:b1", Value(BlankNode("b1")))
}
