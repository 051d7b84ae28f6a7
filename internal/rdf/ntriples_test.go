package rdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNTriples(t *testing.T) {
	doc := `
# describing one report
<http://example.org/report> <http://purl.org/dc/elements/1.1/title> "Report" .
<http://example.org/report> <http://purl.org/dc/elements/1.1/description> "A"@en .
<http://example.org/report> <http://purl.org/dc/terms/extent> "42"^^<http://www.w3.org/2001/XMLSchema#integer> .
_:b1 <http://purl.org/dc/terms/hasPart> <http://example.org/report> .
`
	root := IRI("http://example.org/report")
	g, err := DecodeNTriples(strings.NewReader(doc), root)
	require.NoError(t, err)
	require.Equal(t, 4, g.Len())

	sts := g.Statements()
	assert.Equal(t, NewLiteral("Report"), sts[0].Object)
	assert.Equal(t, NewLangLiteral("A", "en"), sts[1].Object)
	assert.Equal(t, NewTypedLiteral("42", XSDInteger), sts[2].Object)
	assert.Equal(t, Term(BlankNode("b1")), sts[3].Subject)
}

func TestDecodeNTriples_Escapes(t *testing.T) {
	doc := `<http://example.org/a> <http://example.org/p> "line\none \"two\"" .`
	g, err := DecodeNTriples(strings.NewReader(doc), IRI("http://example.org/a"))
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())
	assert.Equal(t, NewLiteral("line\none \"two\""), g.Statements()[0].Object)
}

func TestDecodeNTriples_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing dot", `<http://example.org/a> <http://example.org/p> "x"`},
		{"literal subject", `"x" <http://example.org/p> "y" .`},
		{"literal predicate", `<http://example.org/a> "p" "y" .`},
		{"unterminated iri", `<http://example.org/a <http://example.org/p> "y" .`},
		{"unterminated literal", `<http://example.org/a> <http://example.org/p> "y .`},
		{"empty iri", `<> <http://example.org/p> "y" .`},
		{"trailing garbage", `<http://example.org/a> <http://example.org/p> "y" . extra`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeNTriples(strings.NewReader(tc.doc), IRI("http://example.org/a"))
			require.Error(t, err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, 1, perr.Line)
		})
	}
}

func TestEncodeNTriples_RoundTrip(t *testing.T) {
	root := IRI("http://example.org/report")
	g := NewGraph(root)
	g.Add(root, dcTitle, NewLiteral("Report"))
	g.Add(root, dcDescription, NewLangLiteral("eins", "de"))
	g.Add(BlankNode("b0"), dcHasPart, root)

	var sb strings.Builder
	require.NoError(t, EncodeNTriples(&sb, g))

	decoded, err := DecodeNTriples(strings.NewReader(sb.String()), root)
	require.NoError(t, err)
	assert.Equal(t, g.Statements(), decoded.Statements())
}
