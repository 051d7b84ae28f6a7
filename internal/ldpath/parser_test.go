package ldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/rdf"
	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

func TestParseNamed_Basic(t *testing.T) {
	src := `
# report projection
name = dc:title ;
desc = dc:description ;
`
	p, err := ParseNamed("basic", []byte(src))
	require.NoError(t, err)

	rules := p.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "name", rules[0].Name)
	assert.Equal(t, "desc", rules[1].Name)
	require.Len(t, rules[0].Paths, 1)
	require.Len(t, rules[0].Paths[0].Steps, 1)
	assert.Equal(t, StepForward, rules[0].Paths[0].Steps[0].Kind)
	assert.Equal(t, rdf.IRI("http://purl.org/dc/elements/1.1/title"), rules[0].Paths[0].Steps[0].Predicate)
}

func TestParseNamed_PrefixDeclarationOverridesDefault(t *testing.T) {
	src := `
@prefix dc : <http://example.org/custom/> ;
title = dc:title ;
`
	p, err := ParseNamed("override", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, rdf.IRI("http://example.org/custom/title"), p.Rules()[0].Paths[0].Steps[0].Predicate)
}

func TestParseNamed_PathChainAndReverse(t *testing.T) {
	src := `parent_title = ^dcterms:hasPart / dc:title ;`
	p, err := ParseNamed("chain", []byte(src))
	require.NoError(t, err)

	steps := p.Rules()[0].Paths[0].Steps
	require.Len(t, steps, 2)
	assert.Equal(t, StepReverse, steps[0].Kind)
	assert.Equal(t, rdf.IRI("http://purl.org/dc/terms/hasPart"), steps[0].Predicate)
	assert.Equal(t, StepForward, steps[1].Kind)
}

func TestParseNamed_SelfSelectorWithDatatype(t *testing.T) {
	src := `id = . :: xsd:string ;`
	p, err := ParseNamed("self", []byte(src))
	require.NoError(t, err)

	rule := p.Rules()[0]
	assert.Equal(t, StepSelf, rule.Paths[0].Steps[0].Kind)
	assert.Equal(t, rdf.XSDString, rule.Datatype)
}

func TestParseNamed_Filters(t *testing.T) {
	src := `
en_desc = dc:description[@en] ;
people = dc:contributor[rdf:type is foaf:Person] ;
tagged = dc:subject[dc:title is "Tag"] ;
`
	p, err := ParseNamed("filters", []byte(src))
	require.NoError(t, err)

	rules := p.Rules()
	langFilter := rules[0].Paths[0].Steps[0].Filter
	require.NotNil(t, langFilter)
	assert.Equal(t, FilterLang, langFilter.Kind)
	assert.Equal(t, "en", langFilter.Lang)

	valueFilter := rules[1].Paths[0].Steps[0].Filter
	require.NotNil(t, valueFilter)
	assert.Equal(t, FilterValue, valueFilter.Kind)
	assert.Equal(t, rdf.RDFType, valueFilter.Predicate)
	assert.Equal(t, rdf.Term(rdf.IRI("http://xmlns.com/foaf/0.1/Person")), valueFilter.Value)

	literalFilter := rules[2].Paths[0].Steps[0].Filter
	require.NotNil(t, literalFilter)
	assert.Equal(t, rdf.Term(rdf.NewLiteral("Tag")), literalFilter.Value)
}

func TestParseNamed_Functions(t *testing.T) {
	src := `
head = fn:first(dc:title, dc:description) ;
n = fn:count(dc:relation) ;
joined = fn:concat(dc:creator) ;
`
	p, err := ParseNamed("fns", []byte(src))
	require.NoError(t, err)

	rules := p.Rules()
	assert.Equal(t, FuncFirst, rules[0].Fn)
	assert.Len(t, rules[0].Paths, 2)
	assert.Equal(t, FuncCount, rules[1].Fn)
	assert.Equal(t, FuncConcat, rules[2].Fn)
}

func TestParseNamed_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		fragment string
	}{
		{"empty program", "", ""},
		{"comments only", "# nothing here\n", ""},
		{"duplicate field", "a = dc:title ;\na = dc:creator ;", "a"},
		{"undeclared prefix", "a = zzz:title ;", "zzz:title"},
		{"unknown function", "a = fn:reverse(dc:title) ;", "fn:reverse"},
		{"missing semicolon", "a = dc:title", ""},
		{"missing expression", "a = ;", ""},
		{"unterminated filter", "a = dc:title[@en ;", ""},
		{"bad filter keyword", "a = dc:subject[dc:title was \"Tag\"] ;", "was"},
		{"unterminated iri", "a = <http://example.org/p ;", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseNamed("bad", []byte(tc.src))
			require.Error(t, err)
			assert.True(t, transform.IsParseError(err), "want parse error, got %v", err)
			if tc.fragment != "" {
				var te *transform.Error
				require.ErrorAs(t, err, &te)
				assert.Equal(t, tc.fragment, te.Fragment)
			}
		})
	}
}

func TestParseNamed_ReusableAcrossCalls(t *testing.T) {
	p, err := ParseNamed("reuse", []byte(`title = dc:title ;`))
	require.NoError(t, err)

	root := rdf.IRI("http://example.org/r")
	g := rdf.NewGraph(root)
	g.Add(root, rdf.IRI("http://purl.org/dc/elements/1.1/title"), rdf.NewLiteral("Report"))

	first, err := p.Apply(g)
	require.NoError(t, err)
	second, err := p.Apply(g)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
