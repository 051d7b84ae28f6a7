package sparql

import (
	"github.com/fcrepo4-labs/fcrepo-transform/internal/rdf"
)

// Form identifies the query form, which fixes the result shape.
type Form int

const (
	// FormAsk produces a boolean result.
	FormAsk Form = iota

	// FormSelect produces a tabular result.
	FormSelect

	// FormConstruct produces a derived graph.
	FormConstruct
)

// PatternTerm is one position of a triple pattern: either a variable or a
// concrete term.
type PatternTerm struct {
	Var  string
	Term rdf.Term
}

// isVar reports whether the pattern position is a variable.
func (pt PatternTerm) isVar() bool {
	return pt.Var != ""
}

// TriplePattern is one basic graph pattern.
type TriplePattern struct {
	S, P, O PatternTerm
}

// Query is a compiled query. It is immutable after compilation and safe for
// concurrent Apply calls.
type Query struct {
	Form     Form
	Distinct bool

	// Vars is the projection for select-form queries, in declaration order.
	// For SELECT * it holds the variables in first-appearance order.
	Vars []string

	// Where is the basic graph pattern, solved in declaration order.
	Where []TriplePattern

	// Template is the construction template for construct-form queries.
	Template []TriplePattern

	// Limit caps select-form rows; 0 means unlimited.
	Limit int
}
