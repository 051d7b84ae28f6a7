package ldpath

import (
	"github.com/fcrepo4-labs/fcrepo-transform/internal/rdf"
)

// Func identifies an fn: selector function.
type Func string

const (
	// FuncNone marks a plain path rule with no function applied.
	FuncNone Func = ""

	// FuncFirst keeps only the first value.
	FuncFirst Func = "first"

	// FuncLast keeps only the last value.
	FuncLast Func = "last"

	// FuncCount replaces the sequence with its length, as an xsd:integer.
	FuncCount Func = "count"

	// FuncConcat concatenates the string forms of all values into one literal.
	FuncConcat Func = "concat"

	// FuncUpper uppercases every literal value.
	FuncUpper Func = "uc"

	// FuncLower lowercases every literal value.
	FuncLower Func = "lc"
)

// knownFuncs is the set of selector functions resolvable at parse time.
// A reference to anything else is rejected when the program is parsed.
var knownFuncs = map[Func]bool{
	FuncFirst:  true,
	FuncLast:   true,
	FuncCount:  true,
	FuncConcat: true,
	FuncUpper:  true,
	FuncLower:  true,
}

// StepKind distinguishes selector step variants.
type StepKind int

const (
	// StepSelf selects the current node itself (the "." selector).
	StepSelf StepKind = iota

	// StepForward follows the predicate as an outgoing edge.
	StepForward

	// StepReverse follows the predicate as an incoming edge.
	StepReverse
)

// FilterKind distinguishes node test variants.
type FilterKind int

const (
	// FilterLang keeps literals carrying a specific language tag.
	FilterLang FilterKind = iota

	// FilterValue keeps nodes having a specific (predicate, value) statement.
	FilterValue
)

// Filter is a node test applied after a step's traversal.
type Filter struct {
	Kind      FilterKind
	Lang      string
	Predicate rdf.IRI
	Value     rdf.Term
}

// Step is one traversal operation in a selector chain.
type Step struct {
	Kind      StepKind
	Predicate rdf.IRI
	Filter    *Filter
}

// Path is an ordered selector chain.
type Path struct {
	Steps []Step
}

// FieldRule is one named rule: a function (possibly FuncNone) over one or
// more argument paths, with an optional datatype annotation applied to
// plain-literal values.
type FieldRule struct {
	Name     string
	Fn       Func
	Paths    []Path
	Datatype rdf.IRI
}

// Program is a compiled rule set. It is immutable after parsing and may be
// shared across concurrent Apply calls.
type Program struct {
	// Name is the logical program name; inline programs carry a generated
	// anonymous name.
	Name string

	prefixes map[string]rdf.IRI
	rules    []FieldRule
}

// Rules returns the field rules in declaration order.
func (p *Program) Rules() []FieldRule {
	return p.rules
}

// defaultPrefixes are pre-bound namespace prefixes available to every
// program; @prefix declarations may override them.
func defaultPrefixes() map[string]rdf.IRI {
	return map[string]rdf.IRI{
		"rdf":     "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":    "http://www.w3.org/2000/01/rdf-schema#",
		"xsd":     "http://www.w3.org/2001/XMLSchema#",
		"dc":      "http://purl.org/dc/elements/1.1/",
		"dcterms": "http://purl.org/dc/terms/",
		"foaf":    "http://xmlns.com/foaf/0.1/",
	}
}
