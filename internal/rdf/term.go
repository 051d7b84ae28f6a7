package rdf

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Term is a sealed interface over the three RDF term kinds.
// Only IRI, Literal, and BlankNode implement it.
type Term interface {
	term()

	// String returns the N-Triples form of the term.
	String() string
}

// IRI is an absolute IRI reference identifying a node or predicate.
type IRI string

func (IRI) term() {}

// String returns the IRI wrapped in angle brackets.
func (i IRI) String() string {
	return "<" + string(i) + ">"
}

// XSD datatype IRIs used by the engine.
const (
	XSDString  = IRI("http://www.w3.org/2001/XMLSchema#string")
	XSDInteger = IRI("http://www.w3.org/2001/XMLSchema#integer")
	XSDBoolean = IRI("http://www.w3.org/2001/XMLSchema#boolean")
)

// RDFType is the rdf:type predicate, the expansion of the "a" keyword.
const RDFType = IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")

// Literal is a literal value with an optional language tag or datatype.
// A literal never carries both: a language-tagged literal has no explicit
// datatype, per the RDF 1.1 abstract syntax.
type Literal struct {
	Lexical  string
	Lang     string
	Datatype IRI
}

func (Literal) term() {}

// NewLiteral returns a plain literal with an NFC-normalized lexical form.
func NewLiteral(lexical string) Literal {
	return Literal{Lexical: norm.NFC.String(lexical)}
}

// NewLangLiteral returns a language-tagged literal.
func NewLangLiteral(lexical, lang string) Literal {
	return Literal{Lexical: norm.NFC.String(lexical), Lang: lang}
}

// NewTypedLiteral returns a datatyped literal.
func NewTypedLiteral(lexical string, datatype IRI) Literal {
	return Literal{Lexical: norm.NFC.String(lexical), Datatype: datatype}
}

// String returns the N-Triples form of the literal.
func (l Literal) String() string {
	quoted := fmt.Sprintf("%q", l.Lexical)
	switch {
	case l.Lang != "":
		return quoted + "@" + l.Lang
	case l.Datatype != "" && l.Datatype != XSDString:
		return quoted + "^^" + l.Datatype.String()
	default:
		return quoted
	}
}

// BlankNode is a locally scoped node identifier.
type BlankNode string

func (BlankNode) term() {}

// String returns the N-Triples form of the blank node label.
func (b BlankNode) String() string {
	return "_:" + string(b)
}

// Value returns the string a caller-facing result should carry for a term:
// the lexical form for literals, the IRI text for IRIs, and the labeled
// form for blank nodes.
func Value(t Term) string {
	switch v := t.(type) {
	case IRI:
		return string(v)
	case Literal:
		return v.Lexical
	case BlankNode:
		return "_:" + string(v)
	default:
		return ""
	}
}
