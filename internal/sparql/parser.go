package sparql

import (
	"fmt"
	"strings"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/rdf"
	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

// Compile parses query text into an immutable Query. All syntax failures,
// including references to undeclared prefixes, surface here rather than
// at apply time.
func Compile(src []byte) (*Query, error) {
	tokens, err := scan(string(src))
	if err != nil {
		return nil, err
	}

	p := &queryParser{
		tokens:   tokens,
		prefixes: make(map[string]rdf.IRI),
	}
	return p.parseQuery()
}

type tkind int

const (
	tEOF tkind = iota
	tWord    // bare word, possibly prefixed (dc:title) or a keyword
	tVar     // ?name, stored without '?'
	tIRI     // <...>, brackets stripped
	tLiteral // compiled literal term
	tInt     // integer token
	tLBrace
	tRBrace
	tDot
	tStar
)

type qtoken struct {
	kind tkind
	text string
	term rdf.Term // for tLiteral
	line int
}

func scan(src string) ([]qtoken, error) {
	var tokens []qtoken
	line := 1
	i := 0

	syntaxErr := func(format string, args ...any) error {
		return transform.NewQuerySyntaxError(
			fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)), "")
	}

	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '{':
			tokens = append(tokens, qtoken{kind: tLBrace, text: "{", line: line})
			i++
		case c == '}':
			tokens = append(tokens, qtoken{kind: tRBrace, text: "}", line: line})
			i++
		case c == '.':
			tokens = append(tokens, qtoken{kind: tDot, text: ".", line: line})
			i++
		case c == '*':
			tokens = append(tokens, qtoken{kind: tStar, text: "*", line: line})
			i++
		case c == '?':
			start := i + 1
			i++
			for i < len(src) && isWordPart(src[i]) {
				i++
			}
			if i == start {
				return nil, syntaxErr("empty variable name")
			}
			tokens = append(tokens, qtoken{kind: tVar, text: src[start:i], line: line})
		case c == '<':
			end := strings.IndexByte(src[i:], '>')
			if end < 0 {
				return nil, syntaxErr("unterminated IRI")
			}
			tokens = append(tokens, qtoken{kind: tIRI, text: src[i+1 : i+end], line: line})
			i += end + 1
		case c == '"':
			term, consumed, err := scanLiteral(src[i:], line)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, qtoken{kind: tLiteral, term: term, line: line})
			i += consumed
		case c >= '0' && c <= '9':
			start := i
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			tokens = append(tokens, qtoken{kind: tInt, text: src[start:i], line: line})
		case isWordStart(c):
			start := i
			for i < len(src) && isWordPart(src[i]) {
				i++
			}
			// A word may carry a prefix separator: dc:title, or "dc:" in
			// a PREFIX declaration.
			if i < len(src) && src[i] == ':' {
				i++
				for i < len(src) && isWordPart(src[i]) {
					i++
				}
			}
			tokens = append(tokens, qtoken{kind: tWord, text: src[start:i], line: line})
		default:
			return nil, syntaxErr("unexpected character %q", c)
		}
	}

	tokens = append(tokens, qtoken{kind: tEOF, line: line})
	return tokens, nil
}

// scanLiteral scans a quoted literal with optional @lang or ^^<datatype>.
func scanLiteral(src string, line int) (rdf.Term, int, error) {
	var sb strings.Builder
	i := 1
	for {
		if i >= len(src) || src[i] == '\n' {
			return nil, 0, transform.NewQuerySyntaxError(
				fmt.Sprintf("line %d: unterminated string literal", line), "")
		}
		c := src[i]
		if c == '"' {
			i++
			break
		}
		if c == '\\' && i+1 < len(src) {
			switch src[i+1] {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				return nil, 0, transform.NewQuerySyntaxError(
					fmt.Sprintf("line %d: unsupported escape \\%c", line, src[i+1]), "")
			}
			i += 2
			continue
		}
		sb.WriteByte(c)
		i++
	}

	lexical := sb.String()

	if i < len(src) && src[i] == '@' {
		start := i + 1
		i++
		for i < len(src) && (isWordPart(src[i]) || src[i] == '-') {
			i++
		}
		if i == start {
			return nil, 0, transform.NewQuerySyntaxError(
				fmt.Sprintf("line %d: empty language tag", line), "")
		}
		return rdf.NewLangLiteral(lexical, src[start:i]), i, nil
	}

	if strings.HasPrefix(src[i:], "^^<") {
		i += 2
		end := strings.IndexByte(src[i:], '>')
		if end < 0 {
			return nil, 0, transform.NewQuerySyntaxError(
				fmt.Sprintf("line %d: unterminated datatype IRI", line), "")
		}
		dt := src[i+1 : i+end]
		i += end + 1
		return rdf.NewTypedLiteral(lexical, rdf.IRI(dt)), i, nil
	}

	return rdf.NewLiteral(lexical), i, nil
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordPart(c byte) bool {
	return isWordStart(c) || c == '-' || (c >= '0' && c <= '9')
}

type queryParser struct {
	tokens   []qtoken
	pos      int
	prefixes map[string]rdf.IRI
}

func (p *queryParser) peek() qtoken {
	return p.tokens[p.pos]
}

func (p *queryParser) next() qtoken {
	t := p.tokens[p.pos]
	if t.kind != tEOF {
		p.pos++
	}
	return t
}

func (p *queryParser) errorf(t qtoken, fragment, format string, args ...any) error {
	return transform.NewQuerySyntaxError(
		fmt.Sprintf("line %d: %s", t.line, fmt.Sprintf(format, args...)), fragment)
}

func (p *queryParser) parseQuery() (*Query, error) {
	// Prologue: PREFIX declarations.
	for p.peek().kind == tWord && strings.EqualFold(p.peek().text, "prefix") {
		if err := p.parsePrefixDecl(); err != nil {
			return nil, err
		}
	}

	t := p.peek()
	if t.kind != tWord {
		return nil, p.errorf(t, t.text, "expected query form (ASK, SELECT, or CONSTRUCT)")
	}

	var q *Query
	var err error
	switch strings.ToUpper(t.text) {
	case "ASK":
		p.next()
		q, err = p.parseAsk()
	case "SELECT":
		p.next()
		q, err = p.parseSelect()
	case "CONSTRUCT":
		p.next()
		q, err = p.parseConstruct()
	default:
		return nil, p.errorf(t, t.text, "unsupported query form %q", t.text)
	}
	if err != nil {
		return nil, err
	}

	if end := p.peek(); end.kind != tEOF {
		return nil, p.errorf(end, end.text, "unexpected content after query")
	}
	return q, nil
}

func (p *queryParser) parsePrefixDecl() error {
	p.next() // PREFIX keyword
	name := p.next()
	if name.kind != tWord || !strings.HasSuffix(name.text, ":") {
		return p.errorf(name, name.text, "expected prefix name ending in ':'")
	}
	iri := p.next()
	if iri.kind != tIRI {
		return p.errorf(iri, iri.text, "expected namespace IRI")
	}
	p.prefixes[strings.TrimSuffix(name.text, ":")] = rdf.IRI(iri.text)
	return nil
}

func (p *queryParser) parseAsk() (*Query, error) {
	where, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	return &Query{Form: FormAsk, Where: where}, nil
}

func (p *queryParser) parseSelect() (*Query, error) {
	q := &Query{Form: FormSelect}

	if p.peek().kind == tWord && strings.EqualFold(p.peek().text, "distinct") {
		p.next()
		q.Distinct = true
	}

	switch p.peek().kind {
	case tStar:
		p.next()
	case tVar:
		for p.peek().kind == tVar {
			q.Vars = append(q.Vars, p.next().text)
		}
	default:
		t := p.peek()
		return nil, p.errorf(t, t.text, "expected projection variables or '*'")
	}

	if t := p.peek(); t.kind != tWord || !strings.EqualFold(t.text, "where") {
		return nil, p.errorf(t, t.text, "expected WHERE")
	}
	p.next()

	where, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	q.Where = where

	if q.Vars == nil {
		q.Vars = patternVars(where)
	}

	if t := p.peek(); t.kind == tWord && strings.EqualFold(t.text, "limit") {
		p.next()
		n := p.next()
		if n.kind != tInt {
			return nil, p.errorf(n, n.text, "expected integer after LIMIT")
		}
		limit := 0
		for _, d := range n.text {
			limit = limit*10 + int(d-'0')
		}
		q.Limit = limit
	}

	return q, nil
}

func (p *queryParser) parseConstruct() (*Query, error) {
	template, err := p.parseGroup()
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.kind != tWord || !strings.EqualFold(t.text, "where") {
		return nil, p.errorf(t, t.text, "expected WHERE")
	}
	p.next()

	where, err := p.parseGroup()
	if err != nil {
		return nil, err
	}

	return &Query{Form: FormConstruct, Template: template, Where: where}, nil
}

// parseGroup handles: { pattern ( . pattern )* .? }
func (p *queryParser) parseGroup() ([]TriplePattern, error) {
	if t := p.peek(); t.kind != tLBrace {
		return nil, p.errorf(t, t.text, "expected '{'")
	}
	p.next()

	var patterns []TriplePattern
	for p.peek().kind != tRBrace {
		if p.peek().kind == tEOF {
			return nil, p.errorf(p.peek(), "", "unterminated group pattern")
		}
		pattern, err := p.parseTriplePattern()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
		if p.peek().kind == tDot {
			p.next()
		}
	}
	p.next() // '}'
	return patterns, nil
}

func (p *queryParser) parseTriplePattern() (TriplePattern, error) {
	s, err := p.parsePatternTerm(false)
	if err != nil {
		return TriplePattern{}, err
	}
	if lit, ok := s.Term.(rdf.Literal); ok {
		return TriplePattern{}, p.errorf(p.peek(), lit.Lexical, "literal not allowed as pattern subject")
	}

	pred, err := p.parsePatternTerm(true)
	if err != nil {
		return TriplePattern{}, err
	}

	o, err := p.parsePatternTerm(false)
	if err != nil {
		return TriplePattern{}, err
	}

	return TriplePattern{S: s, P: pred, O: o}, nil
}

// parsePatternTerm reads one triple pattern position. In predicate position
// the bare word "a" expands to rdf:type and literals are rejected.
func (p *queryParser) parsePatternTerm(predicate bool) (PatternTerm, error) {
	t := p.next()
	switch t.kind {
	case tVar:
		return PatternTerm{Var: t.text}, nil

	case tIRI:
		if t.text == "" {
			return PatternTerm{}, p.errorf(t, "<>", "empty IRI")
		}
		return PatternTerm{Term: rdf.IRI(t.text)}, nil

	case tWord:
		if predicate && t.text == "a" {
			return PatternTerm{Term: rdf.RDFType}, nil
		}
		iri, err := p.expandCURIE(t)
		if err != nil {
			return PatternTerm{}, err
		}
		return PatternTerm{Term: iri}, nil

	case tLiteral:
		if predicate {
			return PatternTerm{}, p.errorf(t, "", "literal not allowed as pattern predicate")
		}
		return PatternTerm{Term: t.term}, nil

	case tInt:
		if predicate {
			return PatternTerm{}, p.errorf(t, t.text, "number not allowed as pattern predicate")
		}
		return PatternTerm{Term: rdf.NewTypedLiteral(t.text, rdf.XSDInteger)}, nil

	default:
		return PatternTerm{}, p.errorf(t, t.text, "expected a variable, IRI, or literal")
	}
}

func (p *queryParser) expandCURIE(t qtoken) (rdf.IRI, error) {
	prefix, local, ok := strings.Cut(t.text, ":")
	if !ok {
		return "", p.errorf(t, t.text, "expected a prefixed name")
	}
	ns, declared := p.prefixes[prefix]
	if !declared {
		return "", p.errorf(t, t.text, "undeclared prefix %q", prefix)
	}
	return ns + rdf.IRI(local), nil
}

// patternVars returns the variables of the patterns in first-appearance
// order, the projection for SELECT *.
func patternVars(patterns []TriplePattern) []string {
	var vars []string
	seen := make(map[string]bool)
	add := func(pt PatternTerm) {
		if pt.isVar() && !seen[pt.Var] {
			seen[pt.Var] = true
			vars = append(vars, pt.Var)
		}
	}
	for _, pattern := range patterns {
		add(pattern.S)
		add(pattern.P)
		add(pattern.O)
	}
	return vars
}
