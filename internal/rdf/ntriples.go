package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseError reports a syntax error in an N-Triples document.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ntriples: line %d: %s", e.Line, e.Message)
}

// DecodeNTriples reads an N-Triples document into a graph rooted at root.
// Blank lines and # comment lines are skipped. Statements are added in
// document order, which becomes the graph's traversal order.
func DecodeNTriples(r io.Reader, root Term) (*Graph, error) {
	g := NewGraph(root)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		st, err := parseStatementLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		g.AddStatement(st)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ntriples: read: %w", err)
	}
	return g, nil
}

// EncodeNTriples writes the graph's statements as N-Triples lines in
// insertion order.
func EncodeNTriples(w io.Writer, g *Graph) error {
	for _, st := range g.Statements() {
		if _, err := fmt.Fprintf(w, "%s .\n", st.String()); err != nil {
			return fmt.Errorf("ntriples: write: %w", err)
		}
	}
	return nil
}

func parseStatementLine(line string, lineNo int) (Statement, error) {
	p := &lineParser{input: line, lineNo: lineNo}

	subject, err := p.term()
	if err != nil {
		return Statement{}, err
	}
	if _, ok := subject.(Literal); ok {
		return Statement{}, p.errorf("literal not allowed as subject")
	}

	p.skipSpace()
	predicate, err := p.term()
	if err != nil {
		return Statement{}, err
	}
	predIRI, ok := predicate.(IRI)
	if !ok {
		return Statement{}, p.errorf("predicate must be an IRI")
	}

	p.skipSpace()
	object, err := p.term()
	if err != nil {
		return Statement{}, err
	}

	p.skipSpace()
	if !p.consume('.') {
		return Statement{}, p.errorf("expected terminating '.'")
	}
	p.skipSpace()
	if !p.done() {
		return Statement{}, p.errorf("unexpected trailing content")
	}

	return Statement{Subject: subject, Predicate: predIRI, Object: object}, nil
}

type lineParser struct {
	input  string
	pos    int
	lineNo int
}

func (p *lineParser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.lineNo, Message: fmt.Sprintf(format, args...)}
}

func (p *lineParser) done() bool {
	return p.pos >= len(p.input)
}

func (p *lineParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.input[p.pos]
}

func (p *lineParser) consume(c byte) bool {
	if !p.done() && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *lineParser) skipSpace() {
	for !p.done() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *lineParser) term() (Term, error) {
	switch p.peek() {
	case '<':
		return p.iri()
	case '_':
		return p.blankNode()
	case '"':
		return p.literal()
	case 0:
		return nil, p.errorf("unexpected end of statement")
	default:
		return nil, p.errorf("unexpected character %q", p.peek())
	}
}

func (p *lineParser) iri() (IRI, error) {
	p.pos++ // consume '<'
	start := p.pos
	for !p.done() && p.input[p.pos] != '>' {
		p.pos++
	}
	if p.done() {
		return "", p.errorf("unterminated IRI")
	}
	iri := p.input[start:p.pos]
	p.pos++ // consume '>'
	if iri == "" {
		return "", p.errorf("empty IRI")
	}
	return IRI(iri), nil
}

func (p *lineParser) blankNode() (BlankNode, error) {
	if p.pos+1 >= len(p.input) || p.input[p.pos+1] != ':' {
		return "", p.errorf("malformed blank node label")
	}
	p.pos += 2 // consume "_:"
	start := p.pos
	for !p.done() && !isTermBoundary(p.input[p.pos]) {
		p.pos++
	}
	label := p.input[start:p.pos]
	if label == "" {
		return "", p.errorf("empty blank node label")
	}
	return BlankNode(label), nil
}

func (p *lineParser) literal() (Literal, error) {
	p.pos++ // consume opening quote
	var sb strings.Builder
	for {
		if p.done() {
			return Literal{}, p.errorf("unterminated literal")
		}
		c := p.input[p.pos]
		if c == '"' {
			p.pos++
			break
		}
		if c == '\\' {
			p.pos++
			if p.done() {
				return Literal{}, p.errorf("dangling escape in literal")
			}
			switch p.input[p.pos] {
			case 't':
				sb.WriteByte('\t')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				return Literal{}, p.errorf("unsupported escape \\%c", p.input[p.pos])
			}
			p.pos++
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}

	lexical := sb.String()

	// Optional language tag or datatype suffix.
	switch {
	case p.consume('@'):
		start := p.pos
		for !p.done() && !isTermBoundary(p.input[p.pos]) {
			p.pos++
		}
		lang := p.input[start:p.pos]
		if lang == "" {
			return Literal{}, p.errorf("empty language tag")
		}
		return NewLangLiteral(lexical, lang), nil

	case strings.HasPrefix(p.input[p.pos:], "^^"):
		p.pos += 2
		if p.peek() != '<' {
			return Literal{}, p.errorf("datatype must be an IRI")
		}
		dt, err := p.iri()
		if err != nil {
			return Literal{}, err
		}
		return NewTypedLiteral(lexical, dt), nil

	default:
		return NewLiteral(lexical), nil
	}
}

func isTermBoundary(c byte) bool {
	return c == ' ' || c == '\t' || c == '.'
}
