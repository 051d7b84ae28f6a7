package ldpath

import (
	"fmt"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/rdf"
	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

// ParseNamed parses program source into an immutable Program carrying the
// given logical name.
//
// Parsing rejects, each with a distinct parse error: empty programs,
// duplicate field names, malformed selector syntax, references to
// undeclared prefixes, and unknown fn: functions.
func ParseNamed(name string, src []byte) (*Program, error) {
	tokens, err := lex(string(src))
	if err != nil {
		return nil, transform.NewParseError(err.Error(), "")
	}

	p := &parser{
		tokens:   tokens,
		prefixes: defaultPrefixes(),
	}

	var rules []FieldRule
	seen := make(map[string]bool)

	for p.peek().kind != tokEOF {
		switch p.peek().kind {
		case tokAt:
			if err := p.parsePrefixDecl(); err != nil {
				return nil, err
			}
		case tokIdent:
			line := p.peek().line
			rule, err := p.parseRule()
			if err != nil {
				return nil, err
			}
			if seen[rule.Name] {
				return nil, transform.NewParseError(
					fmt.Sprintf("line %d: duplicate field name", line), rule.Name)
			}
			seen[rule.Name] = true
			rules = append(rules, rule)
		default:
			return nil, p.unexpected("field name or @prefix")
		}
	}

	if len(rules) == 0 {
		return nil, transform.NewParseError("empty program: no field rules defined", "")
	}

	return &Program{Name: name, prefixes: p.prefixes, rules: rules}, nil
}

type parser struct {
	tokens   []token
	pos      int
	prefixes map[string]rdf.IRI
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return token{}, p.unexpected(kind.String())
	}
	return p.next(), nil
}

func (p *parser) unexpected(want string) error {
	t := p.peek()
	got := t.kind.String()
	if t.kind == tokIdent || t.kind == tokIRI || t.kind == tokString {
		got = fmt.Sprintf("%q", t.text)
	}
	return transform.NewParseError(
		fmt.Sprintf("line %d: expected %s, got %s", t.line, want, got), t.text)
}

// parsePrefixDecl handles: @prefix name : <iri> ;
func (p *parser) parsePrefixDecl() error {
	p.next() // consume '@'
	kw, err := p.expect(tokIdent)
	if err != nil {
		return err
	}
	if kw.text != "prefix" {
		return transform.NewParseError(
			fmt.Sprintf("line %d: expected 'prefix' after '@'", kw.line), kw.text)
	}

	name, err := p.expect(tokIdent)
	if err != nil {
		return err
	}
	if _, err := p.expect(tokColon); err != nil {
		return err
	}
	iri, err := p.expect(tokIRI)
	if err != nil {
		return err
	}
	if _, err := p.expect(tokSemicolon); err != nil {
		return err
	}

	p.prefixes[name.text] = rdf.IRI(iri.text)
	return nil
}

// parseRule handles: name = expr [:: datatype] ;
func (p *parser) parseRule() (FieldRule, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return FieldRule{}, err
	}
	if _, err := p.expect(tokEquals); err != nil {
		return FieldRule{}, err
	}

	rule := FieldRule{Name: name.text}

	if p.isFnCall() {
		rule.Fn, rule.Paths, err = p.parseFnCall()
	} else {
		var path Path
		path, err = p.parsePath()
		rule.Paths = []Path{path}
	}
	if err != nil {
		return FieldRule{}, err
	}

	if p.peek().kind == tokDoubleColon {
		p.next()
		datatype, err := p.parseRef()
		if err != nil {
			return FieldRule{}, err
		}
		rule.Datatype = datatype
	}

	if _, err := p.expect(tokSemicolon); err != nil {
		return FieldRule{}, err
	}
	return rule, nil
}

// isFnCall reports whether the upcoming tokens are "fn : ident (".
func (p *parser) isFnCall() bool {
	return p.peek().kind == tokIdent && p.peek().text == "fn" &&
		p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].kind == tokColon
}

func (p *parser) parseFnCall() (Func, []Path, error) {
	p.next() // "fn"
	p.next() // ':'
	name, err := p.expect(tokIdent)
	if err != nil {
		return FuncNone, nil, err
	}

	fn := Func(name.text)
	if !knownFuncs[fn] {
		return FuncNone, nil, transform.NewParseError(
			fmt.Sprintf("line %d: unknown selector function", name.line), "fn:"+name.text)
	}

	if _, err := p.expect(tokLParen); err != nil {
		return FuncNone, nil, err
	}

	var paths []Path
	for {
		path, err := p.parsePath()
		if err != nil {
			return FuncNone, nil, err
		}
		paths = append(paths, path)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		break
	}

	if _, err := p.expect(tokRParen); err != nil {
		return FuncNone, nil, err
	}
	return fn, paths, nil
}

func (p *parser) parsePath() (Path, error) {
	var steps []Step
	for {
		step, err := p.parseStep()
		if err != nil {
			return Path{}, err
		}
		steps = append(steps, step)
		if p.peek().kind == tokSlash {
			p.next()
			continue
		}
		break
	}
	return Path{Steps: steps}, nil
}

func (p *parser) parseStep() (Step, error) {
	if p.peek().kind == tokDot {
		p.next()
		return Step{Kind: StepSelf}, nil
	}

	step := Step{Kind: StepForward}
	if p.peek().kind == tokCaret {
		p.next()
		step.Kind = StepReverse
	}

	predicate, err := p.parseRef()
	if err != nil {
		return Step{}, err
	}
	step.Predicate = predicate

	if p.peek().kind == tokLBracket {
		filter, err := p.parseFilter()
		if err != nil {
			return Step{}, err
		}
		step.Filter = filter
	}
	return step, nil
}

// parseRef handles a predicate reference: either <iri> or prefix:local.
func (p *parser) parseRef() (rdf.IRI, error) {
	switch p.peek().kind {
	case tokIRI:
		t := p.next()
		if t.text == "" {
			return "", transform.NewParseError(
				fmt.Sprintf("line %d: empty IRI", t.line), "<>")
		}
		return rdf.IRI(t.text), nil

	case tokIdent:
		prefix := p.next()
		if _, err := p.expect(tokColon); err != nil {
			return "", err
		}
		local, err := p.expect(tokIdent)
		if err != nil {
			return "", err
		}
		ns, ok := p.prefixes[prefix.text]
		if !ok {
			return "", transform.NewParseError(
				fmt.Sprintf("line %d: undeclared prefix", prefix.line),
				prefix.text+":"+local.text)
		}
		return ns + rdf.IRI(local.text), nil

	default:
		return "", p.unexpected("predicate reference")
	}
}

// parseFilter handles: [@lang] or [ref is ref] or [ref is "literal"]
func (p *parser) parseFilter() (*Filter, error) {
	p.next() // '['

	if p.peek().kind == tokAt {
		p.next()
		lang, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		return &Filter{Kind: FilterLang, Lang: lang.text}, nil
	}

	predicate, err := p.parseRef()
	if err != nil {
		return nil, err
	}

	kw, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if kw.text != "is" {
		return nil, transform.NewParseError(
			fmt.Sprintf("line %d: expected 'is' in value filter", kw.line), kw.text)
	}

	var value rdf.Term
	if p.peek().kind == tokString {
		value = rdf.NewLiteral(p.next().text)
	} else {
		iri, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		value = iri
	}

	if _, err := p.expect(tokRBracket); err != nil {
		return nil, err
	}
	return &Filter{Kind: FilterValue, Predicate: predicate, Value: value}, nil
}
