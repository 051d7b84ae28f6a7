package ldpath

import (
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/rdf"
	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

// Apply evaluates every field rule in declaration order against the graph,
// starting from its root node. The receiver is never mutated; a Program may
// be applied concurrently from any number of goroutines.
func (p *Program) Apply(g *rdf.Graph) (transform.Result, error) {
	result := transform.Fields{Entries: make([]transform.Field, 0, len(p.rules))}

	for _, rule := range p.rules {
		values, err := p.evalRule(g, rule)
		if err != nil {
			return nil, err
		}
		slog.Debug("field rule evaluated",
			"program", p.Name,
			"field", rule.Name,
			"values", len(values),
		)
		result.Entries = append(result.Entries, transform.Field{Name: rule.Name, Values: values})
	}

	return result, nil
}

func (p *Program) evalRule(g *rdf.Graph, rule FieldRule) ([]rdf.Term, error) {
	// Evaluate argument paths in order and concatenate their results.
	var values []rdf.Term
	for _, path := range rule.Paths {
		pathValues, err := evalPath(g, path)
		if err != nil {
			return nil, err
		}
		values = appendDedup(values, pathValues)
	}

	values = applyFunc(rule.Fn, values)

	if rule.Datatype != "" {
		values = applyDatatype(values, rule.Datatype)
	}

	// An empty sequence is a real result; normalize nil for callers.
	if values == nil {
		values = []rdf.Term{}
	}
	return values, nil
}

// evalPath maps the root node through each step of the chain. Traversal
// depth is bounded by the chain length, never by graph structure.
func evalPath(g *rdf.Graph, path Path) ([]rdf.Term, error) {
	current := []rdf.Term{g.Root()}

	for _, step := range path.Steps {
		var next []rdf.Term
		switch step.Kind {
		case StepSelf:
			next = current

		case StepForward:
			if err := checkPredicate(step.Predicate); err != nil {
				return nil, err
			}
			for _, node := range current {
				next = appendDedup(next, g.ObjectsOf(node, step.Predicate))
			}

		case StepReverse:
			if err := checkPredicate(step.Predicate); err != nil {
				return nil, err
			}
			for _, node := range current {
				next = appendDedup(next, g.SubjectsOf(step.Predicate, node))
			}
		}

		if step.Filter != nil {
			next = applyFilter(g, next, step.Filter)
		}
		current = next
		if len(current) == 0 {
			break
		}
	}

	return current, nil
}

// checkPredicate guards against predicate identifiers that expanded to
// something other than an absolute IRI. Prefix bindings are only judged
// here, at evaluation, because a caller may legitimately install bindings
// that programs never exercise.
func checkPredicate(predicate rdf.IRI) error {
	if !strings.Contains(string(predicate), ":") {
		return transform.NewTraversalError(
			"selector step references a malformed predicate identifier", string(predicate))
	}
	return nil
}

func applyFilter(g *rdf.Graph, nodes []rdf.Term, filter *Filter) []rdf.Term {
	var kept []rdf.Term
	for _, node := range nodes {
		switch filter.Kind {
		case FilterLang:
			if lit, ok := node.(rdf.Literal); ok && lit.Lang == filter.Lang {
				kept = append(kept, node)
			}
		case FilterValue:
			if g.Contains(node, filter.Predicate, filter.Value) {
				kept = append(kept, node)
			}
		}
	}
	return kept
}

func applyFunc(fn Func, values []rdf.Term) []rdf.Term {
	switch fn {
	case FuncNone:
		return values

	case FuncFirst:
		if len(values) == 0 {
			return nil
		}
		return values[:1]

	case FuncLast:
		if len(values) == 0 {
			return nil
		}
		return values[len(values)-1:]

	case FuncCount:
		return []rdf.Term{rdf.NewTypedLiteral(strconv.Itoa(len(values)), rdf.XSDInteger)}

	case FuncConcat:
		if len(values) == 0 {
			return nil
		}
		var sb strings.Builder
		for _, v := range values {
			sb.WriteString(rdf.Value(v))
		}
		return []rdf.Term{rdf.NewLiteral(sb.String())}

	case FuncUpper:
		return mapLiterals(values, cases.Upper(language.Und))

	case FuncLower:
		return mapLiterals(values, cases.Lower(language.Und))

	default:
		// Unknown functions are rejected at parse time.
		return values
	}
}

// mapLiterals rewrites literal lexical forms through the caser, leaving
// language tags, datatypes, and non-literal terms untouched.
func mapLiterals(values []rdf.Term, caser cases.Caser) []rdf.Term {
	out := make([]rdf.Term, 0, len(values))
	for _, v := range values {
		if lit, ok := v.(rdf.Literal); ok {
			lit.Lexical = caser.String(lit.Lexical)
			out = append(out, lit)
			continue
		}
		out = append(out, v)
	}
	return out
}

// applyDatatype sets the annotated datatype on plain literals. Literals
// already typed or language-tagged, and non-literal terms, pass through.
func applyDatatype(values []rdf.Term, datatype rdf.IRI) []rdf.Term {
	out := make([]rdf.Term, 0, len(values))
	for _, v := range values {
		if lit, ok := v.(rdf.Literal); ok && lit.Lang == "" && lit.Datatype == "" {
			lit.Datatype = datatype
			out = append(out, lit)
			continue
		}
		out = append(out, v)
	}
	return out
}

// appendDedup appends terms not already present, preserving first
// occurrence order. This is the documented tie-break for repeated values
// reached through different nodes.
func appendDedup(dst []rdf.Term, src []rdf.Term) []rdf.Term {
	for _, candidate := range src {
		found := false
		for _, existing := range dst {
			if existing == candidate {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, candidate)
		}
	}
	return dst
}
