package sparql

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/rdf"
	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

// binding is one partial or complete solution: variable name to bound term.
type binding map[string]rdf.Term

// Apply executes the compiled query against the graph's statements.
// The graph is never mutated; a Query may be applied concurrently.
func (q *Query) Apply(g *rdf.Graph) (transform.Result, error) {
	solutions := solve(g, q.Where)
	slog.Debug("query executed",
		"form", q.Form,
		"patterns", len(q.Where),
		"solutions", len(solutions),
	)

	switch q.Form {
	case FormAsk:
		return transform.Boolean(len(solutions) > 0), nil
	case FormSelect:
		return q.selectResult(solutions), nil
	case FormConstruct:
		return q.constructResult(g, solutions), nil
	default:
		return nil, transform.NewQuerySyntaxError(fmt.Sprintf("unknown query form %d", q.Form), "")
	}
}

// solve joins the patterns left to right. For each partial solution, the
// graph's statements are scanned in insertion order, so solutions come out
// in a deterministic order for a fixed graph.
func solve(g *rdf.Graph, patterns []TriplePattern) []binding {
	solutions := []binding{{}}

	for _, pattern := range patterns {
		var next []binding
		for _, partial := range solutions {
			for _, st := range g.Statements() {
				if extended, ok := matchStatement(pattern, st, partial); ok {
					next = append(next, extended)
				}
			}
		}
		solutions = next
		if len(solutions) == 0 {
			break
		}
	}

	return solutions
}

// matchStatement unifies one pattern with one statement under the partial
// binding. Returns the extended binding on success.
func matchStatement(pattern TriplePattern, st rdf.Statement, partial binding) (binding, bool) {
	extended := partial

	bind := func(pt PatternTerm, term rdf.Term) bool {
		if !pt.isVar() {
			return pt.Term == term
		}
		if bound, ok := extended[pt.Var]; ok {
			return bound == term
		}
		// Copy-on-write: extend only when a new variable binds.
		clone := make(binding, len(extended)+1)
		for k, v := range extended {
			clone[k] = v
		}
		clone[pt.Var] = term
		extended = clone
		return true
	}

	if !bind(pattern.S, st.Subject) {
		return nil, false
	}
	if !bind(pattern.P, st.Predicate) {
		return nil, false
	}
	if !bind(pattern.O, st.Object) {
		return nil, false
	}
	return extended, true
}

func (q *Query) selectResult(solutions []binding) transform.Table {
	table := transform.Table{Vars: q.Vars, Rows: []transform.Row{}}
	seen := make(map[string]bool)

	for _, solution := range solutions {
		row := transform.Row{Bindings: make([]rdf.Term, len(q.Vars))}
		for i, name := range q.Vars {
			row.Bindings[i] = solution[name] // nil when unbound
		}

		if q.Distinct {
			key := rowKey(row)
			if seen[key] {
				continue
			}
			seen[key] = true
		}

		table.Rows = append(table.Rows, row)
		if q.Limit > 0 && len(table.Rows) >= q.Limit {
			break
		}
	}

	return table
}

func rowKey(row transform.Row) string {
	var sb strings.Builder
	for _, term := range row.Bindings {
		if term != nil {
			sb.WriteString(term.String())
		}
		sb.WriteByte('\x00')
	}
	return sb.String()
}

// constructResult instantiates the template once per solution. Template
// triples with an unbound variable, a literal subject, or a non-IRI
// predicate are skipped for that solution; the derived graph deduplicates.
func (q *Query) constructResult(g *rdf.Graph, solutions []binding) transform.GraphResult {
	derived := rdf.NewGraph(g.Root())

	for _, solution := range solutions {
		for _, tmpl := range q.Template {
			subject, ok := resolveTerm(tmpl.S, solution)
			if !ok {
				continue
			}
			if _, isLit := subject.(rdf.Literal); isLit {
				continue
			}

			predTerm, ok := resolveTerm(tmpl.P, solution)
			if !ok {
				continue
			}
			predicate, isIRI := predTerm.(rdf.IRI)
			if !isIRI {
				continue
			}

			object, ok := resolveTerm(tmpl.O, solution)
			if !ok {
				continue
			}

			derived.Add(subject, predicate, object)
		}
	}

	return transform.GraphResult{Graph: derived}
}

func resolveTerm(pt PatternTerm, solution binding) (rdf.Term, bool) {
	if !pt.isVar() {
		return pt.Term, true
	}
	term, ok := solution[pt.Var]
	return term, ok && term != nil
}
