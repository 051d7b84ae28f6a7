package rdf

// Statement is one (subject, predicate, object) triple. Immutable once part
// of a Graph.
type Statement struct {
	Subject   Term
	Predicate IRI
	Object    Term
}

// String returns the N-Triples form of the statement, without trailing dot.
func (s Statement) String() string {
	return s.Subject.String() + " " + s.Predicate.String() + " " + s.Object.String()
}

// Graph is an insertion-ordered set of statements plus a root node.
// The root is the node a transformation starts from.
//
// Add deduplicates: re-adding an existing statement is a no-op, so a Graph
// behaves as a set while still exposing a stable order.
type Graph struct {
	root       Term
	statements []Statement
	seen       map[Statement]struct{}
}

// NewGraph creates an empty graph rooted at the given node.
func NewGraph(root Term) *Graph {
	return &Graph{
		root: root,
		seen: make(map[Statement]struct{}),
	}
}

// Root returns the designated root/context node.
func (g *Graph) Root() Term {
	return g.root
}

// Add appends a statement unless an identical one is already present.
func (g *Graph) Add(subject Term, predicate IRI, object Term) {
	st := Statement{Subject: subject, Predicate: predicate, Object: object}
	if _, ok := g.seen[st]; ok {
		return
	}
	g.seen[st] = struct{}{}
	g.statements = append(g.statements, st)
}

// AddStatement appends a statement unless an identical one is already present.
func (g *Graph) AddStatement(st Statement) {
	g.Add(st.Subject, st.Predicate, st.Object)
}

// Len returns the number of distinct statements.
func (g *Graph) Len() int {
	return len(g.statements)
}

// Statements returns the statements in insertion order.
// The returned slice is shared; callers must not modify it.
func (g *Graph) Statements() []Statement {
	return g.statements
}

// Contains reports whether the graph holds the given statement.
func (g *Graph) Contains(subject Term, predicate IRI, object Term) bool {
	_, ok := g.seen[Statement{Subject: subject, Predicate: predicate, Object: object}]
	return ok
}

// ObjectsOf returns the objects of all statements with the given subject and
// predicate, in statement insertion order.
func (g *Graph) ObjectsOf(subject Term, predicate IRI) []Term {
	var out []Term
	for _, st := range g.statements {
		if st.Subject == subject && st.Predicate == predicate {
			out = append(out, st.Object)
		}
	}
	return out
}

// SubjectsOf returns the subjects of all statements with the given predicate
// and object, in statement insertion order. This is the reverse-edge lookup.
func (g *Graph) SubjectsOf(predicate IRI, object Term) []Term {
	var out []Term
	for _, st := range g.statements {
		if st.Predicate == predicate && st.Object == object {
			out = append(out, st.Subject)
		}
	}
	return out
}
