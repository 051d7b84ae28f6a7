package transform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/rdf"
)

// Result is a sealed interface over the shapes a transformation can produce.
// Only Fields, Boolean, Table, and GraphResult implement it.
//
// A Result's shape is fully determined by the program that produced it,
// never by the graph it was applied to.
type Result interface {
	result()

	// MarshalJSON renders the result deterministically; same program and
	// same graph content produce byte-identical output.
	MarshalJSON() ([]byte, error)
}

// Field is one named value sequence in a Fields result. The Values slice
// holds zero or more extracted values in traversal order; an empty slice is
// a real result, not a missing field.
type Field struct {
	Name   string
	Values []rdf.Term
}

// Fields is the result of a path-expression transform: an ordered mapping
// from field name to extracted values, in program declaration order.
type Fields struct {
	Entries []Field
}

func (Fields) result() {}

// MarshalJSON renders {"field":["v1","v2"],...} in declaration order.
// Literals render as their lexical form, IRIs as the IRI text.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range f.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("marshal field name %q: %w", entry.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := marshalTermSlice(&buf, entry.Values); err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", entry.Name, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Boolean is the result of an ask-form query.
type Boolean bool

func (Boolean) result() {}

// MarshalJSON renders the bare boolean.
func (b Boolean) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// Row is one solution of a select-form query: bindings in variable
// declaration order. An unbound variable carries a nil Term.
type Row struct {
	Bindings []rdf.Term
}

// Table is the result of a select-form query: an ordered sequence of rows
// over a fixed variable list.
type Table struct {
	Vars []string
	Rows []Row
}

func (Table) result() {}

// MarshalJSON renders {"vars":[...],"rows":[{"var":"value",...},...]}.
// Unbound variables are omitted from their row object.
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"vars":`)
	vars, err := json.Marshal(t.Vars)
	if err != nil {
		return nil, fmt.Errorf("marshal vars: %w", err)
	}
	buf.Write(vars)
	buf.WriteString(`,"rows":[`)
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		wrote := false
		for j, name := range t.Vars {
			if j >= len(row.Bindings) || row.Bindings[j] == nil {
				continue
			}
			if wrote {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(name)
			if err != nil {
				return nil, fmt.Errorf("marshal var %q: %w", name, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := json.Marshal(rdf.Value(row.Bindings[j]))
			if err != nil {
				return nil, fmt.Errorf("marshal binding for %q: %w", name, err)
			}
			buf.Write(val)
			wrote = true
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}

// GraphResult is the result of a graph-construction query: a new derived
// graph, rooted at the source graph's root.
type GraphResult struct {
	Graph *rdf.Graph
}

func (GraphResult) result() {}

// MarshalJSON renders {"statements":["<s> <p> <o>",...]} in the derived
// graph's statement order.
func (g GraphResult) MarshalJSON() ([]byte, error) {
	lines := make([]string, 0, g.Graph.Len())
	for _, st := range g.Graph.Statements() {
		lines = append(lines, st.String()+" .")
	}
	var buf bytes.Buffer
	buf.WriteString(`{"statements":`)
	encoded, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("marshal statements: %w", err)
	}
	buf.Write(encoded)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalTermSlice(buf *bytes.Buffer, terms []rdf.Term) error {
	buf.WriteByte('[')
	for i, term := range terms {
		if i > 0 {
			buf.WriteByte(',')
		}
		encoded, err := json.Marshal(rdf.Value(term))
		if err != nil {
			return err
		}
		buf.Write(encoded)
	}
	buf.WriteByte(']')
	return nil
}
