package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/ldpath"
	"github.com/fcrepo4-labs/fcrepo-transform/internal/rdf"
	"github.com/fcrepo4-labs/fcrepo-transform/internal/sparql"
	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

// newRegistry assembles the transform families in registration order:
// path programs first, then query programs.
func newRegistry() *transform.Factory {
	return transform.NewFactory(
		transform.Registration{MediaType: ldpath.MediaType, New: ldpath.New},
		transform.Registration{MediaType: sparql.MediaType, New: sparql.New},
	)
}

// loadGraph reads an N-Triples file into a graph rooted at root.
func loadGraph(path, root string) (*rdf.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer f.Close()

	g, err := rdf.DecodeNTriples(f, rdf.IRI(root))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return g, nil
}

// loadPrefixes reads a YAML prefix map (prefix name to namespace IRI).
// Unknown structure is rejected rather than silently ignored.
func loadPrefixes(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefix map: %w", err)
	}

	var prefixes map[string]string
	if err := yaml.Unmarshal(data, &prefixes); err != nil {
		return nil, fmt.Errorf("parse prefix map %s: %w", path, err)
	}
	return prefixes, nil
}

// prependPrefixes emits declarations in the syntax of the program's media
// type ahead of the source. Prefixes are sorted so the preamble, and with
// it any reported line numbers, stays stable.
func prependPrefixes(source []byte, mediaType string, prefixes map[string]string) []byte {
	if len(prefixes) == 0 {
		return source
	}

	names := make([]string, 0, len(prefixes))
	for name := range prefixes {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		if mediaType == sparql.MediaType {
			fmt.Fprintf(&sb, "PREFIX %s: <%s>\n", name, prefixes[name])
		} else {
			fmt.Fprintf(&sb, "@prefix %s : <%s> ;\n", name, prefixes[name])
		}
	}
	sb.Write(source)
	return []byte(sb.String())
}
