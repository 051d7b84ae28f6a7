package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogNT = `<http://example.org/item> <http://purl.org/dc/elements/1.1/title> "Report" .
<http://example.org/item> <http://example.org/description> "A" .
<http://example.org/item> <http://example.org/description> "B" .
`

func TestApply_InlineProgramText(t *testing.T) {
	graph := writeFile(t, "graph.nt", catalogNT)
	program := writeFile(t, "prog.txt", "name = dc:title ;\n")

	out, _, err := execCLI(t,
		"apply", graph,
		"--root", "http://example.org/item",
		"--program", program,
		"--type", "application/rdf+ldpath",
	)
	require.NoError(t, err)
	assert.Equal(t, `{"name":["Report"]}`+"\n", out)
}

func TestApply_InlineProgramJSON(t *testing.T) {
	graph := writeFile(t, "graph.nt", catalogNT)
	program := writeFile(t, "prog.rq", "ASK { ?s ?p ?o }")

	out, _, err := execCLI(t,
		"--format", "json",
		"apply", graph,
		"--root", "http://example.org/item",
		"--program", program,
		"--type", "application/sparql-query",
	)
	require.NoError(t, err)

	var response struct {
		Status    string          `json:"status"`
		Data      json.RawMessage `json:"data"`
		RequestID string          `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "true", string(response.Data))
	assert.NotEmpty(t, response.RequestID)
}

func TestApply_StoredProgram(t *testing.T) {
	graph := writeFile(t, "graph.nt", catalogNT)
	db := filepath.Join(t.TempDir(), "programs.db")

	out, _, err := execCLI(t,
		"--db", db,
		"apply", graph,
		"--root", "http://example.org/item",
		"--name", "default",
	)
	require.NoError(t, err)
	assert.Equal(t, `{"id":["http://example.org/item"],"title":["Report"]}`+"\n", out)
}

func TestApply_UnknownStoredProgram(t *testing.T) {
	graph := writeFile(t, "graph.nt", catalogNT)
	db := filepath.Join(t.TempDir(), "programs.db")

	out, _, err := execCLI(t,
		"--db", db,
		"apply", graph,
		"--root", "http://example.org/item",
		"--name", "missing",
	)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "TRANSFORM_NOT_FOUND")
}

func TestApply_PrefixMap(t *testing.T) {
	graph := writeFile(t, "graph.nt", catalogNT)
	program := writeFile(t, "prog.txt", "desc = ex:description ;\n")
	prefixes := writeFile(t, "prefixes.yaml", "ex: http://example.org/\n")

	out, _, err := execCLI(t,
		"apply", graph,
		"--root", "http://example.org/item",
		"--program", program,
		"--type", "application/rdf+ldpath",
		"--prefixes", prefixes,
	)
	require.NoError(t, err)
	assert.Equal(t, `{"desc":["A","B"]}`+"\n", out)
}

func TestApply_FlagConflicts(t *testing.T) {
	graph := writeFile(t, "graph.nt", catalogNT)
	program := writeFile(t, "prog.txt", "name = dc:title ;\n")

	tests := []struct {
		name string
		args []string
	}{
		{"neither name nor program", []string{
			"apply", graph, "--root", "http://example.org/item",
		}},
		{"both name and program", []string{
			"apply", graph, "--root", "http://example.org/item",
			"--name", "default", "--program", program, "--type", "application/rdf+ldpath",
		}},
		{"program without type", []string{
			"apply", graph, "--root", "http://example.org/item",
			"--program", program,
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execCLI(t, tc.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestApply_UnsupportedMediaType(t *testing.T) {
	graph := writeFile(t, "graph.nt", catalogNT)
	program := writeFile(t, "prog.txt", "name = dc:title ;\n")

	out, _, err := execCLI(t,
		"apply", graph,
		"--root", "http://example.org/item",
		"--program", program,
		"--type", "text/turtle",
	)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "UNSUPPORTED_TRANSFORM_KIND")
}

func TestApply_MissingGraphFile(t *testing.T) {
	program := writeFile(t, "prog.txt", "name = dc:title ;\n")

	_, _, err := execCLI(t,
		"apply", filepath.Join(t.TempDir(), "absent.nt"),
		"--root", "http://example.org/item",
		"--program", program,
		"--type", "application/rdf+ldpath",
	)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
