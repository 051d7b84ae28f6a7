package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: sample
description: A sample scenario.
root: http://example.org/item
graph: |
  <http://example.org/item> <http://purl.org/dc/elements/1.1/title> "Report" .
program:
  name: default
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "sample", scenario.Name)
	assert.Equal(t, "default", scenario.Program.Name)
}

func TestLoadScenario_ResolvesGraphFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: sample
description: A sample scenario.
root: http://example.org/item
graph_file: fixtures/graph.nt
program:
  name: default
`), 0o644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fixtures", "graph.nt"), scenario.GraphFile)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"missing root",
			`
name: sample
description: d
graph: "x"
program:
  name: default
`,
		},
		{
			"both graph forms",
			`
name: sample
description: d
root: http://example.org/item
graph: "x"
graph_file: y.nt
program:
  name: default
`,
		},
		{
			"name and source",
			`
name: sample
description: d
root: http://example.org/item
graph: "x"
program:
  name: default
  source: "name = dc:title ;"
`,
		},
		{
			"source without media type",
			`
name: sample
description: d
root: http://example.org/item
graph: "x"
program:
  source: "name = dc:title ;"
`,
		},
		{
			"name with media type",
			`
name: sample
description: d
root: http://example.org/item
graph: "x"
program:
  name: default
  media_type: application/rdf+ldpath
`,
		},
		{
			"unknown field typo",
			`
name: sample
description: d
root: http://example.org/item
graph: "x"
program:
  name: default
expects:
  error: TRANSFORM_NOT_FOUND
`,
		},
		{
			"empty expect",
			`
name: sample
description: d
root: http://example.org/item
graph: "x"
program:
  name: default
expect: {}
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tc.content))
			require.Error(t, err)
		})
	}
}
