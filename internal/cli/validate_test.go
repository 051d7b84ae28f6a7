package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidProgram(t *testing.T) {
	program := writeFile(t, "prog.txt", "name = dc:title ;\n")

	out, _, err := execCLI(t, "validate", program, "--type", "application/rdf+ldpath")
	require.NoError(t, err)
	assert.Contains(t, out, "program valid")
}

func TestValidate_ValidQueryJSON(t *testing.T) {
	program := writeFile(t, "prog.rq", "SELECT ?s WHERE { ?s ?p ?o }")

	out, _, err := execCLI(t, "--format", "json", "validate", program, "--type", "application/sparql-query")
	require.NoError(t, err)

	var response struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)
	assert.True(t, response.Data.Valid)
}

func TestValidate_InvalidProgram(t *testing.T) {
	program := writeFile(t, "prog.txt", "name = dc:title ;\nname = dc:creator ;\n")

	out, _, err := execCLI(t, "validate", program, "--type", "application/rdf+ldpath")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "program invalid")
	assert.Contains(t, out, "PROGRAM_PARSE_ERROR")
}

func TestValidate_InvalidQueryJSON(t *testing.T) {
	program := writeFile(t, "prog.rq", "SELECT ?s WHERE { ?s ?p")

	out, _, err := execCLI(t, "--format", "json", "validate", program, "--type", "application/sparql-query")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var response struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "error", response.Status)
	assert.False(t, response.Data.Valid)
	assert.Equal(t, "INVALID_QUERY_SYNTAX", response.Data.Code)
}

func TestValidate_MissingFile(t *testing.T) {
	_, _, err := execCLI(t, "validate", "no-such-file.txt", "--type", "application/rdf+ldpath")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
