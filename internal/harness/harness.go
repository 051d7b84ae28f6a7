package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/ldpath"
	"github.com/fcrepo4-labs/fcrepo-transform/internal/rdf"
	"github.com/fcrepo4-labs/fcrepo-transform/internal/sparql"
	"github.com/fcrepo4-labs/fcrepo-transform/internal/store"
	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

// Outcome is the observable result of one scenario run: either a Result
// with its serialized form, or the error code the run failed with.
type Outcome struct {
	Result    transform.Result
	ErrorCode transform.ErrorCode

	// JSON is the golden-file payload: the marshaled Result on success,
	// or {"error":"CODE"} for an expected failure.
	JSON []byte
}

// Registry assembles the transform families in registration order:
// path programs first, then query programs.
func Registry() *transform.Factory {
	return transform.NewFactory(
		transform.Registration{MediaType: ldpath.MediaType, New: ldpath.New},
		transform.Registration{MediaType: sparql.MediaType, New: sparql.New},
	)
}

// Run executes a scenario. A run that fails with the expected error code
// succeeds with that code captured in the Outcome; any other failure is
// returned as an error.
func Run(scenario *Scenario) (*Outcome, error) {
	ctx := context.Background()

	graph, err := loadGraph(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: load graph: %w", scenario.Name, err)
	}

	source, mediaType, err := programSource(ctx, scenario)
	if err != nil {
		return outcomeForError(scenario, err)
	}

	tr, err := Registry().Select(mediaType, source)
	if err != nil {
		return outcomeForError(scenario, err)
	}

	result, err := tr.Apply(graph)
	if err != nil {
		return outcomeForError(scenario, err)
	}

	if scenario.Expect != nil {
		return nil, fmt.Errorf("scenario %s: expected error %s, transform succeeded",
			scenario.Name, scenario.Expect.Error)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: marshal result: %w", scenario.Name, err)
	}

	return &Outcome{Result: result, JSON: payload}, nil
}

// loadGraph decodes the scenario's N-Triples fixture rooted at the
// scenario's root IRI.
func loadGraph(scenario *Scenario) (*rdf.Graph, error) {
	root := rdf.IRI(scenario.Root)

	if scenario.GraphFile != "" {
		f, err := os.Open(scenario.GraphFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return rdf.DecodeNTriples(f, root)
	}

	return rdf.DecodeNTriples(strings.NewReader(scenario.Graph), root)
}

// programSource yields the program text and media type to run. Named
// programs resolve against a fresh in-memory store, so only the builtin
// set is available.
func programSource(ctx context.Context, scenario *Scenario) ([]byte, string, error) {
	if scenario.Program.Name == "" {
		return []byte(scenario.Program.Source), scenario.Program.MediaType, nil
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, "", err
	}
	defer st.Close()

	src, err := st.Resolve(ctx, scenario.Program.Name)
	if err != nil {
		return nil, "", err
	}
	return []byte(src.Body), src.MediaType, nil
}

// outcomeForError turns an expected failure into a passing Outcome and
// passes every other failure through.
func outcomeForError(scenario *Scenario, err error) (*Outcome, error) {
	var te *transform.Error
	if scenario.Expect != nil && errors.As(err, &te) && string(te.Code) == scenario.Expect.Error {
		return &Outcome{
			ErrorCode: te.Code,
			JSON:      []byte(fmt.Sprintf(`{"error":%q}`, string(te.Code))),
		}, nil
	}
	return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
}
