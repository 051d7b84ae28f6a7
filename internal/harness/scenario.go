package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance case: a graph fixture, a program, and
// the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Root is the IRI of the node the transform is applied to.
	Root string `yaml:"root"`

	// Graph holds inline N-Triples. Exactly one of Graph and GraphFile
	// must be set.
	Graph string `yaml:"graph,omitempty"`

	// GraphFile is a path to an N-Triples fixture, relative to the
	// scenario file.
	GraphFile string `yaml:"graph_file,omitempty"`

	// Program selects the transform to run.
	Program ProgramRef `yaml:"program"`

	// Expect, when set, names the error code the run must fail with.
	// Absent means the run must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ProgramRef points at a stored program by name or carries inline source.
type ProgramRef struct {
	// Name resolves against the program store's builtin set.
	Name string `yaml:"name,omitempty"`

	// Source is inline program text. Requires MediaType.
	Source string `yaml:"source,omitempty"`

	// MediaType selects the transform family for inline source.
	MediaType string `yaml:"media_type,omitempty"`
}

// ExpectClause specifies an expected failure.
type ExpectClause struct {
	// Error is the expected error code, e.g. "TRANSFORM_NOT_FOUND".
	Error string `yaml:"error"`
}

// LoadScenario reads and parses a scenario YAML file. GraphFile paths are
// resolved relative to the scenario file's directory. Returns an error if
// the file is malformed, contains unknown fields (typos), or is missing
// required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if scenario.GraphFile != "" && !filepath.IsAbs(scenario.GraphFile) {
		scenario.GraphFile = filepath.Join(filepath.Dir(path), scenario.GraphFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml scenario under dir, sorted by file
// name for a stable run order.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob scenarios: %w", err)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		scenario, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and coherent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Root == "" {
		return fmt.Errorf("root is required")
	}

	if (s.Graph == "") == (s.GraphFile == "") {
		return fmt.Errorf("exactly one of graph and graph_file is required")
	}

	hasName := s.Program.Name != ""
	hasSource := s.Program.Source != ""
	switch {
	case hasName == hasSource:
		return fmt.Errorf("exactly one of program.name and program.source is required")
	case hasSource && s.Program.MediaType == "":
		return fmt.Errorf("program.media_type is required with program.source")
	case hasName && s.Program.MediaType != "":
		return fmt.Errorf("program.media_type conflicts with program.name")
	}

	if s.Expect != nil && s.Expect.Error == "" {
		return fmt.Errorf("expect.error must name an error code")
	}

	return nil
}
