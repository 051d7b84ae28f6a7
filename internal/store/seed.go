package store

import (
	_ "embed"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

//go:embed seed.cue
var seedCUE string

// seedManifest mirrors the shape of seed.cue for decoding.
type seedManifest struct {
	Programs []struct {
		Name      string `json:"name"`
		MediaType string `json:"mediaType"`
		Body      string `json:"body"`
	} `json:"programs"`
}

// loadSeeds compiles and validates the embedded manifest. The CUE schema
// constrains names to be non-empty and media types to the registered
// families, so a bad edit to seed.cue fails at open rather than at resolve.
func loadSeeds() ([]ProgramSource, error) {
	ctx := cuecontext.New()

	value := ctx.CompileString(seedCUE)
	if err := value.Err(); err != nil {
		return nil, transform.NewStoreError("compile seed manifest", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, transform.NewStoreError("validate seed manifest", err)
	}

	var manifest seedManifest
	if err := value.Decode(&manifest); err != nil {
		return nil, transform.NewStoreError("decode seed manifest", err)
	}

	seeds := make([]ProgramSource, 0, len(manifest.Programs))
	for _, p := range manifest.Programs {
		seeds = append(seeds, ProgramSource{
			Name:      p.Name,
			Path:      programPath(p.Name),
			MediaType: p.MediaType,
			Body:      p.Body,
		})
	}
	return seeds, nil
}
