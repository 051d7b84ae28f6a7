package transform

import (
	"log/slog"
	"mime"
	"strings"
)

// Constructor builds a transform bound to the given program source.
// Construction parses/compiles the source and may fail with a parse error.
type Constructor func(program []byte) (Transform, error)

// Registration binds a media type to a transform constructor.
// MediaType is matched against the type/subtype of the negotiated content
// type; parameters (charset etc.) are ignored.
type Registration struct {
	MediaType string
	New       Constructor
}

// Factory selects a transformation family by content type.
//
// The registry is fixed at construction and evaluated in order; the first
// entry whose media type matches wins. Registry order is significant for
// overlapping patterns, though the default registry has none. The Factory
// never executes a transform and never falls back to a default family.
type Factory struct {
	registry []Registration
}

// NewFactory creates a factory over the given registrations, preserving
// their order. The slice is copied so later caller mutation cannot change
// dispatch behavior.
func NewFactory(regs ...Registration) *Factory {
	registry := make([]Registration, len(regs))
	copy(registry, regs)
	return &Factory{registry: registry}
}

// Select matches the content type against the registry and returns a
// transform bound to the parsed program.
//
// Fails with ErrCodeUnsupportedKind, naming the offending content type,
// when no entry matches. Construction failures (malformed programs)
// propagate from the matched constructor.
func (f *Factory) Select(mediaType string, program []byte) (Transform, error) {
	normalized := normalizeMediaType(mediaType)
	if normalized == "" {
		return nil, NewUnsupportedKindError(mediaType)
	}

	for _, reg := range f.registry {
		if reg.MediaType != normalized {
			continue
		}
		slog.Debug("transform selected",
			"media_type", normalized,
		)
		return reg.New(program)
	}

	slog.Debug("no transform registered",
		"media_type", normalized,
	)
	return nil, NewUnsupportedKindError(mediaType)
}

// normalizeMediaType reduces a content-type header value to its lowercase
// type/subtype. Returns "" for unparseable input.
func normalizeMediaType(mediaType string) string {
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		// Fall back to the bare token for values like "application/foo"
		// that carry stray whitespace but no parameters.
		trimmed := strings.ToLower(strings.TrimSpace(mediaType))
		if trimmed == "" || strings.ContainsAny(trimmed, " ;") {
			return ""
		}
		return trimmed
	}
	return parsed
}
