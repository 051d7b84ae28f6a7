package transform

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes transformation failures so the caller (typically an
// HTTP endpoint) can map them to distinct client-facing responses.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a stored program name has no resolvable source.
	ErrCodeNotFound ErrorCode = "TRANSFORM_NOT_FOUND"

	// ErrCodeUnsupportedKind indicates no registered transform family matches
	// the given content type.
	ErrCodeUnsupportedKind ErrorCode = "UNSUPPORTED_TRANSFORM_KIND"

	// ErrCodeParse indicates malformed program source: duplicate fields,
	// unknown selector functions, malformed selectors, or an empty program.
	ErrCodeParse ErrorCode = "PROGRAM_PARSE_ERROR"

	// ErrCodeQuerySyntax indicates malformed query text, detected at
	// compile time.
	ErrCodeQuerySyntax ErrorCode = "INVALID_QUERY_SYNTAX"

	// ErrCodeTraversal indicates a selector step referenced a malformed
	// predicate identifier at evaluation time.
	ErrCodeTraversal ErrorCode = "TRAVERSAL_ERROR"

	// ErrCodeStore indicates a program-store I/O failure. Deliberately
	// distinct from ErrCodeNotFound: a broken store is not a missing program.
	ErrCodeStore ErrorCode = "STORE_ERROR"
)

// Error is the typed failure reported by every component in this module.
// It carries enough context (name, content type, or offending fragment) to
// render a precise message.
type Error struct {
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Name is the stored program name, for ErrCodeNotFound.
	Name string

	// MediaType is the offending content type, for ErrCodeUnsupportedKind.
	MediaType string

	// Fragment is the offending program/query fragment, for parse and
	// traversal errors.
	Fragment string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	case e.MediaType != "":
		return fmt.Sprintf("%s: %s (media type=%s)", e.Code, e.Message, e.MediaType)
	case e.Fragment != "":
		return fmt.Sprintf("%s: %s (fragment=%q)", e.Code, e.Message, e.Fragment)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports an unknown stored program name.
func NewNotFoundError(name string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: "no transformation program stored under this name",
		Name:    name,
	}
}

// NewUnsupportedKindError reports an unrecognized program content type.
func NewUnsupportedKindError(mediaType string) *Error {
	return &Error{
		Code:      ErrCodeUnsupportedKind,
		Message:   "no transformation registered for content type",
		MediaType: mediaType,
	}
}

// NewParseError reports malformed program source.
func NewParseError(message, fragment string) *Error {
	return &Error{Code: ErrCodeParse, Message: message, Fragment: fragment}
}

// NewQuerySyntaxError reports malformed query text.
func NewQuerySyntaxError(message, fragment string) *Error {
	return &Error{Code: ErrCodeQuerySyntax, Message: message, Fragment: fragment}
}

// NewTraversalError reports a malformed predicate identifier hit during
// selector evaluation.
func NewTraversalError(message, fragment string) *Error {
	return &Error{Code: ErrCodeTraversal, Message: message, Fragment: fragment}
}

// NewStoreError wraps a program-store I/O failure.
func NewStoreError(message string, err error) *Error {
	return &Error{Code: ErrCodeStore, Message: message, Err: err}
}

// IsNotFound reports whether err is a TRANSFORM_NOT_FOUND failure.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsUnsupportedKind reports whether err is an UNSUPPORTED_TRANSFORM_KIND failure.
func IsUnsupportedKind(err error) bool {
	return hasCode(err, ErrCodeUnsupportedKind)
}

// IsParseError reports whether err is a PROGRAM_PARSE_ERROR failure.
func IsParseError(err error) bool {
	return hasCode(err, ErrCodeParse)
}

// IsQuerySyntaxError reports whether err is an INVALID_QUERY_SYNTAX failure.
func IsQuerySyntaxError(err error) bool {
	return hasCode(err, ErrCodeQuerySyntax)
}

// IsStoreError reports whether err is a STORE_ERROR failure.
func IsStoreError(err error) bool {
	return hasCode(err, ErrCodeStore)
}

func hasCode(err error, code ErrorCode) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}
