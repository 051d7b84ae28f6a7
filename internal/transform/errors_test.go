package transform

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			"not found carries name",
			NewNotFoundError("deluxe2"),
			"TRANSFORM_NOT_FOUND: no transformation program stored under this name (name=deluxe2)",
		},
		{
			"unsupported kind carries media type",
			NewUnsupportedKindError("application/unknown"),
			"UNSUPPORTED_TRANSFORM_KIND: no transformation registered for content type (media type=application/unknown)",
		},
		{
			"parse error carries fragment",
			NewParseError("duplicate field name", "title"),
			`PROGRAM_PARSE_ERROR: duplicate field name (fragment="title")`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestErrorPredicates_MatchWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("resolve program: %w", NewNotFoundError("missing"))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsUnsupportedKind(wrapped))
	assert.False(t, IsStoreError(wrapped))

	assert.True(t, IsUnsupportedKind(NewUnsupportedKindError("text/x-unknown")))
	assert.True(t, IsParseError(NewParseError("empty program", "")))
	assert.True(t, IsQuerySyntaxError(NewQuerySyntaxError("unexpected token", "}")))
}

func TestStoreError_NotConflatedWithNotFound(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewStoreError("read program body", cause)

	assert.True(t, IsStoreError(err))
	assert.False(t, IsNotFound(err))
	assert.ErrorIs(t, err, cause)
}
