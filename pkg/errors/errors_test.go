package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorIncludesCause(t *testing.T) {
	err := NewFetchFailedError("fetch https://example.com", stderrors.New("HTTP 404"))
	assert.Equal(t, "FETCH_FAILED: fetch https://example.com: HTTP 404", err.Error())

	err = NewLowConfidenceError("confidence 40 below 70")
	assert.Equal(t, "LOW_CONFIDENCE: confidence 40 below 70", err.Error())
}

func TestTypeOf_FindsWrappedAppError(t *testing.T) {
	base := NewParseFailedError("llm response", stderrors.New("unexpected EOF"))
	wrapped := fmt.Errorf("pipeline: %w", base)

	assert.Equal(t, ErrorTypeParseFailed, TypeOf(wrapped))
	assert.True(t, Is(wrapped, ErrorTypeParseFailed))
	assert.False(t, Is(wrapped, ErrorTypeFetchFailed))
}

func TestTypeOf_PlainError(t *testing.T) {
	assert.Equal(t, ErrorType(""), TypeOf(stderrors.New("boom")))
	assert.False(t, Is(nil, ErrorTypeInternal))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("dial tcp: timeout")
	err := NewExternalError("llm proxy", cause)
	assert.ErrorIs(t, err, cause)
}
