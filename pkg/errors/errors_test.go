package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	assert.Equal(t, http.StatusConflict, MetadataFor(CodeConflict).HTTPStatus)
	assert.Equal(t, http.StatusUnprocessableEntity, MetadataFor(CodeStateConflict).HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, MetadataFor(CodeValidation).HTTPStatus)
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOT_A_CODE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeInternal, cause, "wrapped")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeInternal, err.Code())
	assert.Equal(t, "INTERNAL_ERROR: wrapped", err.Error())
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	inner := New(CodeNotFound, "user missing")
	outer := fmt.Errorf("while loading: %w", inner)

	typed := As(outer)
	require.NotNil(t, typed)
	assert.Equal(t, CodeNotFound, typed.Code())
}

func TestSentinelSurvivesWithDetails(t *testing.T) {
	sentinel := New(CodeValidation, "self reference")
	detailed := sentinel.WithDetails(map[string]any{"source": "a"})

	require.NotSame(t, sentinel, detailed)
	assert.True(t, stdErrors.Is(detailed, sentinel))
	assert.Nil(t, sentinel.Details())
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("root")
	err := Wrap(CodeDependency, cause, "storage unavailable")

	dump := Dump(err)
	assert.Equal(t, CodeDependency, dump.Code)
	assert.Len(t, dump.Chain, 2)
}
