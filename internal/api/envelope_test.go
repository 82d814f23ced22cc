package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/http/response"
	"github.com/foodgram/foodgram-server/internal/store"
)

func TestEnvelopeTransformer_WrapsData(t *testing.T) {
	data := map[string]string{"id": "rcp_1"}

	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	env, ok := result.(response.Envelope)
	require.True(t, ok)
	assert.Equal(t, 1, env.Version)
	assert.True(t, env.Success)
	assert.Equal(t, data, env.Data)
	assert.Empty(t, env.Code)
}

func TestEnvelopeTransformer_APIErrorKeepsDetails(t *testing.T) {
	apiErr := &APIError{
		status:  http.StatusBadRequest,
		Code:    string(domainerrors.CodeValidation),
		Message: "must be at least 1",
		Details: map[string]string{"cooking_time": "must be at least 1"},
	}

	result, err := EnvelopeTransformer(nil, "400", apiErr)
	require.NoError(t, err)

	env := result.(response.Envelope)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Equal(t, "must be at least 1", env.Error)
	assert.Equal(t, env.Error, env.Message)
	assert.Equal(t, apiErr.Details, env.Details)
}

func TestEnvelopeTransformer_PlainErrorIsInternal(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "500", errors.New("boom"))
	require.NoError(t, err)

	env := result.(response.Envelope)
	assert.False(t, env.Success)
	assert.Equal(t, "INTERNAL", env.Code)
}

func TestEnvelopeTransformer_DoesNotDoubleWrap(t *testing.T) {
	in := response.Envelope{Version: response.APIVersion, Success: true, Data: "x"}

	result, err := EnvelopeTransformer(nil, "200", in)
	require.NoError(t, err)
	assert.Equal(t, in, result)
}

func TestRegisterErrorHandler_MapsErrors(t *testing.T) {
	RegisterErrorHandler()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"domain conflict", domainerrors.Conflict("recipe already in favorites"), http.StatusConflict, "CONFLICT"},
		{"domain forbidden", domainerrors.Forbidden("only the author may change this recipe"), http.StatusForbidden, "FORBIDDEN"},
		{"store not found", store.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"plain error", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statusErr := huma.NewError(http.StatusInternalServerError, "unexpected error", tt.err)

			apiErr, ok := statusErr.(*APIError)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.GetStatus())
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestRegisterErrorHandler_SchemaErrorsBecomeFieldDetails(t *testing.T) {
	RegisterErrorHandler()

	statusErr := huma.NewError(http.StatusUnprocessableEntity, "validation failed",
		&huma.ErrorDetail{Location: "query.recipes_limit", Message: "must be a non-negative integer"},
		&huma.ErrorDetail{Location: "body", Message: "unexpected property"},
	)

	apiErr := statusErr.(*APIError)
	assert.Equal(t, http.StatusBadRequest, apiErr.GetStatus())
	assert.Equal(t, "VALIDATION", apiErr.Code)
	assert.Equal(t, map[string]string{
		"recipes_limit":    "must be a non-negative integer",
		"non_field_errors": "unexpected property",
	}, apiErr.Details)
}
