package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the API envelope.
// Errors keep their code, message and details; anything else becomes data.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope, *response.Envelope:
		return body, nil
	case *APIError:
		return response.Envelope{
			Version: response.APIVersion,
			Error:   body.Message,
			Code:    body.Code,
			Message: body.Message,
			Details: body.Details,
		}, nil
	case error:
		var statusErr huma.StatusError
		code := statusToCode(0)
		if errors.As(body, &statusErr) {
			code = statusToCode(statusErr.GetStatus())
		}
		return response.Envelope{
			Version: response.APIVersion,
			Error:   body.Error(),
			Code:    code,
			Message: body.Error(),
		}, nil
	}

	return response.Envelope{
		Version: response.APIVersion,
		Success: true,
		Data:    v,
	}, nil
}
