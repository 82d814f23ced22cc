package service

import (
	"errors"
	"fmt"

	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/store"
)

// storeError translates store sentinels into domain errors naming resource.
// Anything else is wrapped with op and surfaces as an internal error.
func storeError(err error, op, resource string) error {
	var se *store.Error
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFoundf("%s not found", resource).WithCause(err)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Conflictf("%s already exists", resource).WithCause(err)
	case errors.As(err, &se) && se.Code == store.ErrInvalidInput.Code:
		return domainerrors.Validation(se.Message).WithCause(err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
