package store

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_IsSurvivesWithMessage(t *testing.T) {
	err := fmt.Errorf("add favorite: %w", ErrAlreadyExists.WithMessage("recipe already favorited"))

	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected errors.Is to match ErrAlreadyExists")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("did not expect ErrNotFound to match")
	}
}

func TestError_HTTPCode(t *testing.T) {
	var storeErr *Error
	if !errors.As(fmt.Errorf("wrap: %w", ErrNotFound), &storeErr) {
		t.Fatal("errors.As failed")
	}
	if storeErr.HTTPCode() != http.StatusNotFound {
		t.Errorf("HTTPCode() = %d, want 404", storeErr.HTTPCode())
	}
}

func TestError_WithCauseUnwraps(t *testing.T) {
	cause := errors.New("constraint")
	err := ErrInvalidInput.WithCause(cause)
	if !errors.Is(err, cause) {
		t.Errorf("cause not reachable through Unwrap")
	}
	if err.Error() != "invalid input: constraint" {
		t.Errorf("Error() = %q", err.Error())
	}
}
