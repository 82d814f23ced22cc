package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodgram/foodgram-server/internal/access"
	"github.com/foodgram/foodgram-server/internal/auth"
	"github.com/foodgram/foodgram-server/internal/dto"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/store"
	"github.com/foodgram/foodgram-server/internal/validation"
)

// UserService handles user profiles and password changes.
type UserService struct {
	store      store.Store
	enricher   *dto.Enricher
	authorizer *access.Authorizer
	validator  *validation.Validator
	logger     *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	store store.Store,
	enricher *dto.Enricher,
	authorizer *access.Authorizer,
	validator *validation.Validator,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		store:      store,
		enricher:   enricher,
		authorizer: authorizer,
		validator:  validator,
		logger:     logger,
	}
}

// SetPasswordRequest changes the caller's password.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=1024"`
}

// GetUser returns a user as seen by viewer.
func (s *UserService) GetUser(ctx context.Context, viewer access.Subject, userID string) (*dto.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "get user", "user")
	}
	return s.enricher.EnrichUser(ctx, viewer.UserID, user)
}

// Me returns the authenticated user.
func (s *UserService) Me(ctx context.Context, viewer access.Subject) (*dto.User, error) {
	if viewer.IsAnonymous() {
		return nil, domainerrors.Unauthorized("authentication credentials were not provided")
	}
	return s.GetUser(ctx, viewer, viewer.UserID)
}

// ListUsers returns one page of users ordered by username.
func (s *UserService) ListUsers(ctx context.Context, viewer access.Subject, page store.PageParams) (store.PaginatedResult[*dto.User], error) {
	var empty store.PaginatedResult[*dto.User]

	result, err := s.store.ListUsers(ctx, page)
	if err != nil {
		return empty, fmt.Errorf("list users: %w", err)
	}
	users, err := s.enricher.EnrichUsers(ctx, viewer.UserID, result.Items)
	if err != nil {
		return empty, err
	}
	return store.PaginatedResult[*dto.User]{Items: users, Total: result.Total}, nil
}

// SetPassword replaces the caller's password after checking the current one.
func (s *UserService) SetPassword(ctx context.Context, viewer access.Subject, req SetPasswordRequest) error {
	if err := s.authorizer.Authorize(viewer, access.ObjectUser, access.ActionUpdate, viewer.UserID); err != nil {
		return err
	}
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	user, err := s.store.GetUser(ctx, viewer.UserID)
	if err != nil {
		return storeError(err, "get user", "user")
	}
	if !auth.VerifyPassword(user.PasswordHash, req.CurrentPassword) {
		return domainerrors.FieldError("current_password", "current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return storeError(err, "update user", "user")
	}

	s.logger.Info("Password changed", "user_id", user.ID)
	return nil
}
