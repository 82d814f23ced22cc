package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/dto"
	"github.com/foodgram/foodgram-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/v1/users",
		Summary:       "Register user",
		Description:   "Creates a new user account",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Returns a page of users",
		Tags:        []string{"Users"},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID:   "setPassword",
		Method:        http.MethodPost,
		Path:          "/api/v1/users/set_password",
		Summary:       "Change password",
		Description:   "Changes the authenticated user's password",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleSetPassword)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user",
		Description: "Returns a user by ID",
		Tags:        []string{"Users"},
	}, s.handleGetUser)
}

// RegisterRequest is the request body for creating an account.
type RegisterRequest struct {
	Email     string `json:"email,omitempty" doc:"Email address"`
	Username  string `json:"username,omitempty" doc:"Unique username (letters, digits and @.+-_)"`
	FirstName string `json:"first_name,omitempty" doc:"First name"`
	LastName  string `json:"last_name,omitempty" doc:"Last name"`
	Password  string `json:"password,omitempty" doc:"Password, at least 8 characters"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// UserOutput wraps a user for Huma.
type UserOutput struct {
	Body *dto.User
}

// ListUsersInput contains parameters for listing users.
type ListUsersInput struct {
	PageQuery
}

// UserPageOutput wraps a page of users for Huma.
type UserPageOutput struct {
	Body Page[*dto.User]
}

// GetUserInput contains parameters for getting a user.
type GetUserInput struct {
	ID string `path:"id" doc:"User ID"`
}

// SetPasswordRequest is the request body for changing a password.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password,omitempty" doc:"Current password"`
	NewPassword     string `json:"new_password,omitempty" doc:"New password, at least 8 characters"`
}

// SetPasswordInput wraps the set password request for Huma.
type SetPasswordInput struct {
	Body SetPasswordRequest
}

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*UserOutput, error) {
	user, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Email:     input.Body.Email,
		Username:  input.Body.Username,
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Password:  input.Body.Password,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*UserPageOutput, error) {
	page := s.pageParams(input.PageQuery)
	result, err := s.services.User.ListUsers(ctx, optionalUser(ctx), page)
	if err != nil {
		return nil, err
	}
	return &UserPageOutput{Body: newPage(input.PageQuery, page, result)}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	viewer, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.services.User.Me(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleSetPassword(ctx context.Context, input *SetPasswordInput) (*struct{}, error) {
	viewer, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	err = s.services.User.SetPassword(ctx, viewer, service.SetPasswordRequest{
		CurrentPassword: input.Body.CurrentPassword,
		NewPassword:     input.Body.NewPassword,
	})
	if err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	user, err := s.services.User.GetUser(ctx, optionalUser(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}
