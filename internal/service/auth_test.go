package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
)

func registerRequest(username string) RegisterRequest {
	return RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Anna",
		LastName:  "Petrova",
		Password:  "password123",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	u, err := env.auth.Register(ctx, registerRequest("anna"))
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "anna", u.Username)
	assert.False(t, u.IsSubscribed)

	stored, err := env.store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, stored.Role)
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, registerRequest("anna"))
	require.NoError(t, err)

	sameEmail := registerRequest("other")
	sameEmail.Email = "ANNA@example.com"
	_, err = env.auth.Register(ctx, sameEmail)
	de := assertCode(t, err, domainerrors.CodeAlreadyExists)
	assert.Contains(t, de.Details, "email")

	sameUsername := registerRequest("anna")
	sameUsername.Email = "someone@example.com"
	_, err = env.auth.Register(ctx, sameUsername)
	de = assertCode(t, err, domainerrors.CodeAlreadyExists)
	assert.Contains(t, de.Details, "username")
}

func TestAuthService_Register_Validation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		edit  func(*RegisterRequest)
		field string
	}{
		{"reserved username", func(r *RegisterRequest) { r.Username = "me" }, "username"},
		{"bad username chars", func(r *RegisterRequest) { r.Username = "anna smith" }, "username"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }, "password"},
		{"missing first name", func(r *RegisterRequest) { r.FirstName = "" }, "first_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest("anna")
			tt.edit(&req)
			_, err := env.auth.Register(ctx, req)
			assertFieldError(t, err, tt.field)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, registerRequest("anna"))
	require.NoError(t, err)

	resp, err := env.auth.Login(ctx, LoginRequest{Email: "Anna@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 15*60, resp.ExpiresIn)
	assert.Equal(t, "anna", resp.User.Username)

	user, claims, err := env.auth.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
	assert.Equal(t, resp.SessionID, claims.SessionID)
	assert.False(t, user.LastLoginAt.IsZero())
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, registerRequest("anna"))
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, LoginRequest{Email: "anna@example.com", Password: "wrong-password"})
	assertCode(t, err, domainerrors.CodeInvalidCredentials)

	_, err = env.auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assertCode(t, err, domainerrors.CodeInvalidCredentials)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, registerRequest("anna"))
	require.NoError(t, err)
	login, err := env.auth.Login(ctx, LoginRequest{Email: "anna@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := env.auth.RefreshTokens(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, login.SessionID, refreshed.SessionID)

	_, err = env.auth.RefreshTokens(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	assertCode(t, err, domainerrors.CodeTokenExpired)
}

func TestAuthService_LogoutEndsSession(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, registerRequest("anna"))
	require.NoError(t, err)
	login, err := env.auth.Login(ctx, LoginRequest{Email: "anna@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, login.SessionID))

	_, _, err = env.auth.VerifyAccessToken(ctx, login.AccessToken)
	assertCode(t, err, domainerrors.CodeUnauthorized)

	_, err = env.auth.RefreshTokens(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	assertCode(t, err, domainerrors.CodeTokenExpired)
}

func TestAuthService_VerifyAccessToken_Garbage(t *testing.T) {
	env := setupTestEnv(t)
	_, _, err := env.auth.VerifyAccessToken(context.Background(), "v4.local.garbage")
	assertCode(t, err, domainerrors.CodeUnauthorized)
}
