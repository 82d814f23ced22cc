package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram-server/internal/dto"
)

func TestRegister_ReturnsUserWithoutPassword(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":      "bob@example.com",
		"username":   "bob",
		"first_name": "Bob",
		"last_name":  "Baker",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.NotContains(t, resp.Body.String(), "password")

	env := decode[dto.User](t, resp.Body)
	assert.Equal(t, "bob", env.Data.Username)
	assert.False(t, env.Data.IsSubscribed)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "bob")

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":      "other@example.com",
		"username":   "bob",
		"first_name": "Bob",
		"last_name":  "Baker",
		"password":   "password123",
	})
	env := assertError(t, resp, http.StatusConflict, "ALREADY_EXISTS")
	assert.Contains(t, env.Details, "username")
}

func TestRegister_ShortPassword(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":      "bob@example.com",
		"username":   "bob",
		"first_name": "Bob",
		"last_name":  "Baker",
		"password":   "short",
	})
	env := assertError(t, resp, http.StatusBadRequest, "VALIDATION")
	assert.Contains(t, env.Details, "password")
}

func TestMe_RequiresAuthentication(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me")
	assertError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestListUsers_PaginatesWithLinks(t *testing.T) {
	ts := setupTestServer(t)
	for _, name := range []string{"ann", "ben", "cat"} {
		ts.register(t, name)
	}

	resp := ts.api.Get("/api/v1/users?limit=2")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	first := decode[Page[dto.User]](t, resp.Body).Data
	assert.Equal(t, 3, first.Count)
	assert.Len(t, first.Results, 2)
	require.NotNil(t, first.Next)
	assert.Equal(t, "/api/v1/users?limit=2&page=2", *first.Next)
	assert.Nil(t, first.Previous)

	resp = ts.api.Get(*first.Next)
	require.Equal(t, http.StatusOK, resp.Code)
	second := decode[Page[dto.User]](t, resp.Body).Data
	assert.Len(t, second.Results, 1)
	assert.Nil(t, second.Next)
	require.NotNil(t, second.Previous)
	assert.Equal(t, "/api/v1/users?limit=2", *second.Previous)
}

func TestGetUser_SubscribedFlag(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")

	resp := ts.api.Post("/api/v1/users/"+bob.ID+"/subscribe", bearer(alice.Token))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/users/"+bob.ID, bearer(alice.Token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decode[dto.User](t, resp.Body).Data.IsSubscribed)

	resp = ts.api.Get("/api/v1/users/" + bob.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, decode[dto.User](t, resp.Body).Data.IsSubscribed)
}

func TestGetUser_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/usr_missing")
	assertError(t, resp, http.StatusNotFound, "NOT_FOUND")
}

func TestSetPassword(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.register(t, "alice")

	resp := ts.api.Post("/api/v1/users/set_password", bearer(alice.Token), map[string]any{
		"current_password": "wrong-password",
		"new_password":     "new-password-1",
	})
	env := assertError(t, resp, http.StatusBadRequest, "VALIDATION")
	assert.Contains(t, env.Details, "current_password")

	resp = ts.api.Post("/api/v1/users/set_password", bearer(alice.Token), map[string]any{
		"current_password": "password123",
		"new_password":     "new-password-1",
	})
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	ts.login(t, "alice@example.com", "new-password-1")
}
