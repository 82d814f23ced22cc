package api

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram-server/internal/domain"
)

var hexColor = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func TestCreateTag_AdminGetsGeneratedColor(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.admin(t)

	tag := ts.createTag(t, admin, "Quick Breakfast")

	assert.Equal(t, "Quick Breakfast", tag.Name)
	assert.Equal(t, "quick-breakfast", tag.Slug)
	assert.Regexp(t, hexColor, tag.Color)
}

func TestCreateTag_RegularUserForbidden(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.register(t, "alice")

	resp := ts.api.Post("/api/v1/tags", bearer(alice.Token), map[string]any{"name": "Soup"})
	assertError(t, resp, http.StatusForbidden, "FORBIDDEN")
}

func TestCreateTag_AnonymousUnauthorized(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": "Soup"})
	assertError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestCreateTag_DuplicateColor(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.admin(t)

	resp := ts.api.Post("/api/v1/tags", bearer(admin.Token), map[string]any{"name": "Soup", "color": "#49B64E"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/tags", bearer(admin.Token), map[string]any{"name": "Salad", "color": "#49b64e"})
	env := assertError(t, resp, http.StatusConflict, "CONFLICT")
	assert.Contains(t, env.Details, "color")
}

func TestListTags_SortedByName(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.admin(t)
	ts.createTag(t, admin, "Lunch")
	ts.createTag(t, admin, "Breakfast")

	resp := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	tags := decode[[]domain.Tag](t, resp.Body).Data
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)
	assert.Equal(t, "Lunch", tags[1].Name)
}

func TestListTags_EmptyIsArray(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"data":[]`)
}

func TestGetTag(t *testing.T) {
	ts := setupTestServer(t)
	tag := ts.createTag(t, ts.admin(t), "Soup")

	resp := ts.api.Get("/api/v1/tags/" + tag.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, tag, decode[domain.Tag](t, resp.Body).Data)

	resp = ts.api.Get("/api/v1/tags/tag_missing")
	assertError(t, resp, http.StatusNotFound, "NOT_FOUND")
}
