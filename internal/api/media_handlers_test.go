package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRecipeImage(t *testing.T) {
	ts := setupTestServer(t)
	c := ts.catalogue(t)
	alice := ts.register(t, "alice")
	recipe := ts.createRecipe(t, alice, recipeBody(t, c, "Borscht"))

	resp := ts.api.Get(recipe.Image)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, CacheOneWeek, resp.Header().Get("Cache-Control"))
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
	etag := resp.Header().Get("ETag")
	require.NotEmpty(t, etag)

	resp = ts.api.Get(recipe.Image, "If-None-Match: "+etag)
	assert.Equal(t, http.StatusNotModified, resp.Code)
}

func TestGetRecipeImage_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/media/recipes/missing.png")
	assertError(t, resp, http.StatusNotFound, "NOT_FOUND")
}
