package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram-server/internal/dto"
)

func TestSubscribe_LimitsRecipePreview(t *testing.T) {
	ts := setupTestServer(t)
	c := ts.catalogue(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")
	for _, name := range []string{"One", "Two", "Three"} {
		ts.createRecipe(t, alice, recipeBody(t, c, name))
	}

	resp := ts.api.Post("/api/v1/users/"+alice.ID+"/subscribe?recipes_limit=2", bearer(bob.Token))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	sub := decode[dto.Subscription](t, resp.Body).Data
	assert.Equal(t, alice.ID, sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, 3, sub.RecipesCount)
	require.Len(t, sub.Recipes, 2)
	assert.Equal(t, "Three", sub.Recipes[0].Name)

	resp = ts.api.Post("/api/v1/users/"+alice.ID+"/subscribe", bearer(bob.Token))
	assertError(t, resp, http.StatusConflict, "CONFLICT")
}

func TestSubscribe_Errors(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.register(t, "alice")

	resp := ts.api.Post("/api/v1/users/"+alice.ID+"/subscribe", bearer(alice.Token))
	assertError(t, resp, http.StatusBadRequest, "VALIDATION")

	resp = ts.api.Post("/api/v1/users/user-missing/subscribe", bearer(alice.Token))
	assertError(t, resp, http.StatusNotFound, "NOT_FOUND")

	resp = ts.api.Post("/api/v1/users/"+alice.ID+"/subscribe?recipes_limit=-1", bearer(alice.Token))
	env := assertError(t, resp, http.StatusBadRequest, "VALIDATION")
	assert.Contains(t, env.Details, "recipes_limit")

	resp = ts.api.Post("/api/v1/users/" + alice.ID + "/subscribe")
	assertError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestListSubscriptions(t *testing.T) {
	ts := setupTestServer(t)
	c := ts.catalogue(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")
	carol := ts.register(t, "carol")
	ts.createRecipe(t, alice, recipeBody(t, c, "Borscht"))
	ts.createRecipe(t, alice, recipeBody(t, c, "Pelmeni"))

	for _, author := range []testUser{alice, bob} {
		resp := ts.api.Post("/api/v1/users/"+author.ID+"/subscribe", bearer(carol.Token))
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	resp := ts.api.Get("/api/v1/users/subscriptions?recipes_limit=1", bearer(carol.Token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	page := decode[Page[dto.Subscription]](t, resp.Body).Data
	require.Equal(t, 2, page.Count)

	byID := map[string]dto.Subscription{}
	for _, sub := range page.Results {
		byID[sub.ID] = sub
	}
	assert.Len(t, byID[alice.ID].Recipes, 1)
	assert.Equal(t, 2, byID[alice.ID].RecipesCount)
	assert.Empty(t, byID[bob.ID].Recipes)
	assert.NotNil(t, byID[bob.ID].Recipes)

	resp = ts.api.Delete("/api/v1/users/"+bob.ID+"/subscribe", bearer(carol.Token))
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Delete("/api/v1/users/"+bob.ID+"/subscribe", bearer(carol.Token))
	assertError(t, resp, http.StatusNotFound, "NOT_FOUND")

	resp = ts.api.Get("/api/v1/users/subscriptions", bearer(carol.Token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, decode[Page[dto.Subscription]](t, resp.Body).Data.Count)
}
