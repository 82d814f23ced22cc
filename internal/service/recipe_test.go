package service

import (
	"context"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram-server/internal/access"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/store"
)

func TestRecipeService_CreateRecipe(t *testing.T) {
	env := setupTestEnv(t)
	f := env.fixture(t)
	anna := env.createUser(t, "anna")

	req := validRecipe(t, f)
	req.Text = "<p>Boil the <strong>beets</strong>.</p>"
	r := env.createRecipe(t, anna, req)

	assert.Equal(t, "Borscht", r.Name)
	assert.Equal(t, "Boil the **beets**.", r.Text)
	assert.Equal(t, 90, r.CookingTime)
	assert.Equal(t, anna.UserID, r.Author.ID)
	require.Len(t, r.Tags, 1)
	assert.Equal(t, f.soup.Slug, r.Tags[0].Slug)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "beet", r.Ingredients[0].Name)
	assert.Equal(t, 300, r.Ingredients[0].Amount)
	assert.False(t, r.IsFavorited)
	assert.False(t, r.IsInShoppingCart)
	assert.Contains(t, r.Image, "/media/recipes/")
	assert.NotEmpty(t, r.ImageBlurHash)
	assert.True(t, env.images.Storage().Exists(path.Base(r.Image)))
}

func TestRecipeService_CreateRecipe_Validation(t *testing.T) {
	env := setupTestEnv(t)
	f := env.fixture(t)
	anna := env.createUser(t, "anna")
	ctx := context.Background()

	tests := []struct {
		name  string
		edit  func(*RecipeWrite)
		field string
	}{
		{"no ingredients", func(r *RecipeWrite) { r.Ingredients = nil }, "ingredients"},
		{"duplicate ingredient", func(r *RecipeWrite) {
			r.Ingredients = []RecipeIngredientWrite{{ID: f.beet.ID, Amount: 1}, {ID: f.beet.ID, Amount: 2}}
		}, "ingredients"},
		{"zero amount", func(r *RecipeWrite) { r.Ingredients[1].Amount = 0 }, "ingredients[1].amount"},
		{"unknown ingredient", func(r *RecipeWrite) { r.Ingredients[0].ID = "ingr-missing" }, "ingredients"},
		{"no tags", func(r *RecipeWrite) { r.Tags = []string{} }, "tags"},
		{"duplicate tag", func(r *RecipeWrite) { r.Tags = []string{f.soup.ID, f.soup.ID} }, "tags"},
		{"unknown tag", func(r *RecipeWrite) { r.Tags = []string{"tag-missing"} }, "tags"},
		{"zero cooking time", func(r *RecipeWrite) { r.CookingTime = 0 }, "cooking_time"},
		{"too long cooking time", func(r *RecipeWrite) { r.CookingTime = 32001 }, "cooking_time"},
		{"empty name", func(r *RecipeWrite) { r.Name = "   " }, "name"},
		{"empty text", func(r *RecipeWrite) { r.Text = "" }, "text"},
		{"missing image", func(r *RecipeWrite) { r.Image = "" }, "image"},
		{"bad image", func(r *RecipeWrite) { r.Image = "data:text/plain;base64,aGVsbG8=" }, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRecipe(t, f)
			tt.edit(&req)
			_, err := env.recipes.CreateRecipe(ctx, anna, req)
			assertFieldError(t, err, tt.field)
		})
	}

	result, err := env.recipes.ListRecipes(ctx, access.Anonymous(), RecipeListParams{Page: store.PageParams{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Zero(t, result.Total)
}

func TestRecipeService_CreateRecipe_Anonymous(t *testing.T) {
	env := setupTestEnv(t)
	f := env.fixture(t)

	_, err := env.recipes.CreateRecipe(context.Background(), access.Anonymous(), validRecipe(t, f))
	assertCode(t, err, domainerrors.CodeUnauthorized)
}

func TestRecipeService_UpdateRecipe(t *testing.T) {
	env := setupTestEnv(t)
	f := env.fixture(t)
	anna := env.createUser(t, "anna")
	ctx := context.Background()
	created := env.createRecipe(t, anna, validRecipe(t, f))

	req := validRecipe(t, f)
	req.Image = ""
	req.Name = "Cold borscht"
	req.Tags = []string{f.dinner.ID}
	req.Ingredients = []RecipeIngredientWrite{{ID: f.salt.ID, Amount: 1}}

	updated, err := env.recipes.UpdateRecipe(ctx, anna, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Cold borscht", updated.Name)
	assert.Equal(t, created.Image, updated.Image, "omitted image keeps the current one")
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, f.dinner.ID, updated.Tags[0].ID)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "salt", updated.Ingredients[0].Name)

	req.Image = pngDataURI(t)
	replaced, err := env.recipes.UpdateRecipe(ctx, anna, created.ID, req)
	require.NoError(t, err)
	assert.NotEqual(t, created.Image, replaced.Image)
	assert.False(t, env.images.Storage().Exists(path.Base(created.Image)))
	assert.True(t, env.images.Storage().Exists(path.Base(replaced.Image)))
}

func TestRecipeService_OnlyAuthorMutates(t *testing.T) {
	env := setupTestEnv(t)
	f := env.fixture(t)
	anna := env.createUser(t, "anna")
	boris := env.createUser(t, "boris")
	ctx := context.Background()
	r := env.createRecipe(t, anna, validRecipe(t, f))

	_, err := env.recipes.UpdateRecipe(ctx, boris, r.ID, validRecipe(t, f))
	assertCode(t, err, domainerrors.CodeForbidden)

	_, err = env.recipes.UpdateRecipe(ctx, f.admin, r.ID, validRecipe(t, f))
	assertCode(t, err, domainerrors.CodeForbidden)

	err = env.recipes.DeleteRecipe(ctx, boris, r.ID)
	assertCode(t, err, domainerrors.CodeForbidden)

	err = env.recipes.DeleteRecipe(ctx, access.Anonymous(), r.ID)
	assertCode(t, err, domainerrors.CodeUnauthorized)

	_, err = env.recipes.UpdateRecipe(ctx, anna, "rcp-missing", validRecipe(t, f))
	assertCode(t, err, domainerrors.CodeNotFound)
}

func TestRecipeService_DeleteRecipe(t *testing.T) {
	env := setupTestEnv(t)
	f := env.fixture(t)
	anna := env.createUser(t, "anna")
	ctx := context.Background()
	r := env.createRecipe(t, anna, validRecipe(t, f))

	require.NoError(t, env.recipes.DeleteRecipe(ctx, anna, r.ID))
	assert.False(t, env.images.Storage().Exists(path.Base(r.Image)))

	_, err := env.recipes.GetRecipe(ctx, anna, r.ID)
	assertCode(t, err, domainerrors.CodeNotFound)

	err = env.recipes.DeleteRecipe(ctx, anna, r.ID)
	assertCode(t, err, domainerrors.CodeNotFound)
}

func TestRecipeService_ListRecipes_Filters(t *testing.T) {
	env := setupTestEnv(t)
	f := env.fixture(t)
	anna := env.createUser(t, "anna")
	boris := env.createUser(t, "boris")
	ctx := context.Background()

	soup := env.createRecipe(t, anna, validRecipe(t, f))
	dinnerReq := validRecipe(t, f)
	dinnerReq.Name = "Pelmeni"
	dinnerReq.Tags = []string{f.dinner.ID}
	dinner := env.createRecipe(t, boris, dinnerReq)

	_, err := env.favorites.AddFavorite(ctx, anna, dinner.ID)
	require.NoError(t, err)
	_, err = env.shoppingCart.AddToCart(ctx, anna, soup.ID)
	require.NoError(t, err)

	page := store.PageParams{Page: 1, Limit: 10}
	ids := func(params RecipeListParams, viewer access.Subject) []string {
		t.Helper()
		params.Page = page
		result, err := env.recipes.ListRecipes(ctx, viewer, params)
		require.NoError(t, err)
		out := make([]string, len(result.Items))
		for i, r := range result.Items {
			out[i] = r.ID
		}
		return out
	}

	assert.Equal(t, []string{dinner.ID, soup.ID}, ids(RecipeListParams{}, anna), "newest first")
	assert.Equal(t, []string{soup.ID}, ids(RecipeListParams{AuthorID: anna.UserID}, anna))
	assert.Equal(t, []string{dinner.ID}, ids(RecipeListParams{TagSlugs: []string{f.dinner.Slug}}, anna))
	assert.ElementsMatch(t, []string{dinner.ID, soup.ID}, ids(RecipeListParams{TagSlugs: []string{f.dinner.Slug, f.soup.Slug}}, anna))
	assert.Equal(t, []string{dinner.ID}, ids(RecipeListParams{IsFavorited: true}, anna))
	assert.Equal(t, []string{soup.ID}, ids(RecipeListParams{IsInShoppingCart: true}, anna))
	assert.Empty(t, ids(RecipeListParams{IsFavorited: true}, boris))
	assert.Len(t, ids(RecipeListParams{IsFavorited: true}, access.Anonymous()), 2, "ignored for anonymous")

	result, err := env.recipes.ListRecipes(ctx, anna, RecipeListParams{Page: page})
	require.NoError(t, err)
	assert.True(t, result.Items[0].IsFavorited)
	assert.False(t, result.Items[0].IsInShoppingCart)
	assert.True(t, result.Items[1].IsInShoppingCart)
	assert.Equal(t, 1, result.Items[0].FavoritesCount)
}
