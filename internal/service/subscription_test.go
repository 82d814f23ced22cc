package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram-server/internal/access"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/store"
)

func TestSubscriptionService_Subscribe(t *testing.T) {
	env := setupTestEnv(t)
	f := env.fixture(t)
	anna := env.createUser(t, "anna")
	boris := env.createUser(t, "boris")
	ctx := context.Background()
	for _, name := range []string{"Borscht", "Pelmeni", "Blini"} {
		req := validRecipe(t, f)
		req.Name = name
		env.createRecipe(t, boris, req)
	}

	sub, err := env.subscriptions.Subscribe(ctx, anna, boris.UserID, 2)
	require.NoError(t, err)
	assert.Equal(t, boris.UserID, sub.ID)
	assert.Equal(t, "boris", sub.Username)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, 3, sub.RecipesCount)
	require.Len(t, sub.Recipes, 2)
	assert.Equal(t, "Blini", sub.Recipes[0].Name, "newest first")

	_, err = env.subscriptions.Subscribe(ctx, anna, boris.UserID, UnlimitedRecipes)
	assertCode(t, err, domainerrors.CodeConflict)
}

func TestSubscriptionService_Subscribe_Errors(t *testing.T) {
	env := setupTestEnv(t)
	anna := env.createUser(t, "anna")
	ctx := context.Background()

	_, err := env.subscriptions.Subscribe(ctx, anna, anna.UserID, UnlimitedRecipes)
	assertCode(t, err, domainerrors.CodeValidation)

	_, err = env.subscriptions.Subscribe(ctx, anna, "user-missing", UnlimitedRecipes)
	assertCode(t, err, domainerrors.CodeNotFound)

	_, err = env.subscriptions.Subscribe(ctx, access.Anonymous(), anna.UserID, UnlimitedRecipes)
	assertCode(t, err, domainerrors.CodeUnauthorized)
}

func TestSubscriptionService_Unsubscribe(t *testing.T) {
	env := setupTestEnv(t)
	anna := env.createUser(t, "anna")
	boris := env.createUser(t, "boris")
	ctx := context.Background()

	err := env.subscriptions.Unsubscribe(ctx, anna, boris.UserID)
	assertCode(t, err, domainerrors.CodeNotFound)

	_, err = env.subscriptions.Subscribe(ctx, anna, boris.UserID, UnlimitedRecipes)
	require.NoError(t, err)
	require.NoError(t, env.subscriptions.Unsubscribe(ctx, anna, boris.UserID))

	u, err := env.users.GetUser(ctx, anna, boris.UserID)
	require.NoError(t, err)
	assert.False(t, u.IsSubscribed)
}

func TestSubscriptionService_ListSubscriptions(t *testing.T) {
	env := setupTestEnv(t)
	f := env.fixture(t)
	anna := env.createUser(t, "anna")
	ctx := context.Background()
	for _, name := range []string{"zoe", "boris", "carol"} {
		author := env.createUser(t, name)
		env.createRecipe(t, author, validRecipe(t, f))
		_, err := env.subscriptions.Subscribe(ctx, anna, author.UserID, UnlimitedRecipes)
		require.NoError(t, err)
	}

	page := store.PageParams{Page: 1, Limit: 2}
	result, err := env.subscriptions.ListSubscriptions(ctx, anna, page, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "boris", result.Items[0].Username)
	assert.Equal(t, "carol", result.Items[1].Username)
	assert.Empty(t, result.Items[0].Recipes, "limit 0 returns no previews")
	assert.Equal(t, 1, result.Items[0].RecipesCount)
	assert.True(t, result.HasNext(page))

	_, err = env.subscriptions.ListSubscriptions(ctx, access.Anonymous(), page, 0)
	assertCode(t, err, domainerrors.CodeUnauthorized)
}
