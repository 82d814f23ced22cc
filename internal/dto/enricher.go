package dto

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodgram/foodgram-server/internal/domain"
)

// RecipeImagePath is the URL path recipe images are served under.
const RecipeImagePath = "/media/recipes/"

// Store defines the lookups needed to denormalize users and recipes.
// Every method is batched so a page costs a fixed number of queries.
type Store interface {
	GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	GetRecipeTags(ctx context.Context, recipeIDs []string) (map[string][]*domain.Tag, error)
	GetRecipeIngredients(ctx context.Context, recipeIDs []string) (map[string][]domain.IngredientAmount, error)
	CountFavorites(ctx context.Context, recipeIDs []string) (map[string]int, error)
	FavoritedAmong(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)
	InShoppingCartAmong(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)
	SubscribedAmong(ctx context.Context, userID string, candidateIDs []string) (map[string]bool, error)
	RecipesByAuthors(ctx context.Context, authorIDs []string, limit int) (map[string][]*domain.Recipe, error)
	CountRecipesByAuthors(ctx context.Context, authorIDs []string) (map[string]int, error)
}

// Enricher denormalizes domain models for a given viewer.
//
// Design:
//   - Batch fetching: one query per relation, not per row
//   - Derived flags are false for an anonymous viewer (empty viewerID)
//     and their queries are skipped
type Enricher struct {
	store        Store
	mediaBaseURL string
}

// NewEnricher creates a new enricher. publicURL prefixes image URLs; an
// empty value yields root-relative URLs.
func NewEnricher(store Store, publicURL string) *Enricher {
	return &Enricher{
		store:        store,
		mediaBaseURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// ImageURL returns the URL a stored recipe image is served at.
func (e *Enricher) ImageURL(name string) string {
	if name == "" {
		return ""
	}
	return e.mediaBaseURL + RecipeImagePath + name
}

// Short converts a recipe to its compact representation.
func (e *Enricher) Short(r *domain.Recipe) RecipeShort {
	return RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       e.ImageURL(r.Image),
		CookingTime: r.CookingTime,
	}
}

// EnrichUser is EnrichUsers for a single user.
func (e *Enricher) EnrichUser(ctx context.Context, viewerID string, u *domain.User) (*User, error) {
	out, err := e.EnrichUsers(ctx, viewerID, []*domain.User{u})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EnrichUsers converts users and sets is_subscribed for viewerID.
func (e *Enricher) EnrichUsers(ctx context.Context, viewerID string, users []*domain.User) ([]*User, error) {
	subscribed, err := e.subscribed(ctx, viewerID, userIDs(users))
	if err != nil {
		return nil, err
	}
	out := make([]*User, len(users))
	for i, u := range users {
		out[i] = NewUser(u)
		out[i].IsSubscribed = subscribed[u.ID]
	}
	return out, nil
}

func (e *Enricher) subscribed(ctx context.Context, viewerID string, ids []string) (map[string]bool, error) {
	if viewerID == "" || len(ids) == 0 {
		return map[string]bool{}, nil
	}
	subscribed, err := e.store.SubscribedAmong(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch subscriptions: %w", err)
	}
	return subscribed, nil
}

// EnrichRecipe is EnrichRecipes for a single recipe.
func (e *Enricher) EnrichRecipe(ctx context.Context, viewerID string, r *domain.Recipe) (*Recipe, error) {
	out, err := e.EnrichRecipes(ctx, viewerID, []*domain.Recipe{r})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EnrichRecipes denormalizes a page of recipes for viewerID.
//
// The cost is fixed regardless of page size: tags, ingredients, favorite
// counts and authors take one query each, and an authenticated viewer adds
// one query per derived flag.
func (e *Enricher) EnrichRecipes(ctx context.Context, viewerID string, recipes []*domain.Recipe) ([]*Recipe, error) {
	if len(recipes) == 0 {
		return []*Recipe{}, nil
	}

	ids := make([]string, len(recipes))
	authorIDs := make([]string, 0, len(recipes))
	seenAuthors := make(map[string]bool, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
		if !seenAuthors[r.AuthorID] {
			seenAuthors[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	tags, err := e.store.GetRecipeTags(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch tags: %w", err)
	}
	ingredients, err := e.store.GetRecipeIngredients(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch ingredients: %w", err)
	}
	favoriteCounts, err := e.store.CountFavorites(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count favorites: %w", err)
	}

	authorList, err := e.store.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch authors: %w", err)
	}
	enrichedAuthors, err := e.EnrichUsers(ctx, viewerID, authorList)
	if err != nil {
		return nil, err
	}
	authors := make(map[string]*User, len(enrichedAuthors))
	for _, a := range enrichedAuthors {
		authors[a.ID] = a
	}

	favorited := map[string]bool{}
	inCart := map[string]bool{}
	if viewerID != "" {
		if favorited, err = e.store.FavoritedAmong(ctx, viewerID, ids); err != nil {
			return nil, fmt.Errorf("fetch favorites: %w", err)
		}
		if inCart, err = e.store.InShoppingCartAmong(ctx, viewerID, ids); err != nil {
			return nil, fmt.Errorf("fetch shopping cart: %w", err)
		}
	}

	out := make([]*Recipe, len(recipes))
	for i, r := range recipes {
		dto := &Recipe{
			ID:               r.ID,
			Tags:             tags[r.ID],
			Author:           authors[r.AuthorID],
			Ingredients:      ingredients[r.ID],
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            e.ImageURL(r.Image),
			ImageBlurHash:    r.ImageBlurHash,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			FavoritesCount:   favoriteCounts[r.ID],
			CreatedAt:        r.CreatedAt,
		}
		if dto.Tags == nil {
			dto.Tags = []*domain.Tag{}
		}
		if dto.Ingredients == nil {
			dto.Ingredients = []domain.IngredientAmount{}
		}
		out[i] = dto
	}
	return out, nil
}

// EnrichSubscriptions converts followed authors into subscription
// representations with up to recipesLimit newest recipes each. A negative
// recipesLimit includes all recipes.
func (e *Enricher) EnrichSubscriptions(ctx context.Context, viewerID string, users []*domain.User, recipesLimit int) ([]*Subscription, error) {
	enriched, err := e.EnrichUsers(ctx, viewerID, users)
	if err != nil {
		return nil, err
	}
	ids := userIDs(users)

	recipes, err := e.store.RecipesByAuthors(ctx, ids, recipesLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch recipes: %w", err)
	}
	counts, err := e.store.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}

	out := make([]*Subscription, len(enriched))
	for i, u := range enriched {
		shorts := make([]RecipeShort, 0, len(recipes[u.ID]))
		for _, r := range recipes[u.ID] {
			shorts = append(shorts, e.Short(r))
		}
		out[i] = &Subscription{
			User:         *u,
			Recipes:      shorts,
			RecipesCount: counts[u.ID],
		}
	}
	return out, nil
}

func userIDs(users []*domain.User) []string {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}
