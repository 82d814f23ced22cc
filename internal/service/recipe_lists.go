package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/foodgram/foodgram-server/internal/access"
	"github.com/foodgram/foodgram-server/internal/dto"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/metrics"
	"github.com/foodgram/foodgram-server/internal/store"
)

// recipeList is a per-user set of recipes toggled on and off: favorites or
// the shopping cart. Adding relies on the unique constraint rather than a
// prior lookup, so concurrent duplicates resolve to one row and a conflict.
type recipeList struct {
	store      store.Store
	enricher   *dto.Enricher
	authorizer *access.Authorizer
	metrics    *metrics.Metrics
	logger     *slog.Logger

	kind       string
	object     access.Object
	add        func(ctx context.Context, userID, recipeID string) error
	remove     func(ctx context.Context, userID, recipeID string) error
	existsMsg  string
	missingMsg string
}

// Add puts the recipe in the list and returns its short representation.
func (l *recipeList) Add(ctx context.Context, actor access.Subject, recipeID string) (*dto.RecipeShort, error) {
	if err := l.authorizer.Authorize(actor, l.object, access.ActionCreate, ""); err != nil {
		return nil, err
	}

	err := l.add(ctx, actor.UserID, recipeID)
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		l.metrics.RecordToggle(l.kind, metrics.ResultConflict)
		return nil, domainerrors.Conflict(l.existsMsg).WithCause(err)
	case errors.Is(err, store.ErrNotFound):
		return nil, domainerrors.NotFound("recipe not found").WithCause(err)
	case err != nil:
		return nil, fmt.Errorf("add to %s: %w", l.kind, err)
	}
	l.metrics.RecordToggle(l.kind, metrics.ResultAdded)

	recipe, err := l.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, storeError(err, "get recipe", "recipe")
	}

	l.logger.Info("Recipe added", "list", l.kind, "user_id", actor.UserID, "recipe_id", recipeID)
	short := l.enricher.Short(recipe)
	return &short, nil
}

// Remove takes the recipe out of the list. Removing a recipe that is not in
// the list is NOT_FOUND.
func (l *recipeList) Remove(ctx context.Context, actor access.Subject, recipeID string) error {
	if err := l.authorizer.Authorize(actor, l.object, access.ActionDelete, ""); err != nil {
		return err
	}

	err := l.remove(ctx, actor.UserID, recipeID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		l.metrics.RecordToggle(l.kind, metrics.ResultMissing)
		return domainerrors.NotFound(l.missingMsg).WithCause(err)
	case err != nil:
		return fmt.Errorf("remove from %s: %w", l.kind, err)
	}
	l.metrics.RecordToggle(l.kind, metrics.ResultRemoved)

	l.logger.Info("Recipe removed", "list", l.kind, "user_id", actor.UserID, "recipe_id", recipeID)
	return nil
}

// FavoriteService toggles recipes in a user's favorites.
type FavoriteService struct {
	list *recipeList
}

// NewFavoriteService creates a new favorites service.
func NewFavoriteService(
	store store.Store,
	enricher *dto.Enricher,
	authorizer *access.Authorizer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *FavoriteService {
	return &FavoriteService{list: &recipeList{
		store:      store,
		enricher:   enricher,
		authorizer: authorizer,
		metrics:    m,
		logger:     logger,
		kind:       metrics.ToggleFavorite,
		object:     access.ObjectFavorite,
		add:        store.AddFavorite,
		remove:     store.RemoveFavorite,
		existsMsg:  "recipe is already in favorites",
		missingMsg: "recipe is not in favorites",
	}}
}

// AddFavorite marks a recipe as favorited by actor.
func (s *FavoriteService) AddFavorite(ctx context.Context, actor access.Subject, recipeID string) (*dto.RecipeShort, error) {
	return s.list.Add(ctx, actor, recipeID)
}

// RemoveFavorite unmarks a favorited recipe.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, actor access.Subject, recipeID string) error {
	return s.list.Remove(ctx, actor, recipeID)
}
