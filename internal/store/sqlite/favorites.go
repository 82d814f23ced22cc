package sqlite

import (
	"context"
	"fmt"

	"github.com/foodgram/foodgram-server/internal/store"
)

// userRecipeTables are the per-user recipe lists sharing one shape.
const (
	favoritesTable    = "favorites"
	shoppingCartTable = "shopping_cart"
)

// addUserRecipe inserts a (user, recipe) row into table.
// Duplicates return store.ErrAlreadyExists, a missing recipe store.ErrNotFound.
func (s *Store) addUserRecipe(ctx context.Context, table, userID, recipeID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (user_id, recipe_id, created_at) VALUES (?, ?, ?)`,
		userID, recipeID, formatTime(now()))
	if isForeignKeyViolation(err) {
		return store.ErrNotFound.WithCause(err)
	}
	return mapConstraintError(err)
}

// removeUserRecipe deletes a (user, recipe) row from table.
// Returns store.ErrNotFound when there was nothing to delete.
func (s *Store) removeUserRecipe(ctx context.Context, table, userID, recipeID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// userRecipesAmong returns which of recipeIDs appear in table for userID.
func (s *Store) userRecipesAmong(ctx context.Context, table, userID string, recipeIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	recipeIDs = uniqueIDs(recipeIDs)
	if userID == "" || len(recipeIDs) == 0 {
		return out, nil
	}
	q, args, err := s.inQuery(
		`SELECT recipe_id FROM `+table+` WHERE user_id = ? AND recipe_id IN (?)`, userID, recipeIDs)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := s.dbx.SelectContext(ctx, &ids, q, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// AddFavorite marks a recipe as favorited by a user.
func (s *Store) AddFavorite(ctx context.Context, userID, recipeID string) error {
	return s.addUserRecipe(ctx, favoritesTable, userID, recipeID)
}

// RemoveFavorite removes a favorite mark.
func (s *Store) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	return s.removeUserRecipe(ctx, favoritesTable, userID, recipeID)
}

// FavoritedAmong returns the subset of recipeIDs the user has favorited.
func (s *Store) FavoritedAmong(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	return s.userRecipesAmong(ctx, favoritesTable, userID, recipeIDs)
}
