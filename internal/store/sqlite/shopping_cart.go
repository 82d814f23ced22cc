package sqlite

import (
	"context"
	"fmt"

	"github.com/foodgram/foodgram-server/internal/domain"
)

// AddToShoppingCart puts a recipe into the user's shopping list.
func (s *Store) AddToShoppingCart(ctx context.Context, userID, recipeID string) error {
	return s.addUserRecipe(ctx, shoppingCartTable, userID, recipeID)
}

// RemoveFromShoppingCart takes a recipe out of the user's shopping list.
func (s *Store) RemoveFromShoppingCart(ctx context.Context, userID, recipeID string) error {
	return s.removeUserRecipe(ctx, shoppingCartTable, userID, recipeID)
}

// InShoppingCartAmong returns the subset of recipeIDs in the user's shopping list.
func (s *Store) InShoppingCartAmong(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	return s.userRecipesAmong(ctx, shoppingCartTable, userID, recipeIDs)
}

// AggregateShoppingCart sums ingredient amounts across every recipe in the
// user's shopping list, one row per (name, unit), ordered by name.
func (s *Store) AggregateShoppingCart(ctx context.Context, userID string) ([]domain.ShoppingItem, error) {
	items := []domain.ShoppingItem{}
	err := s.dbx.SelectContext(ctx, &items, `
		SELECT i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS total
		FROM shopping_cart sc
		JOIN recipe_ingredients ri ON ri.recipe_id = sc.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE sc.user_id = ?
		GROUP BY i.name, i.measurement_unit
		ORDER BY i.name, i.measurement_unit`, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping cart: %w", err)
	}
	return items, nil
}
