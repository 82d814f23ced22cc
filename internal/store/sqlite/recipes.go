package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/store"
)

// recipeColumns must match the scan order in scanRecipe.
const recipeColumns = `id, author_id, name, text, image, image_blurhash, cooking_time, created_at, updated_at`

func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var (
		r         domain.Recipe
		blurHash  sql.NullString
		createdAt string
		updatedAt string
	)
	err := scanner.Scan(
		&r.ID,
		&r.AuthorID,
		&r.Name,
		&r.Text,
		&r.Image,
		&blurHash,
		&r.CookingTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	r.ImageBlurHash = blurHash.String
	return &r, nil
}

func (s *Store) queryRecipes(ctx context.Context, query string, args ...any) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []*domain.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// insertRecipeTags bulk-inserts the tag links of a recipe in one statement.
func insertRecipeTags(ctx context.Context, tx *sql.Tx, recipeID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	values := make([]string, len(tagIDs))
	args := make([]any, 0, len(tagIDs)*2)
	for i, tagID := range tagIDs {
		values[i] = "(?, ?)"
		args = append(args, recipeID, tagID)
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES `+strings.Join(values, ", "), args...)
	if err != nil {
		return fmt.Errorf("insert recipe_tags: %w", mapConstraintError(err))
	}
	return nil
}

// insertRecipeIngredients bulk-inserts the ingredient amounts of a recipe in one statement.
func insertRecipeIngredients(ctx context.Context, tx *sql.Tx, recipeID string, items []domain.RecipeIngredient) error {
	if len(items) == 0 {
		return nil
	}
	values := make([]string, len(items))
	args := make([]any, 0, len(items)*3)
	for i, item := range items {
		values[i] = "(?, ?, ?)"
		args = append(args, recipeID, item.IngredientID, item.Amount)
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount) VALUES `+strings.Join(values, ", "), args...)
	if err != nil {
		return fmt.Errorf("insert recipe_ingredients: %w", mapConstraintError(err))
	}
	return nil
}

// CreateRecipe inserts a recipe and its tag and ingredient links in one transaction.
func (s *Store) CreateRecipe(ctx context.Context, r *domain.Recipe, tagIDs []string, items []domain.RecipeIngredient) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipes (`+recipeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.AuthorID,
		r.Name,
		r.Text,
		r.Image,
		nullString(r.ImageBlurHash),
		r.CookingTime,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		return mapConstraintError(err)
	}
	if err := insertRecipeTags(ctx, tx, r.ID, tagIDs); err != nil {
		return err
	}
	if err := insertRecipeIngredients(ctx, tx, r.ID, items); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if err := s.indexer().IndexRecipe(ctx, r); err != nil {
		s.logger.Warn("failed to index recipe", "recipe_id", r.ID, "error", err)
	}
	return nil
}

// UpdateRecipe rewrites a recipe row and replaces its tag and ingredient
// links wholesale, all in one transaction.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) UpdateRecipe(ctx context.Context, r *domain.Recipe, tagIDs []string, items []domain.RecipeIngredient) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE recipes SET
			name = ?,
			text = ?,
			image = ?,
			image_blurhash = ?,
			cooking_time = ?,
			updated_at = ?
		WHERE id = ?`,
		r.Name,
		r.Text,
		r.Image,
		nullString(r.ImageBlurHash),
		r.CookingTime,
		formatTime(r.UpdatedAt),
		r.ID,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	if err := expectAffected(result); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, r.ID); err != nil {
		return fmt.Errorf("clear recipe_tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, r.ID); err != nil {
		return fmt.Errorf("clear recipe_ingredients: %w", err)
	}
	if err := insertRecipeTags(ctx, tx, r.ID, tagIDs); err != nil {
		return err
	}
	if err := insertRecipeIngredients(ctx, tx, r.ID, items); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if err := s.indexer().IndexRecipe(ctx, r); err != nil {
		s.logger.Warn("failed to reindex recipe", "recipe_id", r.ID, "error", err)
	}
	return nil
}

// DeleteRecipe removes a recipe; its links, favorites and cart entries cascade.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := expectAffected(result); err != nil {
		return err
	}
	if err := s.indexer().DeleteRecipe(ctx, id); err != nil {
		s.logger.Warn("failed to remove recipe from index", "recipe_id", id, "error", err)
	}
	return nil
}

// GetRecipe retrieves a recipe row by ID.
// Returns store.ErrNotFound if the recipe does not exist.
func (s *Store) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	r, err := scanRecipe(s.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id))
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return r, nil
}

// recipeFilterClause builds the WHERE clause for a filter. Slice arguments
// are expanded later by inQuery.
func recipeFilterClause(f domain.RecipeFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.AuthorID != "" {
		conds = append(conds, `author_id = ?`)
		args = append(args, f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		conds = append(conds, `id IN (
			SELECT rt.recipe_id FROM recipe_tags rt
			JOIN tags t ON t.id = rt.tag_id
			WHERE t.slug IN (?))`)
		args = append(args, f.TagSlugs)
	}
	if f.ViewerID != "" && f.OnlyFavorited {
		conds = append(conds, `id IN (SELECT recipe_id FROM favorites WHERE user_id = ?)`)
		args = append(args, f.ViewerID)
	}
	if f.ViewerID != "" && f.OnlyInShoppingCart {
		conds = append(conds, `id IN (SELECT recipe_id FROM shopping_cart WHERE user_id = ?)`)
		args = append(args, f.ViewerID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListRecipes returns one page of recipes matching the filter, newest first.
func (s *Store) ListRecipes(ctx context.Context, f domain.RecipeFilter, page store.PageParams) (store.PaginatedResult[*domain.Recipe], error) {
	var empty store.PaginatedResult[*domain.Recipe]
	where, args := recipeFilterClause(f)

	countQ, countArgs, err := s.inQuery(`SELECT COUNT(*) FROM recipes`+where, args...)
	if err != nil {
		return empty, err
	}
	var total int
	if err := s.db.QueryRowContext(ctx, countQ, countArgs...).Scan(&total); err != nil {
		return empty, fmt.Errorf("count recipes: %w", err)
	}

	listArgs := append(append([]any{}, args...), page.Limit, page.Offset())
	listQ, listArgs, err := s.inQuery(
		`SELECT `+recipeColumns+` FROM recipes`+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, listArgs...)
	if err != nil {
		return empty, err
	}
	recipes, err := s.queryRecipes(ctx, listQ, listArgs...)
	if err != nil {
		return empty, fmt.Errorf("list recipes: %w", err)
	}
	return store.PaginatedResult[*domain.Recipe]{Items: recipes, Total: total}, nil
}

// ListAllRecipes returns every recipe, oldest first.
func (s *Store) ListAllRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	return s.queryRecipes(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY created_at, id`)
}

type recipeTagRow struct {
	RecipeID string `db:"recipe_id"`
	ID       string `db:"id"`
	Name     string `db:"name"`
	Color    string `db:"color"`
	Slug     string `db:"slug"`
}

// GetRecipeTags loads the tags of several recipes, keyed by recipe ID.
func (s *Store) GetRecipeTags(ctx context.Context, recipeIDs []string) (map[string][]*domain.Tag, error) {
	out := make(map[string][]*domain.Tag)
	recipeIDs = uniqueIDs(recipeIDs)
	if len(recipeIDs) == 0 {
		return out, nil
	}
	q, args, err := s.inQuery(`
		SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id IN (?)
		ORDER BY t.name, t.slug`, recipeIDs)
	if err != nil {
		return nil, err
	}
	var rows []recipeTagRow
	if err := s.dbx.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("select recipe tags: %w", err)
	}
	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], &domain.Tag{
			ID: row.ID, Name: row.Name, Color: row.Color, Slug: row.Slug,
		})
	}
	return out, nil
}

type recipeIngredientRow struct {
	RecipeID        string `db:"recipe_id"`
	ID              string `db:"id"`
	Name            string `db:"name"`
	MeasurementUnit string `db:"measurement_unit"`
	Amount          int    `db:"amount"`
}

// GetRecipeIngredients loads the ingredient amounts of several recipes, keyed by recipe ID.
func (s *Store) GetRecipeIngredients(ctx context.Context, recipeIDs []string) (map[string][]domain.IngredientAmount, error) {
	out := make(map[string][]domain.IngredientAmount)
	recipeIDs = uniqueIDs(recipeIDs)
	if len(recipeIDs) == 0 {
		return out, nil
	}
	q, args, err := s.inQuery(`
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id IN (?)
		ORDER BY i.name, i.measurement_unit`, recipeIDs)
	if err != nil {
		return nil, err
	}
	var rows []recipeIngredientRow
	if err := s.dbx.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("select recipe ingredients: %w", err)
	}
	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], domain.IngredientAmount{
			Ingredient: domain.Ingredient{ID: row.ID, Name: row.Name, MeasurementUnit: row.MeasurementUnit},
			Amount:     row.Amount,
		})
	}
	return out, nil
}

// RecipesByAuthors returns each author's newest recipes, keyed by author ID.
// A negative limit returns all of them.
func (s *Store) RecipesByAuthors(ctx context.Context, authorIDs []string, limit int) (map[string][]*domain.Recipe, error) {
	out := make(map[string][]*domain.Recipe)
	authorIDs = uniqueIDs(authorIDs)
	if len(authorIDs) == 0 || limit == 0 {
		return out, nil
	}
	q, args, err := s.inQuery(`
		SELECT `+recipeColumns+` FROM (
			SELECT r.*, ROW_NUMBER() OVER (
				PARTITION BY author_id ORDER BY created_at DESC, id DESC
			) AS rn
			FROM recipes r
			WHERE author_id IN (?)
		)
		WHERE ? < 0 OR rn <= ?
		ORDER BY author_id, rn`, authorIDs, limit, limit)
	if err != nil {
		return nil, err
	}
	recipes, err := s.queryRecipes(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("recipes by authors: %w", err)
	}
	for _, r := range recipes {
		out[r.AuthorID] = append(out[r.AuthorID], r)
	}
	return out, nil
}

type countRow struct {
	Key   string `db:"k"`
	Count int    `db:"n"`
}

func (s *Store) countBy(ctx context.Context, query string, ids []string) (map[string]int, error) {
	out := make(map[string]int)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := s.inQuery(query, ids)
	if err != nil {
		return nil, err
	}
	var rows []countRow
	if err := s.dbx.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

// CountRecipesByAuthors returns recipe counts keyed by author ID. Authors
// without recipes are absent from the map.
func (s *Store) CountRecipesByAuthors(ctx context.Context, authorIDs []string) (map[string]int, error) {
	return s.countBy(ctx, `
		SELECT author_id AS k, COUNT(*) AS n FROM recipes
		WHERE author_id IN (?) GROUP BY author_id`, authorIDs)
}

// CountFavorites returns how many users favorited each recipe, keyed by recipe ID.
func (s *Store) CountFavorites(ctx context.Context, recipeIDs []string) (map[string]int, error) {
	return s.countBy(ctx, `
		SELECT recipe_id AS k, COUNT(*) AS n FROM favorites
		WHERE recipe_id IN (?) GROUP BY recipe_id`, recipeIDs)
}

// now is the clock used for relation timestamps.
var now = time.Now
