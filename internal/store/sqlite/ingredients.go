package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/normalize"
)

const ingredientColumns = `id, name, measurement_unit`

func scanIngredient(scanner interface{ Scan(dest ...any) error }) (*domain.Ingredient, error) {
	var i domain.Ingredient
	if err := scanner.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *Store) queryIngredients(ctx context.Context, query string, args ...any) ([]*domain.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Ingredient{}
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// CreateIngredient inserts a new ingredient.
// Returns store.ErrAlreadyExists if the (name, measurement_unit) pair exists.
func (s *Store) CreateIngredient(ctx context.Context, i *domain.Ingredient) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredients (id, name, name_folded, measurement_unit)
		VALUES (?, ?, ?, ?)`,
		i.ID, i.Name, normalize.Fold(i.Name), i.MeasurementUnit)
	return mapConstraintError(err)
}

// GetIngredient retrieves an ingredient by ID.
// Returns store.ErrNotFound if the ingredient does not exist.
func (s *Store) GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error) {
	i, err := scanIngredient(s.db.QueryRowContext(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id))
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return i, nil
}

// ListIngredients returns ingredients ordered by name. A non-empty prefix
// keeps only names starting with it, compared case-insensitively.
func (s *Store) ListIngredients(ctx context.Context, prefix string) ([]*domain.Ingredient, error) {
	folded := normalize.Fold(prefix)
	if folded == "" {
		return s.queryIngredients(ctx,
			`SELECT `+ingredientColumns+` FROM ingredients ORDER BY name, measurement_unit`)
	}
	return s.queryIngredients(ctx, `
		SELECT `+ingredientColumns+` FROM ingredients
		WHERE substr(name_folded, 1, ?) = ?
		ORDER BY name, measurement_unit`,
		len([]rune(folded)), folded)
}

// GetIngredientsByIDs returns the ingredients that exist among ids.
func (s *Store) GetIngredientsByIDs(ctx context.Context, ids []string) ([]*domain.Ingredient, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []*domain.Ingredient{}, nil
	}
	q, args, err := s.inQuery(`SELECT `+ingredientColumns+` FROM ingredients WHERE id IN (?) ORDER BY name`, ids)
	if err != nil {
		return nil, err
	}
	return s.queryIngredients(ctx, q, args...)
}

// BulkCreateIngredients inserts ingredients in one transaction, skipping
// pairs that already exist. Returns the number of rows inserted.
func (s *Store) BulkCreateIngredients(ctx context.Context, ingredients []*domain.Ingredient) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ingredients (id, name, name_folded, measurement_unit)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name, measurement_unit) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, i := range ingredients {
		name := strings.TrimSpace(i.Name)
		result, err := stmt.ExecContext(ctx, i.ID, name, normalize.Fold(name), strings.TrimSpace(i.MeasurementUnit))
		if err != nil {
			return 0, fmt.Errorf("insert ingredient %q: %w", name, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}
