package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foodgram/foodgram-server/internal/access"
	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/id"
	"github.com/foodgram/foodgram-server/internal/store"
	"github.com/foodgram/foodgram-server/internal/validation"
)

// IngredientService manages the ingredient catalogue.
type IngredientService struct {
	store      store.Store
	authorizer *access.Authorizer
	validator  *validation.Validator
	logger     *slog.Logger
}

// NewIngredientService creates a new ingredient service.
func NewIngredientService(
	store store.Store,
	authorizer *access.Authorizer,
	validator *validation.Validator,
	logger *slog.Logger,
) *IngredientService {
	return &IngredientService{
		store:      store,
		authorizer: authorizer,
		validator:  validator,
		logger:     logger,
	}
}

// CreateIngredientRequest describes a new catalogue entry.
type CreateIngredientRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

// ListIngredients returns ingredients whose name starts with namePrefix,
// compared case-insensitively, ordered by name. An empty prefix lists all.
func (s *IngredientService) ListIngredients(ctx context.Context, namePrefix string) ([]*domain.Ingredient, error) {
	ingredients, err := s.store.ListIngredients(ctx, strings.TrimSpace(namePrefix))
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

// GetIngredient returns an ingredient by ID.
func (s *IngredientService) GetIngredient(ctx context.Context, ingredientID string) (*domain.Ingredient, error) {
	ingredient, err := s.store.GetIngredient(ctx, ingredientID)
	if err != nil {
		return nil, storeError(err, "get ingredient", "ingredient")
	}
	return ingredient, nil
}

// CreateIngredient adds an ingredient. The (name, unit) pair must be new.
func (s *IngredientService) CreateIngredient(ctx context.Context, actor access.Subject, req CreateIngredientRequest) (*domain.Ingredient, error) {
	if err := s.authorizer.Authorize(actor, access.ObjectIngredient, access.ActionCreate, ""); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.MeasurementUnit = strings.TrimSpace(req.MeasurementUnit)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ingredientID, err := id.Generate(id.PrefixIngredient)
	if err != nil {
		return nil, fmt.Errorf("generate ingredient ID: %w", err)
	}
	ingredient := &domain.Ingredient{
		ID:              ingredientID,
		Name:            req.Name,
		MeasurementUnit: req.MeasurementUnit,
	}

	if err := s.store.CreateIngredient(ctx, ingredient); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, fieldConflict("name", "this ingredient already exists with that measurement unit", err)
		}
		return nil, fmt.Errorf("create ingredient: %w", err)
	}

	s.logger.Info("Ingredient created",
		"ingredient_id", ingredient.ID,
		"name", ingredient.Name,
		"unit", ingredient.MeasurementUnit,
	)
	return ingredient, nil
}

// ImportIngredients bulk-loads catalogue entries, skipping pairs that
// already exist. Returns the number inserted. Used by the seed command.
func (s *IngredientService) ImportIngredients(ctx context.Context, reqs []CreateIngredientRequest) (int, error) {
	ingredients := make([]*domain.Ingredient, 0, len(reqs))
	for i, req := range reqs {
		req.Name = strings.TrimSpace(req.Name)
		req.MeasurementUnit = strings.TrimSpace(req.MeasurementUnit)
		if err := s.validator.Validate(req); err != nil {
			return 0, fmt.Errorf("ingredient %d (%q): %w", i+1, req.Name, err)
		}
		ingredientID, err := id.Generate(id.PrefixIngredient)
		if err != nil {
			return 0, fmt.Errorf("generate ingredient ID: %w", err)
		}
		ingredients = append(ingredients, &domain.Ingredient{
			ID:              ingredientID,
			Name:            req.Name,
			MeasurementUnit: req.MeasurementUnit,
		})
	}

	inserted, err := s.store.BulkCreateIngredients(ctx, ingredients)
	if err != nil {
		return 0, fmt.Errorf("import ingredients: %w", err)
	}
	s.logger.Info("Ingredients imported", "total", len(ingredients), "inserted", inserted)
	return inserted, nil
}
