package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/service"
)

func (s *Server) registerIngredientRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listIngredients",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients",
		Summary:     "List ingredients",
		Description: "Returns ingredients ordered by name, optionally filtered by a case-insensitive name prefix",
		Tags:        []string{"Ingredients"},
	}, s.handleListIngredients)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createIngredient",
		Method:        http.MethodPost,
		Path:          "/api/v1/ingredients",
		Summary:       "Create ingredient",
		Description:   "Creates an ingredient. Admin only.",
		Tags:          []string{"Ingredients"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateIngredient)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIngredient",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients/{id}",
		Summary:     "Get ingredient",
		Description: "Returns an ingredient by ID",
		Tags:        []string{"Ingredients"},
	}, s.handleGetIngredient)
}

// ListIngredientsInput contains parameters for listing ingredients.
type ListIngredientsInput struct {
	Name string `query:"name" maxLength:"200" doc:"Name prefix"`
}

// IngredientListOutput wraps the ingredient list for Huma.
type IngredientListOutput struct {
	Body []*domain.Ingredient
}

// CreateIngredientRequest is the request body for creating an ingredient.
type CreateIngredientRequest struct {
	Name            string `json:"name,omitempty" doc:"Ingredient name"`
	MeasurementUnit string `json:"measurement_unit,omitempty" doc:"Measurement unit, e.g. g"`
}

// CreateIngredientInput wraps the create ingredient request for Huma.
type CreateIngredientInput struct {
	Body CreateIngredientRequest
}

// IngredientOutput wraps an ingredient for Huma.
type IngredientOutput struct {
	Body *domain.Ingredient
}

// GetIngredientInput contains parameters for getting an ingredient.
type GetIngredientInput struct {
	ID string `path:"id" doc:"Ingredient ID"`
}

func (s *Server) handleListIngredients(ctx context.Context, input *ListIngredientsInput) (*IngredientListOutput, error) {
	ingredients, err := s.services.Ingredient.ListIngredients(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []*domain.Ingredient{}
	}
	return &IngredientListOutput{Body: ingredients}, nil
}

func (s *Server) handleCreateIngredient(ctx context.Context, input *CreateIngredientInput) (*IngredientOutput, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ingredient, err := s.services.Ingredient.CreateIngredient(ctx, actor, service.CreateIngredientRequest{
		Name:            input.Body.Name,
		MeasurementUnit: input.Body.MeasurementUnit,
	})
	if err != nil {
		return nil, err
	}
	return &IngredientOutput{Body: ingredient}, nil
}

func (s *Server) handleGetIngredient(ctx context.Context, input *GetIngredientInput) (*IngredientOutput, error) {
	ingredient, err := s.services.Ingredient.GetIngredient(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &IngredientOutput{Body: ingredient}, nil
}
