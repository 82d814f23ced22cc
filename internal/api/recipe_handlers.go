package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/dto"
	"github.com/foodgram/foodgram-server/internal/service"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes",
		Summary:     "List recipes",
		Description: "Returns a page of recipes, newest first. The favorited and shopping cart filters apply to authenticated users only.",
		Tags:        []string{"Recipes"},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes",
		Summary:       "Create recipe",
		Description:   "Publishes a recipe authored by the current user",
		Tags:          []string{"Recipes"},
		DefaultStatus: http.StatusCreated,
		MaxBodyBytes:  MaxRequestBodySize,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Get recipe",
		Description: "Returns a recipe by ID",
		Tags:        []string{"Recipes"},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID:  "updateRecipe",
		Method:       http.MethodPatch,
		Path:         "/api/v1/recipes/{id}",
		Summary:      "Update recipe",
		Description:  "Replaces a recipe's content. Only the author may update it; tags and ingredients are required.",
		Tags:         []string{"Recipes"},
		MaxBodyBytes: MaxRequestBodySize,
		Security:     []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteRecipe",
		Method:        http.MethodDelete,
		Path:          "/api/v1/recipes/{id}",
		Summary:       "Delete recipe",
		Description:   "Deletes a recipe. Only the author may delete it.",
		Tags:          []string{"Recipes"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRecipe)
}

// ListRecipesInput contains parameters for listing recipes.
type ListRecipesInput struct {
	PageQuery
	Author           string   `query:"author" doc:"Author user ID"`
	Tags             []string `query:"tags,explode" doc:"Tag slugs; a recipe matches if it has any of them"`
	IsFavorited      bool     `query:"is_favorited" doc:"Only recipes the current user favorited (1 or true)"`
	IsInShoppingCart bool     `query:"is_in_shopping_cart" doc:"Only recipes in the current user's shopping cart (1 or true)"`
}

// RecipePageOutput wraps a page of recipes for Huma.
type RecipePageOutput struct {
	Body Page[*dto.Recipe]
}

// RecipeIngredientRequest references an ingredient and its amount.
type RecipeIngredientRequest struct {
	ID     string `json:"id,omitempty" doc:"Ingredient ID"`
	Amount int    `json:"amount,omitempty" doc:"Amount in the ingredient's measurement unit"`
}

// RecipeRequest is the request body for creating or updating a recipe.
type RecipeRequest struct {
	Tags        []string                  `json:"tags,omitempty" doc:"Tag IDs"`
	Ingredients []RecipeIngredientRequest `json:"ingredients,omitempty" doc:"Ingredients with amounts"`
	Name        string                    `json:"name,omitempty" doc:"Recipe name"`
	Image       string                    `json:"image,omitempty" doc:"Image as a base64 data URI; required on create, optional on update"`
	Text        string                    `json:"text,omitempty" doc:"Description; HTML is converted to Markdown"`
	CookingTime int                       `json:"cooking_time,omitempty" doc:"Cooking time in minutes"`
}

func (r RecipeRequest) toWrite() service.RecipeWrite {
	ingredients := make([]service.RecipeIngredientWrite, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = service.RecipeIngredientWrite{ID: ing.ID, Amount: ing.Amount}
	}
	if r.Ingredients == nil {
		ingredients = nil
	}
	return service.RecipeWrite{
		Tags:        r.Tags,
		Ingredients: ingredients,
		Name:        r.Name,
		Image:       r.Image,
		Text:        r.Text,
		CookingTime: r.CookingTime,
	}
}

// CreateRecipeInput wraps the create recipe request for Huma.
type CreateRecipeInput struct {
	Body RecipeRequest
}

// RecipeOutput wraps a recipe for Huma.
type RecipeOutput struct {
	Body *dto.Recipe
}

// RecipeIDInput identifies a recipe.
type RecipeIDInput struct {
	ID string `path:"id" doc:"Recipe ID"`
}

// UpdateRecipeInput wraps the update recipe request for Huma.
type UpdateRecipeInput struct {
	ID   string `path:"id" doc:"Recipe ID"`
	Body RecipeRequest
}

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*RecipePageOutput, error) {
	page := s.pageParams(input.PageQuery)
	result, err := s.services.Recipe.ListRecipes(ctx, optionalUser(ctx), service.RecipeListParams{
		AuthorID:         input.Author,
		TagSlugs:         input.Tags,
		IsFavorited:      input.IsFavorited,
		IsInShoppingCart: input.IsInShoppingCart,
		Page:             page,
	})
	if err != nil {
		return nil, err
	}
	return &RecipePageOutput{Body: newPage(input.PageQuery, page, result)}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	recipe, err := s.services.Recipe.CreateRecipe(ctx, actor, input.Body.toWrite())
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: recipe}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *RecipeIDInput) (*RecipeOutput, error) {
	recipe, err := s.services.Recipe.GetRecipe(ctx, optionalUser(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: recipe}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	recipe, err := s.services.Recipe.UpdateRecipe(ctx, actor, input.ID, input.Body.toWrite())
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: recipe}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *RecipeIDInput) (*struct{}, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Recipe.DeleteRecipe(ctx, actor, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
