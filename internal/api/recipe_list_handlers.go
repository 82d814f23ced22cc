package api

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/dto"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "addFavorite",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes/{id}/favorite",
		Summary:       "Add to favorites",
		Description:   "Marks a recipe as a favorite of the current user",
		Tags:          []string{"Favorites"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleAddFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeFavorite",
		Method:        http.MethodDelete,
		Path:          "/api/v1/recipes/{id}/favorite",
		Summary:       "Remove from favorites",
		Description:   "Removes a recipe from the current user's favorites",
		Tags:          []string{"Favorites"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFavorite)
}

func (s *Server) registerShoppingCartRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "downloadShoppingCart",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/download_shopping_cart",
		Summary:     "Download shopping list",
		Description: "Returns the summed ingredients of every recipe in the cart as CSV",
		Tags:        []string{"Shopping cart"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDownloadShoppingCart)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addToShoppingCart",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes/{id}/shopping_cart",
		Summary:       "Add to shopping cart",
		Description:   "Puts a recipe into the current user's shopping cart",
		Tags:          []string{"Shopping cart"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleAddToShoppingCart)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeFromShoppingCart",
		Method:        http.MethodDelete,
		Path:          "/api/v1/recipes/{id}/shopping_cart",
		Summary:       "Remove from shopping cart",
		Description:   "Takes a recipe out of the current user's shopping cart",
		Tags:          []string{"Shopping cart"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromShoppingCart)
}

// RecipeShortOutput wraps the short recipe form for Huma.
type RecipeShortOutput struct {
	Body *dto.RecipeShort
}

func (s *Server) handleAddFavorite(ctx context.Context, input *RecipeIDInput) (*RecipeShortOutput, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	recipe, err := s.services.Favorite.AddFavorite(ctx, actor, input.ID)
	if err != nil {
		return nil, err
	}
	return &RecipeShortOutput{Body: recipe}, nil
}

func (s *Server) handleRemoveFavorite(ctx context.Context, input *RecipeIDInput) (*struct{}, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Favorite.RemoveFavorite(ctx, actor, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleAddToShoppingCart(ctx context.Context, input *RecipeIDInput) (*RecipeShortOutput, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	recipe, err := s.services.ShoppingCart.AddToCart(ctx, actor, input.ID)
	if err != nil {
		return nil, err
	}
	return &RecipeShortOutput{Body: recipe}, nil
}

func (s *Server) handleRemoveFromShoppingCart(ctx context.Context, input *RecipeIDInput) (*struct{}, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.ShoppingCart.RemoveFromCart(ctx, actor, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleDownloadShoppingCart(ctx context.Context, _ *struct{}) (*huma.StreamResponse, error) {
	actor, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.services.ShoppingCart.DownloadShoppingList(ctx, actor)
	if err != nil {
		return nil, err
	}

	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			ctx.SetHeader("Content-Type", "text/csv; charset=utf-8")
			ctx.SetHeader("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": list.Filename}))
			ctx.SetHeader("Content-Length", strconv.Itoa(len(list.Content)))
			ctx.SetHeader("Cache-Control", CacheNoStore)
			if _, err := ctx.BodyWriter().Write(list.Content); err != nil {
				s.logger.Warn("failed to write shopping list", "error", err)
			}
		},
	}, nil
}
