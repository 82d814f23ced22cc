package api

import (
	"github.com/foodgram/foodgram-server/internal/media/images"
	"github.com/foodgram/foodgram-server/internal/service"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Auth         *service.AuthService
	User         *service.UserService
	Tag          *service.TagService
	Ingredient   *service.IngredientService
	Recipe       *service.RecipeService
	Favorite     *service.FavoriteService
	ShoppingCart *service.ShoppingCartService
	Subscription *service.SubscriptionService
	Search       *service.SearchService
}

// StorageServices groups file storage handlers used by the API server.
type StorageServices struct {
	RecipeImages *images.Storage
}
