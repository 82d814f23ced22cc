// Package dto provides the client-facing representations of users and recipes.
//
// Read representations are denormalized: a recipe carries its expanded tags,
// ingredients and author, plus flags derived for the requesting user
// (is_favorited, is_in_shopping_cart, is_subscribed). Anonymous viewers get
// every derived flag as false.
package dto

import (
	"time"

	"github.com/foodgram/foodgram-server/internal/domain"
)

// User is the public representation of an account.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RecipeShort is the compact recipe representation returned by toggles and
// subscription previews.
type RecipeShort struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// Recipe is the full read representation of a recipe.
type Recipe struct {
	ID               string                    `json:"id"`
	Tags             []*domain.Tag             `json:"tags"`
	Author           *User                     `json:"author"`
	Ingredients      []domain.IngredientAmount `json:"ingredients"`
	IsFavorited      bool                      `json:"is_favorited"`
	IsInShoppingCart bool                      `json:"is_in_shopping_cart"`
	Name             string                    `json:"name"`
	Image            string                    `json:"image"`
	ImageBlurHash    string                    `json:"image_blurhash,omitempty"`
	Text             string                    `json:"text"`
	CookingTime      int                       `json:"cooking_time"`
	FavoritesCount   int                       `json:"favorites_count"`
	CreatedAt        time.Time                 `json:"created_at"`
}

// Subscription is a followed author together with a preview of their recipes.
type Subscription struct {
	User
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int           `json:"recipes_count"`
}

// NewUser converts a domain user without derived flags.
func NewUser(u *domain.User) *User {
	return &User{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
