package store

import (
	"context"

	"github.com/foodgram/foodgram-server/internal/domain"
)

// Store is the persistence boundary used by the service layer.
// All uniqueness rules are enforced by the database: duplicate inserts return
// ErrAlreadyExists, deletes that match nothing return ErrNotFound.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error
	SetSearchIndexer(indexer SearchIndexer)

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, page PageParams) (PaginatedResult[*domain.User], error)
	CountUsers(ctx context.Context) (int, error)

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	GetTagsByIDs(ctx context.Context, ids []string) ([]*domain.Tag, error)

	// Ingredients
	CreateIngredient(ctx context.Context, ingredient *domain.Ingredient) error
	GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]*domain.Ingredient, error)
	GetIngredientsByIDs(ctx context.Context, ids []string) ([]*domain.Ingredient, error)
	BulkCreateIngredients(ctx context.Context, ingredients []*domain.Ingredient) (int, error)

	// Recipes
	CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagIDs []string, items []domain.RecipeIngredient) error
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe, tagIDs []string, items []domain.RecipeIngredient) error
	DeleteRecipe(ctx context.Context, id string) error
	GetRecipe(ctx context.Context, id string) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, filter domain.RecipeFilter, page PageParams) (PaginatedResult[*domain.Recipe], error)
	ListAllRecipes(ctx context.Context) ([]*domain.Recipe, error)
	GetRecipeTags(ctx context.Context, recipeIDs []string) (map[string][]*domain.Tag, error)
	GetRecipeIngredients(ctx context.Context, recipeIDs []string) (map[string][]domain.IngredientAmount, error)
	RecipesByAuthors(ctx context.Context, authorIDs []string, limit int) (map[string][]*domain.Recipe, error)
	CountRecipesByAuthors(ctx context.Context, authorIDs []string) (map[string]int, error)
	CountFavorites(ctx context.Context, recipeIDs []string) (map[string]int, error)

	// Favorites
	AddFavorite(ctx context.Context, userID, recipeID string) error
	RemoveFavorite(ctx context.Context, userID, recipeID string) error
	FavoritedAmong(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)

	// Shopping cart
	AddToShoppingCart(ctx context.Context, userID, recipeID string) error
	RemoveFromShoppingCart(ctx context.Context, userID, recipeID string) error
	InShoppingCartAmong(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)
	AggregateShoppingCart(ctx context.Context, userID string) ([]domain.ShoppingItem, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, userID, followingID string) error
	DeleteSubscription(ctx context.Context, userID, followingID string) error
	SubscribedAmong(ctx context.Context, userID string, candidateIDs []string) (map[string]bool, error)
	ListSubscriptions(ctx context.Context, userID string, page PageParams) (PaginatedResult[*domain.User], error)
}

// SearchIndexer keeps the recipe search index in step with the store.
type SearchIndexer interface {
	IndexRecipe(ctx context.Context, recipe *domain.Recipe) error
	DeleteRecipe(ctx context.Context, recipeID string) error
}

// NoopSearchIndexer is used until a real index is attached, and in tests.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexRecipe(context.Context, *domain.Recipe) error { return nil }
func (NoopSearchIndexer) DeleteRecipe(context.Context, string) error        { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer.
func NewNoopSearchIndexer() SearchIndexer { return NoopSearchIndexer{} }
