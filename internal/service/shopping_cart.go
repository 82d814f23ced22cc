package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/foodgram/foodgram-server/internal/access"
	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/dto"
	"github.com/foodgram/foodgram-server/internal/metrics"
	"github.com/foodgram/foodgram-server/internal/store"
)

// shoppingListHeader is the first row of every shopping list download.
var shoppingListHeader = []string{"Ingredient", "Amount", "Unit"}

// ShoppingCartService manages a user's shopping cart and renders the
// aggregated shopping list.
type ShoppingCartService struct {
	list       *recipeList
	store      store.Store
	authorizer *access.Authorizer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewShoppingCartService creates a new shopping cart service.
func NewShoppingCartService(
	store store.Store,
	enricher *dto.Enricher,
	authorizer *access.Authorizer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ShoppingCartService {
	return &ShoppingCartService{
		list: &recipeList{
			store:      store,
			enricher:   enricher,
			authorizer: authorizer,
			metrics:    m,
			logger:     logger,
			kind:       metrics.ToggleShoppingCart,
			object:     access.ObjectShoppingCart,
			add:        store.AddToShoppingCart,
			remove:     store.RemoveFromShoppingCart,
			existsMsg:  "recipe is already in the shopping cart",
			missingMsg: "recipe is not in the shopping cart",
		},
		store:      store,
		authorizer: authorizer,
		metrics:    m,
		logger:     logger,
	}
}

// ShoppingList is a rendered shopping list download.
type ShoppingList struct {
	Filename string
	Content  []byte
	Items    int
}

// AddToCart puts a recipe into actor's shopping cart.
func (s *ShoppingCartService) AddToCart(ctx context.Context, actor access.Subject, recipeID string) (*dto.RecipeShort, error) {
	return s.list.Add(ctx, actor, recipeID)
}

// RemoveFromCart takes a recipe out of actor's shopping cart.
func (s *ShoppingCartService) RemoveFromCart(ctx context.Context, actor access.Subject, recipeID string) error {
	return s.list.Remove(ctx, actor, recipeID)
}

// DownloadShoppingList aggregates the ingredients of every recipe in the
// cart, summing amounts per (name, unit), and renders them as CSV. An empty
// cart yields just the header row.
func (s *ShoppingCartService) DownloadShoppingList(ctx context.Context, actor access.Subject) (*ShoppingList, error) {
	if err := s.authorizer.Authorize(actor, access.ObjectShoppingCart, access.ActionRead, ""); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, storeError(err, "get user", "user")
	}
	items, err := s.store.AggregateShoppingCart(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	content, err := renderShoppingList(items)
	if err != nil {
		return nil, fmt.Errorf("render shopping list: %w", err)
	}
	s.metrics.RecordShoppingListDownload(len(items))

	s.logger.Info("Shopping list downloaded", "user_id", user.ID, "items", len(items))
	return &ShoppingList{
		Filename: user.Username + "_shopping_list.csv",
		Content:  content,
		Items:    len(items),
	}, nil
}

func renderShoppingList(items []domain.ShoppingItem) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(shoppingListHeader); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := w.Write([]string{item.Name, strconv.Itoa(item.Amount), item.MeasurementUnit}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
