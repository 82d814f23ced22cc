package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foodgram/foodgram-server/internal/search"
	"github.com/foodgram/foodgram-server/internal/store"
)

// Search limits.
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// SearchService runs full-text recipe searches and keeps the index in step
// with the store.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs a recipe search. Limit is clamped to MaxSearchLimit.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	params.Query = strings.TrimSpace(params.Query)
	if params.Limit <= 0 {
		params.Limit = DefaultSearchLimit
	}
	params.Limit = min(params.Limit, MaxSearchLimit)
	params.Offset = max(params.Offset, 0)
	if params.SortBy == "" {
		params.SortBy = search.SortRelevance
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	return result, nil
}

// ReindexAll rebuilds the index from every stored recipe.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	start := time.Now()

	recipes, err := s.store.ListAllRecipes(ctx)
	if err != nil {
		return fmt.Errorf("list recipes: %w", err)
	}
	if err := s.index.Rebuild(recipes); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	s.logger.Info("Search index rebuilt", "recipes", len(recipes), "duration", time.Since(start))
	return nil
}

// EnsureIndexed rebuilds the index when it is empty but recipes exist,
// e.g. after the index directory was removed or its mapping changed.
func (s *SearchService) EnsureIndexed(ctx context.Context) error {
	count, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return nil
	}
	return s.ReindexAll(ctx)
}

// Healthy reports whether the index answers queries.
func (s *SearchService) Healthy() error {
	_, err := s.index.DocumentCount()
	return err
}
